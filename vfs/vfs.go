// Package vfs is the virtual filesystem façade: a process-wide device
// registry dispatching on each device's System tag, FsNode value
// snapshots, open-set enforcement, and path resolution. It is the only
// entry point the rest of the kernel (or, in this repo, wfsutil) uses to
// touch a mounted wFS device.
package vfs

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ws-kj/wfs/wfs"
)

// device is one registry entry: a name, its backend tag, and (for WFS)
// the mounted filesystem plus the set of currently-open entry ids.
type device struct {
	name  string
	sys   System
	index int
	fsys  *wfs.FS

	openMu  sync.Mutex
	openSet map[uint64]bool
}

// VFS is the device registry. The zero value is not usable; construct
// with New. Lock ordering across a VFS is DEVICES -> per-device open_set
// -> WFS_INFO (the innermost lock, held inside wfs.FS's own methods).
type VFS struct {
	mu      sync.Mutex // guards devices/byName: "DEVICES"
	log     *slog.Logger
	devices []*device
	byName  map[string]*device
}

// New returns an empty device registry.
func New() *VFS {
	return &VFS{log: slog.Default(), byName: make(map[string]*device)}
}

// WithLogger overrides the registry's logger.
func (v *VFS) WithLogger(log *slog.Logger) *VFS {
	v.log = log
	return v
}

// InstallDevice mounts dev under name with the given System backend and
// appends it to the registry; the default device is index 0. Duplicate
// names fail with ErrDuplicateDevice.
func (v *VFS) InstallDevice(name string, sys System, dev wfs.Device) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.byName[name]; exists {
		return 0, ErrDuplicateDevice
	}

	d := &device{
		name:    name,
		sys:     sys,
		index:   len(v.devices),
		openSet: make(map[uint64]bool),
	}

	if sys == WFS {
		fsys, err := wfs.Mount(dev, v.log.With(slog.String("device", name)))
		if err != nil {
			return 0, fmt.Errorf("vfs: installing device %q: %w", name, err)
		}
		d.fsys = fsys
	}

	v.devices = append(v.devices, d)
	v.byName[name] = d
	v.log.Info("vfs: device installed", slog.String("name", name), slog.Int("index", d.index), slog.String("system", sys.String()))
	return d.index, nil
}

func (v *VFS) lookupDevice(name string) (*device, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, ok := v.byName[name]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

func entryToNode(e *wfs.FileEntry, deviceName string, open bool) FsNode {
	return FsNode{
		open:       open,
		Name:       e.Name,
		Device:     deviceName,
		ParentID:   e.ParentID,
		ID:         e.ID,
		Attributes: e.Attributes,
		TCreation:  e.TCreation,
		TEdit:      e.TEdit,
		Owner:      e.Owner,
		Size:       e.Size,
	}
}

// GetRoot returns the root node of the named device.
func (v *VFS) GetRoot(dev string) (FsNode, error) {
	d, err := v.lookupDevice(dev)
	if err != nil {
		return FsNode{}, err
	}
	if d.sys != WFS {
		return FsNode{}, ErrOperationNotSupported
	}
	e, err := d.fsys.Root()
	if err != nil {
		return FsNode{}, err
	}
	return entryToNode(&e, dev, false), nil
}

// FindNode dispatches find_node_by_name against the device's system tag.
func (v *VFS) FindNode(parentID uint64, name string, dev string) (FsNode, error) {
	d, err := v.lookupDevice(dev)
	if err != nil {
		return FsNode{}, err
	}
	if d.sys != WFS {
		return FsNode{}, ErrOperationNotSupported
	}
	e, err := d.fsys.FindEntryByName(parentID, name)
	if err != nil {
		return FsNode{}, err
	}
	return entryToNode(&e, dev, false), nil
}

// FindNodeByID dispatches find_node_by_id.
func (v *VFS) FindNodeByID(id uint64, dev string) (FsNode, error) {
	d, err := v.lookupDevice(dev)
	if err != nil {
		return FsNode{}, err
	}
	if d.sys != WFS {
		return FsNode{}, ErrOperationNotSupported
	}
	e, err := d.fsys.FindEntry(id)
	if err != nil {
		return FsNode{}, err
	}
	return entryToNode(&e, dev, false), nil
}

// CreateNode dispatches create_node.
func (v *VFS) CreateNode(parentID uint64, name string, attrs Attr, owner uint8, dev string) (FsNode, error) {
	d, err := v.lookupDevice(dev)
	if err != nil {
		return FsNode{}, err
	}
	if d.sys != WFS {
		return FsNode{}, ErrOperationNotSupported
	}
	e, err := d.fsys.CreateEntry(name, parentID, attrs, owner)
	if errors.Is(err, wfs.ErrParentNotDirectory) {
		return FsNode{}, fmt.Errorf("%w: %w", ErrParentNotDirectory, err)
	}
	if err != nil {
		return FsNode{}, err
	}
	return entryToNode(&e, dev, false), nil
}

// GetParent resolves id's parent_id to a node.
func (v *VFS) GetParent(id uint64, dev string) (FsNode, error) {
	d, err := v.lookupDevice(dev)
	if err != nil {
		return FsNode{}, err
	}
	if d.sys != WFS {
		return FsNode{}, ErrOperationNotSupported
	}
	self, err := d.fsys.FindEntry(id)
	if err != nil {
		return FsNode{}, err
	}
	parent, err := d.fsys.FindEntry(self.ParentID)
	if err != nil {
		return FsNode{}, err
	}
	return entryToNode(&parent, dev, false), nil
}

// GetChildren enumerates n's directory body. Available regardless of
// open state.
func (v *VFS) GetChildren(n FsNode) ([]FsNode, error) {
	d, err := v.lookupDevice(n.Device)
	if err != nil {
		return nil, err
	}
	if d.sys != WFS {
		return nil, ErrOperationNotSupported
	}
	self, err := d.fsys.FindEntry(n.ID)
	if err != nil {
		return nil, err
	}
	children, err := d.fsys.Children(&self)
	if err != nil {
		return nil, err
	}
	out := make([]FsNode, 0, len(children))
	for i := range children {
		out = append(out, entryToNode(&children[i], n.Device, d.isOpen(children[i].ID)))
	}
	return out, nil
}

func (d *device) isOpen(id uint64) bool {
	d.openMu.Lock()
	defer d.openMu.Unlock()
	return d.openSet[id]
}
