package vfs

// FsNode is a transient value snapshot of a FileEntry: {open, name,
// device, parent_id, id, attributes, t_creation, t_edit, owner, size}.
// Mutating operations (Write/Append/Delete) write through to disk and
// invalidate other outstanding snapshots of the same id; this snapshot's
// own Size field is kept in sync by those calls but a separately-held
// snapshot of the same id is not.
type FsNode struct {
	open bool

	Name       string
	Device     string
	ParentID   uint64
	ID         uint64
	Attributes Attr
	TCreation  uint64
	TEdit      uint64
	Owner      uint8
	Size       uint64
}

// IsDir reports whether the node carries the DIR attribute.
func (n *FsNode) IsDir() bool { return n.Attributes.IsDir() }

func (n *FsNode) device(v *VFS) (*device, error) {
	d, err := v.lookupDevice(n.Device)
	if err != nil {
		return nil, err
	}
	if d.sys != WFS {
		return nil, ErrOperationNotSupported
	}
	return d, nil
}

// Open inserts n's id into its device's open-set and marks n open.
// Precondition: !open && id not already in open_set.
func (n *FsNode) Open(v *VFS) error {
	d, err := n.device(v)
	if err != nil {
		return err
	}
	d.openMu.Lock()
	defer d.openMu.Unlock()
	if n.open || d.openSet[n.ID] {
		return ErrAlreadyOpened
	}
	d.openSet[n.ID] = true
	n.open = true
	return nil
}

// Close removes n's id from its device's open-set.
func (n *FsNode) Close(v *VFS) error {
	d, err := n.device(v)
	if err != nil {
		return err
	}
	if !n.open {
		return ErrClosed
	}
	d.openMu.Lock()
	defer d.openMu.Unlock()
	delete(d.openSet, n.ID)
	n.open = false
	return nil
}

func (n *FsNode) requireOpen() error {
	if !n.open {
		return ErrClosed
	}
	return nil
}

// Read dispatches to the chain reader for n's current body.
func (n *FsNode) Read(v *VFS) ([]byte, error) {
	d, err := n.device(v)
	if err != nil {
		return nil, err
	}
	if err := n.requireOpen(); err != nil {
		return nil, err
	}
	e, err := d.fsys.FindEntry(n.ID)
	if err != nil {
		return nil, err
	}
	return d.fsys.Read(&e)
}

// Write replaces n's body with buf and updates n.Size on success.
func (n *FsNode) Write(v *VFS, buf []byte) error {
	d, err := n.device(v)
	if err != nil {
		return err
	}
	if err := n.requireOpen(); err != nil {
		return err
	}
	e, err := d.fsys.FindEntry(n.ID)
	if err != nil {
		return err
	}
	if err := d.fsys.Write(&e, buf); err != nil {
		return err
	}
	n.Size = e.Size
	return nil
}

// Append extends n's body with buf and updates n.Size.
func (n *FsNode) Append(v *VFS, buf []byte) error {
	d, err := n.device(v)
	if err != nil {
		return err
	}
	if err := n.requireOpen(); err != nil {
		return err
	}
	e, err := d.fsys.FindEntry(n.ID)
	if err != nil {
		return err
	}
	if err := d.fsys.Append(&e, buf); err != nil {
		return err
	}
	n.Size = e.Size
	return nil
}

// Delete removes n's entry (recursively, if it is a directory) and its
// open-set entry.
func (n *FsNode) Delete(v *VFS) error {
	d, err := n.device(v)
	if err != nil {
		return err
	}
	if err := n.requireOpen(); err != nil {
		return err
	}
	e, err := d.fsys.FindEntry(n.ID)
	if err != nil {
		return err
	}
	if err := d.fsys.DeleteEntry(&e); err != nil {
		return err
	}
	d.openMu.Lock()
	delete(d.openSet, n.ID)
	d.openMu.Unlock()
	n.open = false
	return nil
}
