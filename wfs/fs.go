package wfs

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ws-kj/wfs/block"
	"github.com/ws-kj/wfs/internal/clock"
)

// FS is the mounted wFS filesystem: the in-memory superblock plus the
// block device it is backed by. It is the only persistent in-memory
// state wFS keeps — every FileEntry and data sector is read on demand,
// never cached, per the Non-goals.
//
// FS is safe for concurrent use: every exported method takes the single
// mutex for its duration, matching the process-wide locking model the
// spec requires (WFS_INFO is the innermost lock in the DEVICES ->
// open_set -> WFS_INFO ordering; FS never calls back out to vfs, so it
// never needs to acquire the outer locks itself).
type FS struct {
	mu  sync.Mutex
	dev block.Device
	log *slog.Logger
	sb  superblock
	clk clock.Clock
}

// Option configures a Mount call.
type Option func(*FS)

// WithClock overrides the timestamp source used to stamp t_creation and
// t_edit. Defaults to clock.System.
func WithClock(c clock.Clock) Option {
	return func(fsys *FS) { fsys.clk = c }
}

// superblock mirrors rawInfoBlock in memory; see rawInfoBlock for the
// on-disk layout.
type superblock struct {
	blocks        uint64
	blocksInUse   uint64
	files         uint64
	bytesPerBlock uint64
	finalEntry    uint64
}

// Mount loads sector 0 from dev. If it carries the wFS signature the
// superblock is decoded from it; otherwise the device is formatted fresh.
func Mount(dev block.Device, log *slog.Logger, opts ...Option) (*FS, error) {
	if log == nil {
		log = slog.Default()
	}
	fsys := &FS{dev: dev, log: log, clk: clock.System{}}
	for _, opt := range opts {
		opt(fsys)
	}

	var sector [SectorSize]byte
	if err := dev.ReadSector(InfoSector, sector[:]); err != nil {
		return nil, fmt.Errorf("wfs: mount: reading superblock: %w", err)
	}

	if bytes.Equal(sector[1:9], infoblockSig[:]) {
		var raw rawInfoBlock
		if err := raw.unmarshal(sector[:]); err != nil {
			return nil, fmt.Errorf("wfs: mount: decoding superblock: %w", err)
		}
		fsys.sb = superblock{
			blocks:        raw.Blocks,
			blocksInUse:   raw.BlocksInUse,
			files:         raw.Files,
			bytesPerBlock: raw.BytesPerBlock,
			finalEntry:    raw.FinalEntry,
		}
		fsys.log.Debug("wfs: mounted existing filesystem", slog.Uint64("blocks", fsys.sb.blocks))
		return fsys, nil
	}

	fsys.log.Info("wfs: no signature found, formatting")
	if err := fsys.format(); err != nil {
		return nil, err
	}
	return fsys, nil
}

// format implements spec §4.S Format: a fresh superblock plus the root
// entry at sector 1.
func (fsys *FS) format() error {
	total := fsys.dev.SectorCount()
	if total < 2 {
		return fmt.Errorf("wfs: format: device too small (%d sectors)", total)
	}
	fsys.sb = superblock{
		blocks:        total,
		blocksInUse:   1,
		files:         0,
		bytesPerBlock: SectorSize,
		finalEntry:    RootSector,
	}
	if err := fsys.updateInfo(); err != nil {
		return err
	}

	root := FileEntry{
		Name:       "",
		ParentID:   NoParent,
		ID:         RootID,
		Attributes: AttrDIR | AttrSYS | AttrRO,
		StartSec:   EndOfChain,
		NextEntry:  EndOfChain,
		PrevEntry:  EndOfChain,
		Location:   RootSector,
		Size:       0,
	}
	fsys.sb.files = 1
	if err := fsys.writeEntry(&root); err != nil {
		return err
	}
	return fsys.updateInfo()
}

// updateInfo persists the in-memory superblock to sector 0, unconditionally.
func (fsys *FS) updateInfo() error {
	raw := rawInfoBlock{
		Reserved:      0,
		Signature:     infoblockSig,
		Blocks:        fsys.sb.blocks,
		BlocksInUse:   fsys.sb.blocksInUse,
		Files:         fsys.sb.files,
		BytesPerBlock: fsys.sb.bytesPerBlock,
		FinalEntry:    fsys.sb.finalEntry,
	}
	if err := fsys.dev.WriteSector(InfoSector, raw.marshal()); err != nil {
		return fmt.Errorf("wfs: persisting superblock: %w", err)
	}
	return nil
}

