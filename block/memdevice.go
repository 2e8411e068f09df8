package block

import (
	"errors"
	"fmt"
)

// MemDevice is a flat, in-memory Device backing a fixed number of
// sectors. It is the test analog of soypat-fat's BytesBlocks:
// sector-aligned reads and writes into one contiguous buffer, with no
// persistence beyond the process.
type MemDevice struct {
	buf []byte
}

// NewMemDevice allocates a zeroed device of the given sector count.
func NewMemDevice(sectors uint64) *MemDevice {
	return &MemDevice{buf: make([]byte, sectors*SectorSize)}
}

func (m *MemDevice) SectorCount() uint64 {
	return uint64(len(m.buf)) / SectorSize
}

func (m *MemDevice) ReadSector(lba uint64, dst []byte) error {
	if len(dst) != SectorSize {
		return errors.New("block: dst must be exactly one sector")
	}
	off := lba * SectorSize
	if off+SectorSize > uint64(len(m.buf)) {
		return fmt.Errorf("block: read lba %d out of range", lba)
	}
	copy(dst, m.buf[off:off+SectorSize])
	return nil
}

func (m *MemDevice) WriteSector(lba uint64, src []byte) error {
	if len(src) != SectorSize {
		return errors.New("block: src must be exactly one sector")
	}
	off := lba * SectorSize
	if off+SectorSize > uint64(len(m.buf)) {
		return fmt.Errorf("block: write lba %d out of range", lba)
	}
	copy(m.buf[off:off+SectorSize], src)
	return nil
}

var _ Device = (*MemDevice)(nil)
