package block

import (
	"fmt"
	"os"
)

// FileDevice is a block.Device backed by a host file, used by wfsutil to
// operate on flat disk images the same way block.MemDevice backs tests.
type FileDevice struct {
	f       *os.File
	sectors uint64
}

// OpenFileDevice opens an existing image file whose size must be an exact
// multiple of SectorSize.
func OpenFileDevice(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size()%SectorSize != 0 {
		f.Close()
		return nil, fmt.Errorf("block: %s: size %d is not a multiple of %d", path, info.Size(), SectorSize)
	}
	return &FileDevice{f: f, sectors: uint64(info.Size()) / SectorSize}, nil
}

// CreateFileDevice creates a new zero-filled image file of the given
// sector count.
func CreateFileDevice(path string, sectors uint64) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(sectors * SectorSize)); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{f: f, sectors: sectors}, nil
}

func (d *FileDevice) Close() error { return d.f.Close() }

func (d *FileDevice) SectorCount() uint64 { return d.sectors }

func (d *FileDevice) ReadSector(lba uint64, dst []byte) error {
	_, err := d.f.ReadAt(dst[:SectorSize], int64(lba*SectorSize))
	return err
}

func (d *FileDevice) WriteSector(lba uint64, src []byte) error {
	_, err := d.f.WriteAt(src[:SectorSize], int64(lba*SectorSize))
	return err
}

var _ Device = (*FileDevice)(nil)
