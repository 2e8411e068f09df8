// Package block defines the narrow block-device contract wFS is built on
// and three concrete realizations of it: a software model of 28-bit LBA
// PIO ATA (channel 0), a flat in-memory device used by tests, and a
// host-file-backed device used by wfsutil.
package block

import "errors"

// SectorSize is the fixed sector width wFS operates on. The spec makes no
// allowance for other widths: InfoBlock, FileEntry, and data-sector layouts
// are all defined in terms of it.
const SectorSize = 512

// ErrReadError is returned by PIOATA when a sector could not be
// transferred; wfs passes device errors up to its callers as they are or
// wrapped with %w, without translating them to wfs.ErrReadError.
var ErrReadError = errors.New("block: device read/write error")

// Device is the interface the rest of this module consumes. It speaks in
// whole sectors, one at a time, synchronously: wFS never issues
// multi-sector commands.
type Device interface {
	// SectorCount reports the total number of addressable sectors.
	SectorCount() uint64
	// ReadSector reads exactly SectorSize bytes from the given LBA into dst.
	ReadSector(lba uint64, dst []byte) error
	// WriteSector writes exactly SectorSize bytes from src to the given LBA.
	WriteSector(lba uint64, src []byte) error
}

// Identity describes the result of an IDENTIFY DEVICE command.
type Identity struct {
	Present      bool
	TotalSectors uint32
	Model        string
}
