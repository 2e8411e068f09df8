// Package wfs implements the on-disk wFS filesystem: the InfoBlock
// superblock, the fixed-width FileEntry records threaded into a global
// doubly-linked list, and the singly-linked data-sector chains that hold
// file and directory bodies. It speaks to storage exclusively through
// block.Device and knows nothing about paths — that is vfs's job.
package wfs

// SectorSize is the fixed sector width, matching block.SectorSize.
const SectorSize = 512

// PayloadSize is the number of body bytes a single data sector carries
// after its 12-byte header (signature + next_sec).
const PayloadSize = 500

// NameWidth is the fixed width of a FileEntry's name field in bytes.
// Space is the terminator, so names cannot contain spaces and cannot
// exceed this length.
const NameWidth = 128

var infoblockSig = [8]byte{'_', 'W', 'F', 'S', '_', 'S', 'I', 'G'}
var dataSig = [4]byte{'D', 'A', 'T', 'A'}

// Reserved 64-bit sentinels used throughout the chain and entry-list
// pointers.
const (
	Free        uint64 = 0x0000_0000_0000_0000
	Reserved    uint64 = 0xFFFF_FFFF_FFFF_FFF0
	EndOfChain  uint64 = 0xFFFF_FFFF_FFFF_FFFF
	RootSector  uint64 = 1
	RootID      uint64 = 1
	InfoSector  uint64 = 0
	NoParent    uint64 = 0
)

// Attr is the bitfield of FileEntry attributes.
type Attr uint8

const (
	AttrRO Attr = 1 << iota
	AttrSYS
	AttrDIR
	AttrHDN
)

func (a Attr) IsDir() bool      { return a&AttrDIR != 0 }
func (a Attr) IsReadonly() bool { return a&AttrRO != 0 }
func (a Attr) IsSystem() bool   { return a&AttrSYS != 0 }
func (a Attr) IsHidden() bool   { return a&AttrHDN != 0 }
