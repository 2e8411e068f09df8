package wfs

import "errors"

// Package-specific error variables, usable with errors.Is, mirroring the
// closed error taxonomy in the spec. vfs wraps or passes these straight
// through to callers.
var (
	// ErrFileNotFound is returned when no entry with the given id/name
	// exists in the expected position.
	ErrFileNotFound = errors.New("wfs: file not found")

	// ErrParentNotDirectory is returned by create_entry when the parent
	// entry lacks the DIR attribute.
	ErrParentNotDirectory = errors.New("wfs: parent is not a directory")

	// ErrIllegalOperation is returned when children are enumerated on a
	// non-directory entry.
	ErrIllegalOperation = errors.New("wfs: illegal operation for entry type")

	// ErrReadError signals chain corruption: a FREE or RESERVED next
	// pointer was reached while the entry's size says more bytes exist.
	ErrReadError = errors.New("wfs: read error: corrupt chain")

	// ErrInvalidName is returned when a filename contains a space (the
	// on-disk terminator) or exceeds NameWidth bytes.
	ErrInvalidName = errors.New("wfs: invalid filename")

	// ErrDeviceFull is returned when the free-block search exhausts the
	// device. The spec treats this as fatal; callers decide whether to
	// panic or propagate it.
	ErrDeviceFull = errors.New("wfs: device full, no free block")

	// ErrCorruptSuperblock names a sector 0 that has lost the wFS
	// signature. Nothing in this package returns it: Mount formats any
	// device whose sector 0 lacks the signature.
	ErrCorruptSuperblock = errors.New("wfs: superblock corrupt")
)
