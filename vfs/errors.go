package vfs

import "errors"

// Package-level sentinel errors for the VFS-visible error taxonomy,
// usable with errors.Is. Other wfs-layer errors (ErrFileNotFound,
// ErrReadError, ErrDeviceFull, ErrInvalidName, ErrIllegalOperation) are
// returned as the wfs package reports them.
var (
	// ErrFileNotFound is the node-level name for a missing node. Lookups
	// in this package report a missing entry as wfs.ErrFileNotFound; none
	// of them currently returns this value.
	ErrFileNotFound = errors.New("vfs: file not found")

	// ErrParentNotDirectory is returned by CreateNode when the parent lacks
	// the DIR attribute; the error also matches wfs.ErrParentNotDirectory.
	ErrParentNotDirectory = errors.New("vfs: parent is not a directory")

	// ErrPermissionDenied is reserved for the owner-byte permission model;
	// nothing in this module's scope currently denies on it.
	ErrPermissionDenied = errors.New("vfs: permission denied")

	// ErrOperationNotSupported is returned for any op dispatched against
	// an unimplemented System tag (only Initrd, currently).
	ErrOperationNotSupported = errors.New("vfs: operation not supported")

	// ErrDeviceNotFound is returned when a device name has no registry entry.
	ErrDeviceNotFound = errors.New("vfs: device not found")

	// ErrDuplicateDevice is returned by InstallDevice for a name already
	// in the registry.
	ErrDuplicateDevice = errors.New("vfs: duplicate device name")

	// ErrAlreadyOpened is returned by Open when the node's id is already
	// in its device's open-set.
	ErrAlreadyOpened = errors.New("vfs: node already opened")

	// ErrClosed is returned by any operation that requires an open node
	// when the node is not open.
	ErrClosed = errors.New("vfs: node not open")
)
