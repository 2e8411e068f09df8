package vfs

import "github.com/ws-kj/wfs/wfs"

// Attr is the FileEntry attribute bitfield, re-exported so callers of the
// vfs surface don't need to import wfs directly.
type Attr = wfs.Attr

const (
	AttrRO  = wfs.AttrRO
	AttrSYS = wfs.AttrSYS
	AttrDIR = wfs.AttrDIR
	AttrHDN = wfs.AttrHDN
)

// System tags the backend a registered device dispatches to. WFS is the
// only implemented backend; Initrd is a placeholder reserved for a
// read-only ramdisk backend that every call currently refuses.
type System uint8

const (
	WFS System = iota
	Initrd
)

func (s System) String() string {
	switch s {
	case WFS:
		return "WFS"
	case Initrd:
		return "Initrd"
	default:
		return "Unknown"
	}
}
