package wfs

import "encoding/binary"

// Directory bodies are a packed array of 8-byte little-endian child
// locations (sector numbers, not ids) stored in the entry's own data
// chain — enumeration and removal both go through §4.C read/write rather
// than any dedicated on-disk structure.

// readChildLocations decodes dir's body into the list of child sector
// locations.
func (fsys *FS) readChildLocations(dir *FileEntry) ([]uint64, error) {
	body, err := fsys.readBody(dir)
	if err != nil {
		return nil, err
	}
	n := len(body) / 8
	out := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, binary.LittleEndian.Uint64(body[i*8:i*8+8]))
	}
	return out, nil
}

// readChildren resolves every child location in dir's body to its entry.
// It returns ErrIllegalOperation if dir lacks the DIR attribute.
func (fsys *FS) readChildren(dir *FileEntry) ([]FileEntry, error) {
	if !dir.Attributes.IsDir() {
		return nil, ErrIllegalOperation
	}
	locs, err := fsys.readChildLocations(dir)
	if err != nil {
		return nil, err
	}
	out := make([]FileEntry, 0, len(locs))
	for _, loc := range locs {
		e, err := fsys.readEntryAt(loc)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// removeChildLocation rewrites dir's body with location removed, by
// rebuilding the packed array and issuing a full write (§4.C write),
// which also absorbs the write leak documented on writeBody.
func (fsys *FS) removeChildLocation(dir *FileEntry, location uint64) error {
	locs, err := fsys.readChildLocations(dir)
	if err != nil {
		return err
	}
	kept := make([]byte, 0, len(locs)*8)
	for _, loc := range locs {
		if loc == location {
			continue
		}
		var b [8]byte
		putUint64(b[:], loc)
		kept = append(kept, b[:]...)
	}
	return fsys.writeBody(dir, kept)
}
