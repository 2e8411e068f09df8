package wfs

import (
	"fmt"
	"log/slog"
)

// FileEntry is the in-memory form of a 512-byte FileEntry record (spec
// §3). It is a value-type snapshot: callers that want a fresh view after
// a mutation must re-read it.
type FileEntry struct {
	Name       string
	ParentID   uint64
	ID         uint64
	Attributes Attr
	TCreation  uint64
	TEdit      uint64
	Owner      uint8
	Size       uint64
	StartSec   uint64
	NextEntry  uint64
	PrevEntry  uint64
	Location   uint64
}

func entryFromRaw(r *rawEntry) FileEntry {
	return FileEntry{
		Name:       decodeName(r.Name),
		ParentID:   r.ParentID,
		ID:         r.ID,
		Attributes: Attr(r.Attributes),
		TCreation:  r.TCreation,
		TEdit:      r.TEdit,
		Owner:      r.Owner,
		Size:       r.Size,
		StartSec:   r.StartSec,
		NextEntry:  r.NextEntry,
		PrevEntry:  r.PrevEntry,
		Location:   r.Location,
	}
}

func (e *FileEntry) toRaw() (rawEntry, error) {
	name, err := encodeName(e.Name)
	if err != nil {
		return rawEntry{}, err
	}
	return rawEntry{
		Signature:  dataSig,
		Name:       name,
		ParentID:   e.ParentID,
		ID:         e.ID,
		Attributes: uint8(e.Attributes),
		TCreation:  e.TCreation,
		TEdit:      e.TEdit,
		Owner:      e.Owner,
		Size:       e.Size,
		StartSec:   e.StartSec,
		NextEntry:  e.NextEntry,
		PrevEntry:  e.PrevEntry,
		Location:   e.Location,
	}, nil
}

// readEntryAt loads and decodes the FileEntry living at the given sector,
// returning ErrReadError if the sector does not carry the DATA signature.
func (fsys *FS) readEntryAt(sector uint64) (FileEntry, error) {
	var buf [SectorSize]byte
	if err := fsys.dev.ReadSector(sector, buf[:]); err != nil {
		return FileEntry{}, fmt.Errorf("wfs: reading entry sector %d: %w", sector, err)
	}
	var raw rawEntry
	if err := raw.unmarshal(buf[:]); err != nil {
		return FileEntry{}, fmt.Errorf("wfs: decoding entry sector %d: %w", sector, err)
	}
	if raw.Signature != dataSig {
		return FileEntry{}, fmt.Errorf("%w: sector %d has no DATA signature", ErrReadError, sector)
	}
	return entryFromRaw(&raw), nil
}

// writeEntry persists e to its own Location sector.
func (fsys *FS) writeEntry(e *FileEntry) error {
	raw, err := e.toRaw()
	if err != nil {
		return err
	}
	if err := fsys.dev.WriteSector(e.Location, raw.marshal()); err != nil {
		return fmt.Errorf("wfs: writing entry sector %d: %w", e.Location, err)
	}
	return nil
}

// zeroSector overwrites a sector with zero bytes, marking it free per
// invariant 6 (a sector with no DATA signature is free).
func (fsys *FS) zeroSector(sector uint64) error {
	var buf [SectorSize]byte
	return fsys.dev.WriteSector(sector, buf[:])
}

// findEntry walks the global entry chain starting at the root sector via
// next_entry until id is seen or the chain ends.
func (fsys *FS) findEntry(id uint64) (FileEntry, error) {
	sector := RootSector
	for {
		e, err := fsys.readEntryAt(sector)
		if err != nil {
			return FileEntry{}, err
		}
		if e.ID == id {
			return e, nil
		}
		if e.NextEntry == EndOfChain {
			return FileEntry{}, ErrFileNotFound
		}
		sector = e.NextEntry
	}
}

// findEntryByName loads parentID's directory body and dereferences each
// child location until one matches name.
func (fsys *FS) findEntryByName(parentID uint64, name string) (FileEntry, error) {
	parent, err := fsys.findEntry(parentID)
	if err != nil {
		return FileEntry{}, err
	}
	children, err := fsys.readChildLocations(&parent)
	if err != nil {
		return FileEntry{}, err
	}
	for _, loc := range children {
		child, err := fsys.readEntryAt(loc)
		if err != nil {
			continue // a dangling location would be a bug, but don't let it abort lookup
		}
		if child.Name == name {
			return child, nil
		}
	}
	return FileEntry{}, ErrFileNotFound
}

// createEntry implements spec §4.E create_entry.
func (fsys *FS) createEntry(name string, parentID uint64, attrs Attr, owner uint8) (FileEntry, error) {
	if _, err := encodeName(name); err != nil {
		return FileEntry{}, err
	}
	parent, err := fsys.findEntry(parentID)
	if err != nil {
		return FileEntry{}, err
	}
	if !parent.Attributes.IsDir() {
		return FileEntry{}, ErrParentNotDirectory
	}

	fsys.sb.files++
	id := fsys.sb.files

	locs, err := fsys.allocFreeBlocks(1)
	if err != nil {
		fsys.sb.files--
		return FileEntry{}, err
	}
	location := locs[0]

	now := fsys.clk.Now()
	entry := FileEntry{
		Name:       name,
		ParentID:   parentID,
		ID:         id,
		Attributes: attrs,
		TCreation:  now,
		TEdit:      now,
		Owner:      owner,
		Size:       0,
		StartSec:   EndOfChain,
		NextEntry:  EndOfChain,
		PrevEntry:  fsys.sb.finalEntry,
		Location:   location,
	}
	if err := fsys.writeEntry(&entry); err != nil {
		return FileEntry{}, err
	}

	oldFinal, err := fsys.readEntryAt(fsys.sb.finalEntry)
	if err != nil {
		return FileEntry{}, err
	}
	oldFinal.NextEntry = location
	if err := fsys.writeEntry(&oldFinal); err != nil {
		return FileEntry{}, err
	}

	fsys.sb.finalEntry = location
	if err := fsys.updateInfo(); err != nil {
		return FileEntry{}, err
	}

	// The parent may be the old final entry relinked above; reload it so
	// appending to its body does not write back a stale next_entry.
	parent, err = fsys.readEntryAt(parent.Location)
	if err != nil {
		return FileEntry{}, err
	}

	var locBytes [8]byte
	putUint64(locBytes[:], location)
	if err := fsys.appendBody(&parent, locBytes[:]); err != nil {
		return FileEntry{}, err
	}

	fsys.log.Debug("wfs: created entry", slog.Uint64("id", id), slog.String("name", name), slog.Uint64("location", location))
	return entry, nil
}

// deleteEntry implements spec §4.E delete_entry.
func (fsys *FS) deleteEntry(entry *FileEntry) error {
	// Work from the record on disk rather than the caller's snapshot, which
	// may predate later changes to its body or its place in the entry list.
	cur, err := fsys.readEntryAt(entry.Location)
	if err != nil {
		return err
	}
	entry = &cur
	if entry.Attributes.IsDir() {
		children, err := fsys.readChildLocations(entry)
		if err != nil {
			return err
		}
		for _, loc := range children {
			child, err := fsys.readEntryAt(loc)
			if err != nil {
				continue
			}
			if err := fsys.deleteEntry(&child); err != nil {
				return err
			}
		}
		// Deleting the children rewrote this entry's body and may have
		// relinked its next_entry; reload it before unlinking it.
		if cur, err = fsys.readEntryAt(entry.Location); err != nil {
			return err
		}
	}

	parent, err := fsys.findEntry(entry.ParentID)
	if err == nil {
		if err := fsys.removeChildLocation(&parent, entry.Location); err != nil {
			return err
		}
	}

	if err := fsys.zeroSector(entry.Location); err != nil {
		return err
	}
	if fsys.sb.blocksInUse > 1 {
		fsys.sb.blocksInUse--
	}

	prev, err := fsys.readEntryAt(entry.PrevEntry)
	if err != nil {
		return err
	}
	prev.NextEntry = entry.NextEntry
	if err := fsys.writeEntry(&prev); err != nil {
		return err
	}
	if entry.NextEntry != EndOfChain {
		next, err := fsys.readEntryAt(entry.NextEntry)
		if err != nil {
			return err
		}
		next.PrevEntry = entry.PrevEntry
		if err := fsys.writeEntry(&next); err != nil {
			return err
		}
	} else {
		fsys.sb.finalEntry = entry.PrevEntry
	}
	if err := fsys.updateInfo(); err != nil {
		return err
	}

	if entry.StartSec != EndOfChain && entry.StartSec != Free && entry.StartSec != Reserved {
		if err := fsys.freeChain(entry.StartSec); err != nil {
			return err
		}
	}

	fsys.log.Debug("wfs: deleted entry", slog.Uint64("id", entry.ID), slog.Uint64("location", entry.Location))
	return nil
}

// freeChain zeroes every sector in a data chain, following next_sec until
// END_OF_CHAIN.
func (fsys *FS) freeChain(start uint64) error {
	sector := start
	for sector != EndOfChain {
		var buf [SectorSize]byte
		if err := fsys.dev.ReadSector(sector, buf[:]); err != nil {
			return err
		}
		var hdr rawDataHeader
		if err := hdr.unmarshal(buf[:]); err != nil {
			return err
		}
		next := hdr.NextSec
		if err := fsys.zeroSector(sector); err != nil {
			return err
		}
		if fsys.sb.blocksInUse > 1 {
			fsys.sb.blocksInUse--
		}
		if next == Free || next == Reserved {
			break
		}
		sector = next
	}
	return fsys.updateInfo()
}
