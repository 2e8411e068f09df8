package wfs

import "encoding/binary"

func putUint64(dst []byte, v uint64) {
	binary.LittleEndian.PutUint64(dst, v)
}

// allocFreeBlocks returns n distinct sector indices whose first four bytes
// are not the DATA signature. It scans starting at blocks_in_use+1 (the
// monotone hint), then falls back to a linear scan from sector 1. It does
// not reserve the sectors it returns — a caller requesting more than one
// block must persist data into the first before asking for the next, or
// the same free sector can be handed out twice.
func (fsys *FS) allocFreeBlocks(n int) ([]uint64, error) {
	out := make([]uint64, 0, n)
	seen := make(map[uint64]bool, n)

	tryFrom := func(start, end uint64) error {
		for sector := start; sector <= end && len(out) < n; sector++ {
			if sector == 0 || seen[sector] {
				continue
			}
			free, err := fsys.sectorIsFree(sector)
			if err != nil {
				return err
			}
			if free {
				out = append(out, sector)
				seen[sector] = true
			}
		}
		return nil
	}

	if err := tryFrom(fsys.sb.blocksInUse+1, fsys.sb.blocks); err != nil {
		return nil, err
	}
	if len(out) < n {
		if err := tryFrom(1, fsys.sb.blocks); err != nil {
			return nil, err
		}
	}
	if len(out) < n {
		return nil, ErrDeviceFull
	}
	return out, nil
}

func (fsys *FS) sectorIsFree(sector uint64) (bool, error) {
	var buf [4]byte
	var full [SectorSize]byte
	if err := fsys.dev.ReadSector(sector, full[:]); err != nil {
		return false, err
	}
	copy(buf[:], full[:4])
	return !isDataSignature(buf[:]), nil
}

// readBody implements spec §4.C read(entry): walk the chain from start_sec,
// accumulating payload bytes until exactly size bytes are collected or
// END_OF_CHAIN is reached.
func (fsys *FS) readBody(entry *FileEntry) ([]byte, error) {
	if entry.Size == 0 || entry.StartSec == EndOfChain {
		return []byte{}, nil
	}
	out := make([]byte, 0, entry.Size)
	sector := entry.StartSec
	for uint64(len(out)) < entry.Size {
		if sector == Free || sector == Reserved {
			return nil, ErrReadError
		}
		var buf [SectorSize]byte
		if err := fsys.dev.ReadSector(sector, buf[:]); err != nil {
			return nil, err
		}
		var hdr rawDataHeader
		if err := hdr.unmarshal(buf[:]); err != nil {
			return nil, err
		}
		remaining := entry.Size - uint64(len(out))
		take := uint64(PayloadSize)
		if remaining < take {
			take = remaining
		}
		out = append(out, buf[12:12+take]...)
		if uint64(len(out)) >= entry.Size {
			break
		}
		if hdr.NextSec == EndOfChain {
			break
		}
		sector = hdr.NextSec
	}
	return out, nil
}

func splitPayloads(buf []byte) [][]byte {
	if len(buf) == 0 {
		return nil
	}
	var out [][]byte
	for off := 0; off < len(buf); off += PayloadSize {
		end := off + PayloadSize
		if end > len(buf) {
			end = len(buf)
		}
		out = append(out, buf[off:end])
	}
	return out
}

func (fsys *FS) writeDataSector(sector uint64, payload []byte, next uint64) error {
	var buf [SectorSize]byte
	copy(buf[:4], dataSig[:])
	putUint64(buf[4:12], next)
	copy(buf[12:], payload)
	return fsys.dev.WriteSector(sector, buf[:])
}

// writeBody implements spec §4.C write(entry, buf). Step 1 zeroes every
// sector after the head of any existing chain but deliberately does not
// free the head sector itself: it keeps its DATA signature, so the
// allocation below never reuses it and one sector leaks per rewrite.
func (fsys *FS) writeBody(entry *FileEntry, buf []byte) error {
	if entry.Size > 0 && entry.StartSec != EndOfChain {
		sector := entry.StartSec
		first := true
		for sector != EndOfChain && sector != Free && sector != Reserved {
			var raw [SectorSize]byte
			if err := fsys.dev.ReadSector(sector, raw[:]); err != nil {
				return err
			}
			var hdr rawDataHeader
			if err := hdr.unmarshal(raw[:]); err != nil {
				return err
			}
			next := hdr.NextSec
			if !first {
				if err := fsys.zeroSector(sector); err != nil {
					return err
				}
			}
			first = false
			sector = next
		}
	}

	payloads := splitPayloads(buf)
	if len(payloads) == 0 {
		entry.StartSec = EndOfChain
		entry.Size = 0
		return fsys.writeEntry(entry)
	}

	heads, err := fsys.allocFreeBlocks(1)
	if err != nil {
		return err
	}
	head := heads[0]
	entry.StartSec = head
	entry.Size = uint64(len(buf))
	if err := fsys.writeEntry(entry); err != nil {
		return err
	}

	// Each block is written with a provisional END_OF_CHAIN next_sec
	// before the following block is allocated: the free-block search has
	// no reservation step (see allocFreeBlocks), so the sector must carry
	// its DATA signature on disk before the next search runs, or the
	// same free sector could be handed out twice.
	current := head
	for i, payload := range payloads {
		last := i == len(payloads)-1
		if err := fsys.writeDataSector(current, payload, EndOfChain); err != nil {
			return err
		}
		fsys.sb.blocksInUse++
		if err := fsys.updateInfo(); err != nil {
			return err
		}
		if last {
			break
		}
		blocks, err := fsys.allocFreeBlocks(1)
		if err != nil {
			return err
		}
		next := blocks[0]
		if err := fsys.writeDataSector(current, payload, next); err != nil {
			return err
		}
		current = next
	}
	return nil
}

// appendBody implements spec §4.C append(entry, buf).
func (fsys *FS) appendBody(entry *FileEntry, buf []byte) error {
	if entry.Size == 0 {
		return fsys.writeBody(entry, buf)
	}

	sector := entry.StartSec
	var tailBuf [SectorSize]byte
	var tailHdr rawDataHeader
	for {
		if err := fsys.dev.ReadSector(sector, tailBuf[:]); err != nil {
			return err
		}
		if err := tailHdr.unmarshal(tailBuf[:]); err != nil {
			return err
		}
		if tailHdr.NextSec == EndOfChain {
			break
		}
		sector = tailHdr.NextSec
	}

	offsetInPayload := int(entry.Size % PayloadSize)
	space := PayloadSize - offsetInPayload
	if offsetInPayload == 0 {
		space = 0 // the tail's payload is already full
	}
	n := len(buf)
	head := buf
	if n > space {
		head = buf[:space]
	}
	copy(tailBuf[12+offsetInPayload:], head)
	if len(head) == n {
		if err := fsys.dev.WriteSector(sector, tailBuf[:]); err != nil {
			return err
		}
		entry.Size += uint64(n)
		return fsys.writeEntry(entry)
	}

	remaining := buf[len(head):]
	payloads := splitPayloads(remaining)
	blocks, err := fsys.allocFreeBlocks(len(payloads))
	if err != nil {
		return err
	}

	if err := fsys.writeDataSector(sector, tailBuf[12:], blocks[0]); err != nil {
		return err
	}

	for i, payload := range payloads {
		var next uint64 = EndOfChain
		if i < len(blocks)-1 {
			next = blocks[i+1]
		}
		if err := fsys.writeDataSector(blocks[i], payload, next); err != nil {
			return err
		}
		fsys.sb.blocksInUse++
	}
	if err := fsys.updateInfo(); err != nil {
		return err
	}

	entry.Size += uint64(n)
	return fsys.writeEntry(entry)
}
