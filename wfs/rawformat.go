package wfs

import (
	"bytes"
	"encoding/binary"
)

// rawInfoBlock is the exact on-disk layout of sector 0, native-layout
// encoded: every field is fixed-width, so encoding/binary can marshal the
// struct directly without per-field offset arithmetic. The same approach
// in rawEntry below is what resolves the owner/size field overlap bug
// noted against the original decoder (see DESIGN.md): there is exactly
// one way to lay the fields out once the struct itself is the source of
// truth.
type rawInfoBlock struct {
	Reserved      uint8
	Signature     [8]byte
	Blocks        uint64
	BlocksInUse   uint64
	Files         uint64
	BytesPerBlock uint64
	FinalEntry    uint64
}

func (r *rawInfoBlock) marshal() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(SectorSize)
	_ = binary.Write(buf, binary.LittleEndian, r)
	out := make([]byte, SectorSize)
	copy(out, buf.Bytes())
	return out
}

func (r *rawInfoBlock) unmarshal(sector []byte) error {
	return binary.Read(bytes.NewReader(sector), binary.LittleEndian, r)
}

// rawEntry is the exact on-disk layout of a FileEntry record.
type rawEntry struct {
	Signature  [4]byte
	Name       [NameWidth]byte
	ParentID   uint64
	ID         uint64
	Attributes uint8
	TCreation  uint64
	TEdit      uint64
	Owner      uint8
	Size       uint64
	StartSec   uint64
	NextEntry  uint64
	PrevEntry  uint64
	Location   uint64
}

func (r *rawEntry) marshal() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(SectorSize)
	_ = binary.Write(buf, binary.LittleEndian, r)
	out := make([]byte, SectorSize)
	copy(out, buf.Bytes())
	return out
}

func (r *rawEntry) unmarshal(sector []byte) error {
	return binary.Read(bytes.NewReader(sector), binary.LittleEndian, r)
}

// rawDataHeader is the fixed header at the start of every data sector;
// the remaining PayloadSize bytes of the sector are the body bytes.
type rawDataHeader struct {
	Signature [4]byte
	NextSec   uint64
}

func (h *rawDataHeader) marshal() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(12)
	_ = binary.Write(buf, binary.LittleEndian, h)
	return buf.Bytes()
}

func (h *rawDataHeader) unmarshal(sector []byte) error {
	return binary.Read(bytes.NewReader(sector[:12]), binary.LittleEndian, h)
}

func isDataSignature(sector []byte) bool {
	return len(sector) >= 4 && bytes.Equal(sector[:4], dataSig[:])
}

func encodeName(name string) ([NameWidth]byte, error) {
	var out [NameWidth]byte
	if len(name) > NameWidth {
		return out, ErrInvalidName
	}
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return out, ErrInvalidName
		}
	}
	copy(out[:], name)
	for i := len(name); i < NameWidth; i++ {
		out[i] = ' '
	}
	return out, nil
}

func decodeName(raw [NameWidth]byte) string {
	n := bytes.IndexByte(raw[:], ' ')
	if n < 0 {
		n = NameWidth
	}
	return string(raw[:n])
}
