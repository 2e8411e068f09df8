package block

import (
	"bytes"
	"testing"
)

func TestIdentifySectorCountAndModel(t *testing.T) {
	// A MemDevice of 0x12345678 sectors would need about 150 GiB, so a small
	// device stands behind the ports and IDENTIFY words 60/61 are set to
	// 0x5678/0x1234 directly.
	ports := fixedCountPorts{NewMemPorts(NewMemDevice(64), false, "WFS TEST DRIVE"), 0x12345678}
	ata := NewPIOATA(ports)

	id, err := ata.Identify()
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.TotalSectors != 0x12345678 {
		t.Fatalf("total sectors = %#x, want %#x", id.TotalSectors, 0x12345678)
	}
	if id.Model != "WFS TEST DRIVE" {
		t.Fatalf("model = %q", id.Model)
	}
}

// fixedCountPorts reports a fixed LBA28 sector count in the IDENTIFY
// payload, whatever the size of the device behind the ports.
type fixedCountPorts struct {
	*MemPorts
	sectors uint32
}

func (p fixedCountPorts) Out8(port uint16, v uint8) {
	p.MemPorts.Out8(port, v)
	if port == CommandBase+regCommand && v == cmdIdentify {
		p.fifo[60] = uint16(p.sectors)
		p.fifo[61] = uint16(p.sectors >> 16)
	}
}

func TestIdentifyNoDevice(t *testing.T) {
	ata := NewPIOATA(&unresponsivePorts{})
	if _, err := ata.Identify(); err != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}
}

// unresponsivePorts simulates an IDE channel with nothing attached:
// STATUS always reads back 0x00.
type unresponsivePorts struct{}

func (unresponsivePorts) In8(port uint16) uint8       { return 0x00 }
func (unresponsivePorts) In16(port uint16) uint16     { return 0 }
func (unresponsivePorts) Out8(port uint16, v uint8)   {}
func (unresponsivePorts) Out16(port uint16, v uint16) {}

func TestReadWriteSectorRoundTrip(t *testing.T) {
	dev := NewMemDevice(64)
	ports := NewMemPorts(dev, false, "WFS TEST DRIVE")
	ata := NewPIOATA(ports)
	if _, err := ata.Identify(); err != nil {
		t.Fatalf("identify: %v", err)
	}

	want := bytes.Repeat([]byte{0xAB, 0xCD}, SectorSize/2)
	if err := ata.WriteSector(10, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := make([]byte, SectorSize)
	if err := ata.ReadSector(10, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch")
	}
}
