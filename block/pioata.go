package block

import (
	"encoding/binary"
	"errors"
)

// Register offsets relative to the command/control port bases, matching
// the IDE channel-0 primary port map (ATA_REG_* in the original driver).
const (
	regData      = 0x0 // 16-bit data port
	regFeatures  = 0x1
	regSecCount  = 0x2
	regLBALow    = 0x3
	regLBAMid    = 0x4
	regLBAHigh   = 0x5
	regDriveSel  = 0x6
	regCommand   = 0x7
	regStatus    = 0x7
	regAltStatus = 0x0 // relative to the control base (0x3F6)
)

// Fixed port base addresses for IDE channel 0, matching the bus layout
// every x86 PC boots with.
const (
	CommandBase uint16 = 0x1F0
	ControlBase uint16 = 0x3F6
)

// Status register bits.
const (
	statusBSY = 1 << 7
	statusDRQ = 1 << 3
	statusERR = 1 << 0
)

// Command opcodes used by the PIO-28 protocol this driver speaks.
const (
	cmdReadSectors  = 0x20
	cmdWriteSectors = 0x30
	cmdCacheFlush   = 0xE7
	cmdIdentify     = 0xEC
)

const (
	driveSelMaster = 0xE0
	driveSelSlave  = 0xF0
)

// busyWaitSpins is the crude, interrupt-free delay the original driver
// inserts after issuing a command, to give the device time to raise BSY
// before polling it. It is not a correctness guarantee, only a best
// effort: the BSY poll loop that follows is what actually blocks until
// the device is ready.
const busyWaitSpins = 200

// ErrNoDevice is returned by Identify when STATUS reads back 0x00 or 0xFF,
// the spec's "no device present" signal.
var ErrNoDevice = errors.New("block: ata: no device present")

// PortIO abstracts the raw in/out port instructions a PIO ATA driver
// issues. On bare metal this is implemented with inline port I/O; tests
// use MemPorts, a software model of the same register semantics.
type PortIO interface {
	In8(port uint16) uint8
	In16(port uint16) uint16
	Out8(port uint16, v uint8)
	Out16(port uint16, v uint16)
}

// PIOATA drives the channel-0 IDE bus in 28-bit LBA PIO mode, one sector
// at a time, synchronously, exactly as spec'd: no DMA, no multi-sector
// commands, no interrupts.
type PIOATA struct {
	io     PortIO
	master bool // true if Identify found the master; false selects the slave
	ident  Identity
}

// NewPIOATA wraps a PortIO implementation. Identify must be called before
// ReadSector/WriteSector will succeed.
func NewPIOATA(io PortIO) *PIOATA {
	return &PIOATA{io: io}
}

func (a *PIOATA) selectDrive(sel uint8) {
	a.io.Out8(CommandBase+regDriveSel, sel)
	for i := 0; i < busyWaitSpins; i++ {
	}
	for a.io.In8(CommandBase+regStatus)&statusBSY != 0 {
	}
}

// Identify probes the channel-0 master, falling back to the slave if the
// master does not answer. A STATUS byte of 0x00 or 0xFF after selecting a
// drive means that drive is absent.
func (a *PIOATA) Identify() (Identity, error) {
	a.selectDrive(driveSelMaster)
	st := a.io.In8(CommandBase + regStatus)
	master := true
	if st == 0x00 || st == 0xFF {
		a.selectDrive(driveSelSlave)
		st = a.io.In8(CommandBase + regStatus)
		if st == 0x00 || st == 0xFF {
			return Identity{}, ErrNoDevice
		}
		master = false
	}

	// Explicitly reselect the drive that answered the probe (master, or
	// the slave when the master is absent) before issuing the IDENTIFY
	// command and reading its payload, so the identify words come from
	// that drive and not from whichever drive was probed last.
	if !master {
		a.selectDrive(driveSelSlave)
	} else {
		a.selectDrive(driveSelMaster)
	}

	a.io.Out8(CommandBase+regSecCount, 0)
	a.io.Out8(CommandBase+regLBALow, 0)
	a.io.Out8(CommandBase+regLBAMid, 0)
	a.io.Out8(CommandBase+regLBAHigh, 0)
	a.io.Out8(CommandBase+regCommand, cmdIdentify)
	for i := 0; i < busyWaitSpins; i++ {
	}
	for a.io.In8(CommandBase+regStatus)&statusBSY != 0 {
	}

	status := a.io.In8(CommandBase + regStatus)
	if status&statusERR != 0 || status&statusDRQ == 0 {
		return Identity{}, ErrReadError
	}

	var raw [256]uint16
	for i := range raw {
		raw[i] = a.io.In16(CommandBase + regData)
	}

	totalSectors := uint32(raw[60]) | uint32(raw[61])<<16

	modelRaw := make([]byte, 0, 40)
	for w := 27; w <= 46; w++ {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], raw[w])
		modelRaw = append(modelRaw, b[0], b[1])
	}
	for i := 0; i+1 < len(modelRaw); i += 2 {
		modelRaw[i], modelRaw[i+1] = modelRaw[i+1], modelRaw[i]
	}

	a.master = master
	a.ident = Identity{
		Present:      true,
		TotalSectors: totalSectors,
		Model:        trimModel(modelRaw),
	}
	return a.ident, nil
}

func trimModel(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}

// SectorCount reports the LBA28 sector count discovered by Identify.
func (a *PIOATA) SectorCount() uint64 {
	return uint64(a.ident.TotalSectors)
}

func (a *PIOATA) setLBA28(lba uint64, count uint8) {
	a.io.Out8(CommandBase+regFeatures, 0x00)
	a.io.Out8(CommandBase+regSecCount, count)
	a.io.Out8(CommandBase+regLBALow, uint8(lba))
	a.io.Out8(CommandBase+regLBAMid, uint8(lba>>8))
	a.io.Out8(CommandBase+regLBAHigh, uint8(lba>>16))
	sel := driveSelMaster
	if !a.master {
		sel = driveSelSlave
	}
	a.io.Out8(CommandBase+regDriveSel, uint8(sel)|uint8((lba>>24)&0x0F))
}

func (a *PIOATA) waitNotBusy() {
	for i := 0; i < busyWaitSpins; i++ {
	}
	for a.io.In8(CommandBase+regStatus)&statusBSY != 0 {
	}
}

// ReadSector reads exactly SectorSize bytes from lba into dst.
func (a *PIOATA) ReadSector(lba uint64, dst []byte) error {
	if len(dst) != SectorSize {
		return errors.New("block: ata: dst must be exactly one sector")
	}
	a.setLBA28(lba, 1)
	a.io.Out8(CommandBase+regCommand, cmdReadSectors)
	a.waitNotBusy()

	status := a.io.In8(CommandBase + regStatus)
	if status&statusERR != 0 {
		return ErrReadError
	}
	for i := 0; i < SectorSize; i += 2 {
		v := a.io.In16(CommandBase + regData)
		dst[i] = uint8(v)
		dst[i+1] = uint8(v >> 8)
	}
	return nil
}

// WriteSector writes exactly SectorSize bytes from src to lba.
func (a *PIOATA) WriteSector(lba uint64, src []byte) error {
	if len(src) != SectorSize {
		return errors.New("block: ata: src must be exactly one sector")
	}
	a.setLBA28(lba, 1)
	a.io.Out8(CommandBase+regCommand, cmdWriteSectors)
	a.waitNotBusy()
	a.io.Out8(CommandBase+regCommand, cmdCacheFlush)

	for i := 0; i < SectorSize; i += 2 {
		v := uint16(src[i]) | uint16(src[i+1])<<8
		a.io.Out16(CommandBase+regData, v)
		a.io.Out8(CommandBase+regCommand, cmdCacheFlush)
	}
	status := a.io.In8(CommandBase + regStatus)
	if status&statusERR != 0 {
		return ErrReadError
	}
	return nil
}

var _ Device = (*PIOATA)(nil)
