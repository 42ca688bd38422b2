// Package idt builds and loads the Interrupt Descriptor Table, remaps the
// 8259 PIC so hardware IRQs land outside the CPU exception range, and
// forwards every vector to kernel/irq.Dispatch through a single assembly
// common stub.
package idt

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/irq"
)

const (
	entryCount = 256

	gateTypeInterrupt = 0x8e // present, ring 0, 64-bit interrupt gate
	codeSelector      = 0x08

	// pic1Offset and pic2Offset place IRQ0-15 right after the 32 CPU
	// exception vectors so ISRs and IRQ handlers share one dispatch path.
	pic1Offset = 32
	pic2Offset = 40

	pic1Command = 0x20
	pic1Data    = 0x21
	pic2Command = 0xA0
	pic2Data    = 0xA1

	icw1Init = 0x10
	icw1ICW4 = 0x01
	icw4x86  = 0x01

	picEOI = 0x20
)

// entry is the on-the-wire layout of a single 64-bit interrupt gate.
type entry struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

type pointer struct {
	limit uint16
	base  uint64
}

var (
	table [entryCount]entry
	desc  pointer
)

// Init builds the IDT with every vector pointed at the shared assembly
// stub, loads it, and remaps the PIC so that IRQ0-15 arrive as vectors
// 32-47.
func Init() {
	for vec := 0; vec < entryCount; vec++ {
		ist := uint8(0)
		if vec == doubleFaultVector {
			ist = doubleFaultIST
		}
		setGate(vec, stubAddr(vec), ist)
	}

	desc.limit = uint16(entryCount*entrySize - 1)
	desc.base = uint64(uintptr(unsafe.Pointer(&table[0])))

	cpu.LoadIDT(uintptr(unsafe.Pointer(&desc)))
	remapPIC(pic1Offset, pic2Offset)

	irq.SetEOIHandler(SendEOI)
}

const entrySize = 16

// doubleFaultVector and doubleFaultIST isolate double-fault handling onto
// its own known-good stack (IST1) so a stack overflow does not also
// corrupt the double-fault handler's frame.
const (
	doubleFaultVector = 8
	doubleFaultIST    = 1
)

func setGate(vec int, handlerAddr uintptr, ist uint8) {
	table[vec] = entry{
		offsetLow:  uint16(handlerAddr),
		selector:   codeSelector,
		ist:        ist,
		typeAttr:   gateTypeInterrupt,
		offsetMid:  uint16(handlerAddr >> 16),
		offsetHigh: uint32(handlerAddr >> 32),
	}
}

// stubAddr returns the entry point of the per-vector trampoline generated
// in idt_amd64.s. Each trampoline pushes the vector number (and a dummy
// error code for vectors that don't push one natively) before jumping to
// the shared assembly dispatch stub.
func stubAddr(vec int) uintptr

// dispatch is called by the shared assembly stub with the vector number,
// the error code (0 if the vector doesn't push one) and pointers to the
// Frame/Regs it built on the stack. It bridges into irq.Dispatch and
// returns the Regs IRETQ should restore, which lets the scheduler's timer
// handler switch tasks on return from interrupt.
//
//go:nosplit
func dispatch(vector uint8, errCode uint64, frame *irq.Frame, regs *irq.Regs) *irq.Regs {
	return irq.Dispatch(vector, errCode, frame, regs)
}

// sendEOI acknowledges an IRQ with the PIC(s); irq >= 8 requires EOI-ing
// both the slave and the master since IRQ8-15 cascade through IRQ2.
func sendEOI(irq uint8) {
	if irq >= 8 {
		cpu.PortWriteByte(pic2Command, picEOI)
	}
	cpu.PortWriteByte(pic1Command, picEOI)
}

// remapPIC reprograms the master/slave 8259 pair so that IRQ0-15 are
// delivered as offset1..offset1+7 and offset2..offset2+7 instead of the
// default (conflicting with CPU exceptions) 0x08 and 0x70.
func remapPIC(offset1, offset2 uint8) {
	mask1 := cpu.PortReadByte(pic1Data)
	mask2 := cpu.PortReadByte(pic2Data)

	cpu.PortWriteByte(pic1Command, icw1Init|icw1ICW4)
	cpu.IOWait()
	cpu.PortWriteByte(pic2Command, icw1Init|icw1ICW4)
	cpu.IOWait()

	cpu.PortWriteByte(pic1Data, offset1)
	cpu.IOWait()
	cpu.PortWriteByte(pic2Data, offset2)
	cpu.IOWait()

	cpu.PortWriteByte(pic1Data, 0x04) // slave attached to master's IRQ2
	cpu.IOWait()
	cpu.PortWriteByte(pic2Data, 0x02) // slave's cascade identity
	cpu.IOWait()

	cpu.PortWriteByte(pic1Data, icw4x86)
	cpu.IOWait()
	cpu.PortWriteByte(pic2Data, icw4x86)
	cpu.IOWait()

	cpu.PortWriteByte(pic1Data, mask1)
	cpu.PortWriteByte(pic2Data, mask2)
}

// SetMask masks (disables) a single IRQ line on the appropriate PIC.
func SetMask(irqLine uint8) {
	port := uint16(pic1Data)
	line := irqLine
	if irqLine >= 8 {
		port = pic2Data
		line -= 8
	}
	cpu.PortWriteByte(port, cpu.PortReadByte(port)|(1<<line))
}

// ClearMask unmasks (enables) a single IRQ line on the appropriate PIC.
func ClearMask(irqLine uint8) {
	port := uint16(pic1Data)
	line := irqLine
	if irqLine >= 8 {
		port = pic2Data
		line -= 8
	}
	cpu.PortWriteByte(port, cpu.PortReadByte(port)&^(1<<line))
}

// SendEOI acknowledges an IRQ with the PIC(s). It is exported so
// kernel/irq.Dispatch can EOI once a handler has run.
func SendEOI(irq uint8) {
	sendEOI(irq)
}
