// Package keyboard implements an IRQ1-driven PS/2 keyboard driver: a ring
// buffer of raw scancodes filled by the interrupt handler, and a US
// layout scancode-to-ASCII translator that tracks shift/ctrl/alt/capslock
// state. Ground: original_source's src/kernel/keyboard_irq.c (ring buffer
// + IRQ handler shape) and keyboard.h (the translation tables and
// modifier state machine).
package keyboard

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/irq"
)

const (
	dataPort   = 0x60
	statusPort = 0x64

	statusOutputFull = 0x01

	scRelease = 0x80

	scLShift    = 0x2A
	scRShift    = 0x36
	scLCtrl     = 0x1D
	scLAlt      = 0x38
	scCapsLock  = 0x3A

	bufSize = 256
)

var lowerTable = [128]byte{
	0, 27, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', '\b',
	'\t', 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', '\n',
	0, 'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`',
	0, '\\', 'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0,
	'*', 0, ' ',
}

var upperTable = [128]byte{
	0, 27, '!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '_', '+', '\b',
	'\t', 'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I', 'O', 'P', '{', '}', '\n',
	0, 'A', 'S', 'D', 'F', 'G', 'H', 'J', 'K', 'L', ':', '"', '~',
	0, '|', 'Z', 'X', 'C', 'V', 'B', 'N', 'M', '<', '>', '?', 0,
	'*', 0, ' ',
}

type modifiers struct {
	shift, ctrl, alt, capsLock bool
}

var (
	ring      [bufSize]uint8
	readIdx   int
	writeIdx  int
	mods      modifiers

	inbFn       = cpu.PortReadByte
	handleIRQFn = irq.HandleIRQ
	haltFn      = cpu.Halt
)

// Init installs the IRQ1 handler and resets the ring buffer and modifier
// state. The caller is responsible for unmasking IRQ1 on the PIC.
func Init() {
	readIdx, writeIdx = 0, 0
	mods = modifiers{}
	handleIRQFn(1, irqHandler)
}

func irqHandler(_ *irq.Frame, regs *irq.Regs) *irq.Regs {
	scancode := inbFn(dataPort)

	next := (writeIdx + 1) % bufSize
	if next != readIdx {
		ring[writeIdx] = scancode
		writeIdx = next
	}
	return regs
}

// HasScancode reports whether the ring buffer holds an unread scancode.
func HasScancode() bool {
	return readIdx != writeIdx
}

func popScancode() (uint8, bool) {
	if readIdx == writeIdx {
		return 0, false
	}
	sc := ring[readIdx]
	readIdx = (readIdx + 1) % bufSize
	return sc, true
}

// scancodeToASCII converts a raw scancode to an ASCII byte, updating
// modifier state and returning 0 for key releases, bare modifier
// presses, and scancodes with no ASCII mapping - exactly the cases
// original_source's kb_scancode_to_ascii returns 0 for.
func scancodeToASCII(sc uint8) byte {
	if sc&scRelease != 0 {
		switch sc &^ scRelease {
		case scLShift, scRShift:
			mods.shift = false
		case scLCtrl:
			mods.ctrl = false
		case scLAlt:
			mods.alt = false
		}
		return 0
	}

	switch sc {
	case scLShift, scRShift:
		mods.shift = true
		return 0
	case scLCtrl:
		mods.ctrl = true
		return 0
	case scLAlt:
		mods.alt = true
		return 0
	case scCapsLock:
		mods.capsLock = !mods.capsLock
		return 0
	}

	if int(sc) >= len(lowerTable) {
		return 0
	}

	useUpper := mods.shift
	lower := lowerTable[sc]
	if mods.capsLock && lower >= 'a' && lower <= 'z' {
		useUpper = !useUpper
	}

	if useUpper {
		return upperTable[sc]
	}
	return lower
}

// TryGetChar returns the next translated character and true, or (0,
// false) if no scancode is pending or it translated to no character.
func TryGetChar() (byte, bool) {
	sc, ok := popScancode()
	if !ok {
		return 0, false
	}
	c := scancodeToASCII(sc)
	return c, c != 0
}

// GetChar blocks, halting the CPU between interrupts, until a key press
// translates to a non-zero character.
func GetChar() byte {
	for {
		for !HasScancode() {
			haltFn()
		}
		if c, ok := TryGetChar(); ok {
			return c
		}
	}
}

// ShiftPressed, CtrlPressed and AltPressed report live modifier state,
// mirroring original_source's kb_is_*_pressed helpers.
func ShiftPressed() bool { return mods.shift }
func CtrlPressed() bool  { return mods.ctrl }
func AltPressed() bool   { return mods.alt }
