// Package early provides a Printf implementation that writes directly to
// the VGA text-mode framebuffer at a fixed physical address. It exists so
// that boot code can report diagnostics before the console driver, the
// heap and even the VMM have been initialized. Nothing in this package allocates memory.
package early

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

const (
	vgaWidth  = 80
	vgaHeight = 25
	// vgaPhysAddr is the VGA text-mode framebuffer physical address. It is
	// valid as a plain pointer only while the identity mapping of low
	// physical memory established by the bootloader is still active.
	vgaPhysAddr = 0xB8000

	defaultAttr = uint16(0x0f) << 8 // white on black
)

var (
	// fbAddr is overridden by tests so they can print into a mock buffer
	// instead of dereferencing physical memory.
	fbAddr = uintptr(vgaPhysAddr)

	row, col int

	w earlyWriter
)

// earlyWriter is an io.Writer that renders bytes directly into the VGA
// text-mode framebuffer, advancing and wrapping a (row, col) cursor and
// scrolling the screen when the cursor would run past the last line.
type earlyWriter struct{}

func (earlyWriter) Write(p []byte) (int, error) {
	for _, ch := range p {
		putChar(ch)
	}
	return len(p), nil
}

func putChar(ch byte) {
	switch ch {
	case '\n':
		row++
		col = 0
	case '\r':
		col = 0
	default:
		cell := (*uint16)(cellPtr(row, col))
		*cell = defaultAttr | uint16(ch)
		col++
		if col >= vgaWidth {
			col = 0
			row++
		}
	}

	if row >= vgaHeight {
		scroll()
		row = vgaHeight - 1
	}
}

func scroll() {
	for r := 1; r < vgaHeight; r++ {
		for c := 0; c < vgaWidth; c++ {
			*(*uint16)(cellPtr(r-1, c)) = *(*uint16)(cellPtr(r, c))
		}
	}
	for c := 0; c < vgaWidth; c++ {
		*(*uint16)(cellPtr(vgaHeight-1, c)) = defaultAttr | uint16(' ')
	}
}

// cellPtr returns a pointer to the framebuffer cell at (r, c). Each cell is
// a 16-bit (char, attribute) pair.
func cellPtr(r, c int) unsafe.Pointer {
	return unsafe.Pointer(fbAddr + uintptr((r*vgaWidth+c)*2))
}

// Clear blanks the framebuffer and resets the cursor to the top-left.
func Clear() {
	for r := 0; r < vgaHeight; r++ {
		for c := 0; c < vgaWidth; c++ {
			*(*uint16)(cellPtr(r, c)) = defaultAttr | uint16(' ')
		}
	}
	row, col = 0, 0
}

// Printf formats according to the kfmt verb subset and writes the result
// directly to the VGA framebuffer.
func Printf(format string, args ...interface{}) {
	kfmt.Fprintf(w, format, args...)
}
