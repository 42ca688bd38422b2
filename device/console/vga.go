// Package console implements an EGA-compatible VGA text-mode console,
// addressed directly through the memory-mapped framebuffer at 0xB8000.
// Ground: kernel/driver/video/console.Vga's width/height/
// framebuffer-slice structure, and original_source's
// src/kernel/vga.c/vga.h for cursor behavior (tab/backspace/newline
// handling, scroll-before-overflow, hardware cursor port programming).
package console

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel/cpu"
)

// Attr is a VGA text attribute byte: low nibble foreground, high nibble
// background.
type Attr uint16

// The 16 VGA text-mode colors, in register order.
const (
	Black Attr = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	Grey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// ScrollDir is a scroll direction for Scroll.
type ScrollDir uint8

const (
	Up ScrollDir = iota
	Down
)

const (
	width      = 80
	height     = 25
	fbPhysAddr = uintptr(0xB8000)

	ctrlPort = 0x3D4
	dataPort = 0x3D5

	defaultColor = Attr(uint16(White) | uint16(Black)<<4)
)

// Console is a stateful VGA text console: it owns the framebuffer slice,
// the cursor position and the active color, and exposes an io.Writer so
// kfmt.SetOutputSink can target it directly.
type Console struct {
	fb []uint16

	cursorX, cursorY int
	color            Attr

	outbFn func(port uint16, value uint8)
}

// New returns a Console overlaying the standard VGA text framebuffer.
// Tests construct a Console with fb pointed at a plain slice instead.
func New() *Console {
	return &Console{
		fb:     unsafe.Slice((*uint16)(unsafe.Pointer(fbPhysAddr)), width*height),
		color:  defaultColor,
		outbFn: cpu.PortWriteByte,
	}
}

// Init clears the screen and homes the cursor.
func (c *Console) Init() {
	c.Clear(0, 0, width, height)
	c.cursorX, c.cursorY = 0, 0
	c.updateCursor()
}

// Dimensions returns the console size in characters.
func (c *Console) Dimensions() (uint16, uint16) {
	return width, height
}

// SetColor changes the attribute used by subsequent writes.
func (c *Console) SetColor(fg, bg Attr) {
	c.color = fg | bg<<4
}

// Clear blanks the given rectangular region using the active color.
func (c *Console) Clear(x, y, w, h uint16) {
	if x >= width {
		x = width
	}
	if y >= height {
		y = height
	}
	if x+w > width {
		w = width - x
	}
	if y+h > height {
		h = height - y
	}

	blank := uint16(c.color)<<8 | uint16(' ')
	rowOffset := y*width + x
	for ; h > 0; h, rowOffset = h-1, rowOffset+width {
		for col := rowOffset; col < rowOffset+w; col++ {
			c.fb[col] = blank
		}
	}
}

// Scroll shifts the framebuffer by lines rows in the given direction,
// blanking the rows vacated at the trailing edge.
func (c *Console) Scroll(dir ScrollDir, lines uint16) {
	if lines == 0 || lines > height {
		return
	}

	offset := int(lines) * width
	blank := uint16(c.color)<<8 | uint16(' ')

	switch dir {
	case Up:
		copy(c.fb, c.fb[offset:])
		for i := (height - int(lines)) * width; i < height*width; i++ {
			c.fb[i] = blank
		}
	case Down:
		for i := height*width - 1; i >= offset; i-- {
			c.fb[i] = c.fb[i-offset]
		}
		for i := 0; i < offset; i++ {
			c.fb[i] = blank
		}
	}
}

// WriteByte writes a single character at the cursor, interpreting
// \n, \r, \t and \b exactly as original_source's vga_putchar does, and
// scrolls the screen up a line whenever the cursor would run past the
// last row.
func (c *Console) WriteByte(ch byte) {
	if c.cursorY >= height {
		c.Scroll(Up, 1)
		c.cursorY = height - 1
	}

	switch ch {
	case '\n':
		c.cursorX = 0
		c.cursorY++
	case '\r':
		c.cursorX = 0
	case '\t':
		c.cursorX = (c.cursorX + 8) &^ 7
	case '\b':
		if c.cursorX > 0 {
			c.cursorX--
			c.putAt(' ', c.cursorX, c.cursorY)
		}
	default:
		if ch >= ' ' {
			c.putAt(ch, c.cursorX, c.cursorY)
			c.cursorX++
		}
	}

	if c.cursorX >= width {
		c.cursorX = 0
		c.cursorY++
	}
	if c.cursorY >= height {
		c.Scroll(Up, 1)
		c.cursorY = height - 1
	}

	c.updateCursor()
}

// Write implements io.Writer so a Console can be installed as kfmt's
// output sink.
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		c.WriteByte(b)
	}
	return len(p), nil
}

func (c *Console) putAt(ch byte, x, y int) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}
	c.fb[y*width+x] = uint16(c.color)<<8 | uint16(ch)
}

// updateCursor programs the CRTC cursor location registers (0x3D4/0x3D5)
// with the current cursor position, so the blinking hardware cursor
// tracks WriteByte instead of lagging behind the framebuffer contents.
func (c *Console) updateCursor() {
	pos := uint16(c.cursorY*width + c.cursorX)
	c.outbFn(ctrlPort, 0x0F)
	c.outbFn(dataPort, byte(pos&0xff))
	c.outbFn(ctrlPort, 0x0E)
	c.outbFn(dataPort, byte((pos>>8)&0xff))
}
