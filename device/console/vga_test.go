package console

import "testing"

func newTestConsole() *Console {
	return &Console{
		fb:     make([]uint16, width*height),
		color:  defaultColor,
		outbFn: func(uint16, uint8) {},
	}
}

func (c *Console) charAt(x, y int) byte {
	return byte(c.fb[y*width+x] & 0xff)
}

func TestWriteByteAdvancesCursorAndWritesCell(t *testing.T) {
	c := newTestConsole()
	c.WriteByte('A')
	if c.charAt(0, 0) != 'A' {
		t.Fatalf("expected 'A' at (0,0); got %q", c.charAt(0, 0))
	}
	if c.cursorX != 1 || c.cursorY != 0 {
		t.Fatalf("expected cursor at (1,0); got (%d,%d)", c.cursorX, c.cursorY)
	}
}

func TestWriteByteNewlineMovesToNextRow(t *testing.T) {
	c := newTestConsole()
	c.WriteByte('A')
	c.WriteByte('\n')
	if c.cursorX != 0 || c.cursorY != 1 {
		t.Fatalf("expected cursor at (0,1) after newline; got (%d,%d)", c.cursorX, c.cursorY)
	}
}

func TestWriteByteTabAlignsToEightColumnStop(t *testing.T) {
	c := newTestConsole()
	c.WriteByte('A')
	c.WriteByte('\t')
	if c.cursorX != 8 {
		t.Fatalf("expected cursor column 8 after tab; got %d", c.cursorX)
	}
}

func TestWriteByteBackspaceErasesPreviousCell(t *testing.T) {
	c := newTestConsole()
	c.WriteByte('A')
	c.WriteByte('B')
	c.WriteByte('\b')
	if c.cursorX != 1 {
		t.Fatalf("expected cursor column 1 after backspace; got %d", c.cursorX)
	}
	if c.charAt(1, 0) != ' ' {
		t.Fatalf("expected backspace to blank the erased cell; got %q", c.charAt(1, 0))
	}
}

func TestWriteByteWrapsAtLineEnd(t *testing.T) {
	c := newTestConsole()
	for i := 0; i < width; i++ {
		c.WriteByte('x')
	}
	if c.cursorX != 0 || c.cursorY != 1 {
		t.Fatalf("expected wrap to (0,1) after filling a row; got (%d,%d)", c.cursorX, c.cursorY)
	}
}

func TestScrollUpShiftsRowsAndBlanksLast(t *testing.T) {
	c := newTestConsole()
	c.putAt('Z', 0, 1)
	c.Scroll(Up, 1)
	if c.charAt(0, 0) != 'Z' {
		t.Fatalf("expected row 1 shifted into row 0; got %q", c.charAt(0, 0))
	}
	if c.charAt(0, height-1) != ' ' {
		t.Fatalf("expected last row blanked after scroll; got %q", c.charAt(0, height-1))
	}
}

func TestWriteByteScrollsWhenCursorPastLastRow(t *testing.T) {
	c := newTestConsole()
	c.putAt('Z', 0, height-1)
	c.cursorY = height
	c.WriteByte('A')
	if c.cursorY != height-1 {
		t.Fatalf("expected cursor clamped to last row after scroll; got %d", c.cursorY)
	}
}

func TestClearClipsToBounds(t *testing.T) {
	c := newTestConsole()
	c.putAt('Z', width-1, height-1)
	c.Clear(0, 0, 65535, 65535)
	if c.charAt(width-1, height-1) != ' ' {
		t.Fatalf("expected Clear to blank the whole framebuffer even with an oversized rect")
	}
}

func TestWriteImplementsIOWriter(t *testing.T) {
	c := newTestConsole()
	n, err := c.Write([]byte("hi"))
	if err != nil || n != 2 {
		t.Fatalf("expected (2, nil); got (%d, %v)", n, err)
	}
	if c.charAt(0, 0) != 'h' || c.charAt(1, 0) != 'i' {
		t.Fatalf("expected \"hi\" written to the framebuffer")
	}
}

func TestUpdateCursorProgramsCRTCPorts(t *testing.T) {
	c := newTestConsole()
	var ports []uint16
	var vals []uint8
	c.outbFn = func(port uint16, v uint8) {
		ports = append(ports, port)
		vals = append(vals, v)
	}
	c.cursorX, c.cursorY = 5, 2
	c.updateCursor()
	if len(ports) != 4 || ports[0] != ctrlPort || ports[1] != dataPort || ports[2] != ctrlPort || ports[3] != dataPort {
		t.Fatalf("expected alternating ctrl/data port writes; got %v", ports)
	}
	wantPos := uint16(2*width + 5)
	gotPos := uint16(vals[1]) | uint16(vals[3])<<8
	if gotPos != wantPos {
		t.Fatalf("expected cursor position %d encoded; got %d", wantPos, gotPos)
	}
}
