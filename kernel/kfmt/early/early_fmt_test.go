package early

import (
	"testing"
	"unsafe"
)

func TestPrintf(t *testing.T) {
	origAddr := fbAddr
	defer func() {
		fbAddr = origAddr
		row, col = 0, 0
	}()

	fb := make([]uint16, vgaWidth*vgaHeight)
	fbAddr = uintptr(unsafe.Pointer(&fb[0]))

	// mute vet warnings about malformed printf formatting strings
	printfn := Printf

	specs := []struct {
		fn        func()
		expOutput string
	}{
		{
			func() { printfn("no args") },
			"no args",
		},
		{
			func() { printfn("%t", true) },
			"true",
		},
		{
			func() { printfn("%s arg", "STRING") },
			"STRING arg",
		},
		{
			func() { printfn("uint arg: %d", uint8(10)) },
			"uint arg: 10",
		},
		{
			func() { printfn("uint arg: 0x%x", uint32(0xbadf00d)) },
			"uint arg: 0xbadf00d",
		},
		{
			func() { printfn("int arg: %d", int8(-10)) },
			"int arg: -10",
		},
		{
			func() { printfn("%%%s%d%t", "foo", 123, true) },
			`%foo123true`,
		},
		{
			func() { printfn("missing args %s") },
			`missing args (MISSING)`,
		},
	}

	for specIndex, spec := range specs {
		for i := range fb {
			fb[i] = 0
		}
		row, col = 0, 0

		spec.fn()

		got := readFirstLine(fb)
		if got != spec.expOutput {
			t.Errorf("[spec %d] expected to get %q; got %q", specIndex, spec.expOutput, got)
		}
	}
}

func TestClear(t *testing.T) {
	origAddr := fbAddr
	defer func() {
		fbAddr = origAddr
		row, col = 0, 0
	}()

	fb := make([]uint16, vgaWidth*vgaHeight)
	for i := range fb {
		fb[i] = uint16('X')
	}
	fbAddr = uintptr(unsafe.Pointer(&fb[0]))

	Clear()

	for i, cell := range fb {
		if cell&0xff != ' ' {
			t.Fatalf("expected cell %d to be blanked, got %q", i, cell&0xff)
		}
	}
	if row != 0 || col != 0 {
		t.Fatalf("expected cursor reset to (0,0), got (%d,%d)", row, col)
	}
}

func readFirstLine(fb []uint16) string {
	out := make([]byte, 0, vgaWidth)
	for _, cell := range fb[:vgaWidth] {
		ch := byte(cell & 0xff)
		if ch == 0 {
			break
		}
		out = append(out, ch)
	}
	return string(out)
}
