package irq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

func TestHandleExceptionDispatch(t *testing.T) {
	defer func() {
		exceptionHandlers = [32]ExceptionHandler{}
	}()

	var got *Frame
	HandleException(DivideByZero, func(frame *Frame, regs *Regs) {
		got = frame
	})

	frame := &Frame{RIP: 0x1234}
	regs := &Regs{}
	Dispatch(uint8(DivideByZero), 0, frame, regs)

	if got != frame {
		t.Fatal("expected registered handler to be invoked with the dispatched frame")
	}
}

func TestHandleExceptionWithCodeDispatch(t *testing.T) {
	defer func() {
		exceptionHandlersWithCode = [32]ExceptionHandlerWithCode{}
	}()

	var gotCode uint64
	HandleExceptionWithCode(GPFException, func(errCode uint64, frame *Frame, regs *Regs) {
		gotCode = errCode
	})

	Dispatch(uint8(GPFException), 0xdead, &Frame{}, &Regs{})

	if gotCode != 0xdead {
		t.Fatalf("expected error code 0xdead; got %#x", gotCode)
	}
}

func TestRegisterDefaultHandlersHaltsOnUnownedVector(t *testing.T) {
	defer func() {
		exceptionHandlers = [32]ExceptionHandler{}
		exceptionHandlersWithCode = [32]ExceptionHandlerWithCode{}
		setColorFn = func(fg, bg uint8) {}
		haltFn = func() {}
		kfmt.SetOutputSink(nil)
	}()

	RegisterDefaultHandlers()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	haltCalls := 0
	haltFn = func() {
		haltCalls++
		if haltCalls == 1 {
			panic("halted")
		}
	}

	var colors []uint8
	setColorFn = func(fg, bg uint8) { colors = append(colors, fg, bg) }

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected reportFault to loop on haltFn forever")
			}
		}()
		Dispatch(uint8(DivideByZero), 0, &Frame{}, &Regs{})
	}()

	if got := buf.String(); !strings.Contains(got, "Division By Zero") {
		t.Errorf("expected fault banner to name the exception; got %q", got)
	}
	if len(colors) == 0 {
		t.Error("expected reportFault to drive the console colors")
	}
}

func TestRegisterDefaultHandlersUsesErrorCodeVariant(t *testing.T) {
	defer func() {
		exceptionHandlers = [32]ExceptionHandler{}
		exceptionHandlersWithCode = [32]ExceptionHandlerWithCode{}
		setColorFn = func(fg, bg uint8) {}
		haltFn = func() {}
		kfmt.SetOutputSink(nil)
	}()

	RegisterDefaultHandlers()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	haltFn = func() { panic("halted") }

	func() {
		defer func() { recover() }()
		Dispatch(uint8(GPFException), 0x7, &Frame{}, &Regs{})
	}()

	if got := buf.String(); !strings.Contains(got, "0x7") {
		t.Errorf("expected the error code to appear in the dump; got %q", got)
	}
}

func TestDispatchIRQ(t *testing.T) {
	defer func() {
		irqHandlers = [16]IRQHandler{}
		sendEOIFn = func(uint8) {}
	}()

	var eoiLine uint8 = 0xff
	sendEOIFn = func(line uint8) { eoiLine = line }

	called := false
	HandleIRQ(1, func(frame *Frame, regs *Regs) *Regs {
		called = true
		return nil
	})

	regs := &Regs{}
	out := Dispatch(32+1, 0, &Frame{}, regs)

	if !called {
		t.Fatal("expected the registered IRQ handler to be invoked")
	}
	if out != regs {
		t.Fatal("expected dispatchIRQ to return the original Regs when the handler returns nil")
	}
	if eoiLine != 1 {
		t.Fatalf("expected EOI to be sent for IRQ line 1; got %d", eoiLine)
	}
}
