package irq

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

// ExceptionNum identifies one of the 32 CPU exception vectors.
type ExceptionNum uint8

const (
	// DivideByZero occurs when dividing by zero via DIV/IDIV.
	DivideByZero = ExceptionNum(0)

	// DoubleFault occurs when an exception is unhandled or when an
	// exception occurs while the CPU is trying to call an exception
	// handler. It always runs on IST1.
	DoubleFault = ExceptionNum(8)

	// InvalidTSS occurs when the TSS points to an invalid segment.
	InvalidTSS = ExceptionNum(10)

	// SegmentNotPresent occurs when invoking a present gate with an
	// invalid stack segment selector.
	SegmentNotPresent = ExceptionNum(11)

	// StackSegmentFault occurs on a non-canonical stack access or a
	// GDT stack base/limit check failure.
	StackSegmentFault = ExceptionNum(12)

	// GPFException is raised on a general protection fault.
	GPFException = ExceptionNum(13)

	// PageFaultException is raised when a PDT or PDT-entry is not
	// present or when a privilege and/or RW protection check fails.
	PageFaultException = ExceptionNum(14)
)

// vectorsWithErrorCode lists the exception vectors where the CPU pushes a
// 64-bit error code below the exception frame.
var vectorsWithErrorCode = map[ExceptionNum]bool{
	8: true, 10: true, 11: true, 12: true, 13: true, 14: true, 17: true, 21: true, 29: true, 30: true,
}

// exceptionNames holds the exception_messages[] table from
// original_source's src/kernel/isr.c, in vector order.
var exceptionNames = [32]string{
	"Division By Zero",
	"Debug",
	"Non Maskable Interrupt",
	"Breakpoint",
	"Overflow",
	"Bound Range Exceeded",
	"Invalid Opcode",
	"Device Not Available",
	"Double Fault",
	"Coprocessor Segment Overrun",
	"Invalid TSS",
	"Segment Not Present",
	"Stack Fault",
	"General Protection Fault",
	"Page Fault",
	"Reserved",
	"x87 FPU Error",
	"Alignment Check",
	"Machine Check",
	"SIMD Floating-Point Exception",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Reserved",
	"Security Exception",
	"Reserved",
}

// VGA text-mode color numbers, mirrored from device/console.Attr so this
// package can drive the screen without importing device/console (kernel
// packages never import device packages).
const (
	colorWhite     = uint8(15)
	colorRed       = uint8(4)
	colorLightGrey = uint8(7)
	colorBlack     = uint8(0)
)

var (
	// setColorFn is wired to the console's SetColor by main.Boot via
	// SetColorFunc, the same injection idiom SetEOIHandler uses to keep
	// kernel/irq from importing device/console.
	setColorFn = func(fg, bg uint8) {}

	// haltFn disables interrupts and stops the CPU after a fault report has
	// been printed. Tests override it to observe the halt instead of
	// spinning forever.
	haltFn = func() {
		cpu.DisableInterrupts()
		cpu.Halt()
	}
)

// SetColorFunc installs the function reportFault uses to set the console's
// foreground/background colors while printing a fault banner.
func SetColorFunc(fn func(fg, bg uint8)) {
	setColorFn = fn
}

// ExceptionHandler handles an exception that does not push an error code.
// Modifications to Frame and Regs are propagated back to the faulting
// context if the handler returns.
type ExceptionHandler func(*Frame, *Regs)

// ExceptionHandlerWithCode handles an exception that pushes an error code.
type ExceptionHandlerWithCode func(errCode uint64, frame *Frame, regs *Regs)

// IRQHandler handles a PIC-routed hardware interrupt. It may return a
// different *Regs than the one it was given; the scheduler's timer tick
// handler uses this to switch the register set IRETQ will restore to,
// implementing preemption.
type IRQHandler func(*Frame, *Regs) *Regs

var (
	exceptionHandlers         [32]ExceptionHandler
	exceptionHandlersWithCode [32]ExceptionHandlerWithCode
	irqHandlers               [16]IRQHandler

	// sendEOIFn is wired to idt.SendEOI by idt.Init so this package
	// doesn't need to import idt (which itself imports irq to reach
	// Dispatch). Tests mock it directly.
	sendEOIFn = func(uint8) {}
)

// SetEOIHandler installs the function Dispatch calls to acknowledge an IRQ
// with the PIC once its handler has run.
func SetEOIHandler(fn func(uint8)) {
	sendEOIFn = fn
}

// HandleException registers an exception handler (without an error code)
// for the given vector.
func HandleException(num ExceptionNum, handler ExceptionHandler) {
	exceptionHandlers[num] = handler
}

// HandleExceptionWithCode registers an exception handler (with an error
// code) for the given vector.
func HandleExceptionWithCode(num ExceptionNum, handler ExceptionHandlerWithCode) {
	exceptionHandlersWithCode[num] = handler
}

// HandleIRQ registers a handler for a PIC-routed hardware interrupt. irqNum
// is the logical IRQ line (0-15), not the remapped vector number.
func HandleIRQ(irqNum uint8, handler IRQHandler) {
	irqHandlers[irqNum] = handler
}

// Dispatch routes an interrupt to its registered handler. It is called
// from the shared assembly stub installed for every IDT vector.
// vector < 32 are CPU exceptions; vector >= 32 are PIC IRQs remapped to
// start at 32. Dispatch returns the Regs pointer that should be restored
// by IRETQ, which may differ from the one the interrupt arrived with.
func Dispatch(vector uint8, errCode uint64, frame *Frame, regs *Regs) *Regs {
	switch {
	case vector < 32:
		dispatchException(vector, errCode, frame, regs)
		return regs
	default:
		return dispatchIRQ(vector-32, frame, regs)
	}
}

func dispatchException(vector uint8, errCode uint64, frame *Frame, regs *Regs) {
	num := ExceptionNum(vector)
	if vectorsWithErrorCode[num] {
		if h := exceptionHandlersWithCode[num]; h != nil {
			h(errCode, frame, regs)
			return
		}
	} else if h := exceptionHandlers[num]; h != nil {
		h(frame, regs)
		return
	}

	kfmt.Printf("unhandled exception %d (error code %d)\n", vector, errCode)
	frame.Print()
	regs.Print()
}

func dispatchIRQ(irqNum uint8, frame *Frame, regs *Regs) *Regs {
	out := regs
	if h := irqHandlers[irqNum]; h != nil {
		if next := h(frame, regs); next != nil {
			out = next
		}
	}
	sendEOIFn(irqNum)
	return out
}

// reportFault prints the fault banner and register dump ported from
// original_source's isr_handler and halts forever; it never returns.
func reportFault(vector uint8, errCode uint64, frame *Frame, regs *Regs) {
	setColorFn(colorWhite, colorRed)
	kfmt.Printf("\n===========================================\n")
	kfmt.Printf("  EXCEPTION: %s\n", exceptionNames[vector])
	kfmt.Printf("===========================================\n")

	setColorFn(colorLightGrey, colorBlack)
	kfmt.Printf("  INT#:    %d\n", vector)
	kfmt.Printf("  ERRCODE: 0x%x\n", errCode)
	frame.Print()
	regs.Print()
	kfmt.Printf("===========================================\n")

	setColorFn(colorWhite, colorBlack)
	kfmt.Printf("\nSystem halted.\n")

	for {
		haltFn()
	}
}

// RegisterDefaultHandlers installs reportFault as the handler for every CPU
// exception vector (0-31). Callers that need their own handling for a
// specific vector (vmm.Init's #GP/#PF handlers) must register after this
// call so their HandleException/HandleExceptionWithCode registration
// overwrites the default.
func RegisterDefaultHandlers() {
	for v := 0; v < 32; v++ {
		vector := uint8(v)
		num := ExceptionNum(vector)
		if vectorsWithErrorCode[num] {
			exceptionHandlersWithCode[num] = func(errCode uint64, frame *Frame, regs *Regs) {
				reportFault(vector, errCode, frame, regs)
			}
		} else {
			exceptionHandlers[num] = func(frame *Frame, regs *Regs) {
				reportFault(vector, 0, frame, regs)
			}
		}
	}
}
