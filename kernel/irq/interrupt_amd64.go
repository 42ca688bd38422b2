// Package irq dispatches CPU exceptions and PIC-routed hardware interrupts
// to handler functions registered by the rest of the kernel. The
// assembly common stub installed by kernel/idt for every vector saves a
// Frame and Regs pair on the current stack and calls Dispatch; it is the
// single Go-reachable entrypoint for every interrupt in the system.
package irq

import "github.com/KibaOfficial/KiOS/kernel/kfmt"

// Regs contains a snapshot of the general purpose register values at the
// moment an interrupt occurred.
type Regs struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64
}

// Print outputs a dump of the register values.
func (r *Regs) Print() {
	kfmt.Printf("RAX = %16x RBX = %16x\n", r.RAX, r.RBX)
	kfmt.Printf("RCX = %16x RDX = %16x\n", r.RCX, r.RDX)
	kfmt.Printf("RSI = %16x RDI = %16x\n", r.RSI, r.RDI)
	kfmt.Printf("RBP = %16x\n", r.RBP)
	kfmt.Printf("R8  = %16x R9  = %16x\n", r.R8, r.R9)
	kfmt.Printf("R10 = %16x R11 = %16x\n", r.R10, r.R11)
	kfmt.Printf("R12 = %16x R13 = %16x\n", r.R12, r.R13)
	kfmt.Printf("R14 = %16x R15 = %16x\n", r.R14, r.R15)
}

// Frame describes the exception frame the CPU automatically pushes to the
// stack when an exception or interrupt occurs.
type Frame struct {
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// Print outputs a dump of the exception frame.
func (f *Frame) Print() {
	kfmt.Printf("RIP = %16x CS  = %16x\n", f.RIP, f.CS)
	kfmt.Printf("RSP = %16x SS  = %16x\n", f.RSP, f.SS)
	kfmt.Printf("RFL = %16x\n", f.RFlags)
}

// Context is the combined in-memory layout of one saved interrupt context:
// the general-purpose registers, the vector number, the (possibly
// synthetic) hardware error code, and the CPU-pushed exception frame, in
// the exact order the common
// assembly stub installed by kernel/idt pushes them onto the stack (GP
// registers pushed last land at the lowest address). Because Regs is
// Context's first field, the *Regs pointer Dispatch hands to handlers and
// returns to the caller is bit-identical to a *Context: kernel/task builds
// a Context on a freshly allocated stack to seed a new task's first
// iretq, and the IDT's common stub recovers ErrCode/Frame from a
// task-switched *Regs by treating it as a *Context.
type Context struct {
	Regs
	Vector  uint64
	ErrCode uint64
	Frame
}
