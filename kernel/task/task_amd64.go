// Package task implements the kernel's task control block table and a
// round-robin preemptive scheduler driven by kernel/pit's timer tick.
// Ground: original_source's src/kernel/task.c, re-expressed with the
// same slice-of-pointers layout used for this repo's other fixed-size
// hardware tables (e.g. kernel/idt's [256]entry).
package task

import (
	"unsafe"

	"github.com/KibaOfficial/KiOS/kernel"
	"github.com/KibaOfficial/KiOS/kernel/gdt"
	"github.com/KibaOfficial/KiOS/kernel/heap"
	"github.com/KibaOfficial/KiOS/kernel/irq"
	"github.com/KibaOfficial/KiOS/kernel/mem"
)

// MaxTasks bounds the static task table, mirroring original_source's
// MAX_TASKS.
const MaxTasks = 64

const nameMax = 32

// State is the lifecycle state of a task.
type State int

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateSleeping
	StateZombie
)

// TCB is a task control block: the scheduler's view of one task, along with
// the saved register/frame context it resumes with when switched back in.
type TCB struct {
	PID   uint32
	Name  string
	State State

	// Regs points at the Regs field of an irq.Context living on this
	// task's own stack; Switch hands this pointer straight to the IDT's
	// common stub as the frame to iretq back into.
	Regs *irq.Regs

	StackBase uintptr
	StackSize mem.Size

	// SleepUntil is the tick count (kernel/pit.Ticks) at which a
	// StateSleeping task becomes eligible to run again.
	SleepUntil uint64
}

var (
	tasks     [MaxTasks]*TCB
	taskCount int
	current   *TCB
	nextPID   uint32 = 1

	// ticksFn and allocFn are mocked by tests and automatically inlined by
	// the compiler when compiling the kernel. ticksFn is injected rather
	// than importing kernel/pit directly: pit's IRQ handler needs to call
	// back into Switch, so the dependency would otherwise cycle.
	ticksFn = func() uint64 { return 0 }
	allocFn = heap.Alloc

	errMaxTasksReached = &kernel.Error{Module: "task", Message: "maximum task count reached"}
)

// SetTicksFn wires the tick source used to evaluate sleeping tasks' wakeup
// time. The boot sequence calls SetTicksFn(pit.Ticks) after both
// subsystems are initialized.
func SetTicksFn(fn func() uint64) {
	ticksFn = fn
}

// Init resets the task table and creates the PID-0 "kernel_idle" task that
// represents the boot context calling Init. PID 0 is never selected by
// Switch's round-robin scan; it simply runs whenever no other task is
// READY, in the kernel's HLT idle loop.
func Init() {
	tasks = [MaxTasks]*TCB{}
	taskCount = 0
	nextPID = 1

	idle := &TCB{PID: 0, Name: "kernel_idle", State: StateRunning}
	tasks[0] = idle
	taskCount = 1
	current = idle
}

// Create allocates a TCB and a heap-backed stack, seeds an irq.Context at
// the top of that stack so the task's first switch-in behaves like
// returning from an interrupt straight into entry, and adds the task to the
// round-robin table.
func Create(name string, entry uintptr, stackSize mem.Size) (*TCB, *kernel.Error) {
	if taskCount >= MaxTasks {
		return nil, errMaxTasksReached
	}

	if len(name) > nameMax {
		name = name[:nameMax]
	}

	stackBase, err := allocFn(stackSize)
	if err != nil {
		return nil, err
	}

	stackTop := stackBase + uintptr(stackSize)
	stackTop &^= uintptr(15) // x86-64 requires a 16-byte aligned stack
	stackTop -= unsafe.Sizeof(irq.Context{})

	ctx := (*irq.Context)(unsafe.Pointer(stackTop))
	*ctx = irq.Context{}
	ctx.Frame.RIP = uint64(entry)
	ctx.Frame.CS = uint64(gdt.KernelCodeSelector)
	ctx.Frame.RFlags = 0x202 // IF=1, reserved bit 1
	ctx.Frame.RSP = uint64(stackTop)
	ctx.Frame.SS = uint64(gdt.KernelDataSelector)

	t := &TCB{
		PID:       nextPID,
		Name:      name,
		State:     StateReady,
		Regs:      &ctx.Regs,
		StackBase: stackBase,
		StackSize: stackSize,
	}
	nextPID++

	tasks[taskCount] = t
	taskCount++

	if current == nil {
		current = t
		t.State = StateRunning
	}

	return t, nil
}

// Current returns the task presently selected to run.
func Current() *TCB {
	return current
}

// Count returns the number of tasks known to the scheduler (including the
// idle task).
func Count() int {
	return taskCount
}

// ByIndex returns the task at the given table index, or nil if out of
// range. Used by the shell's "tasks" command to enumerate the table.
func ByIndex(index int) *TCB {
	if index < 0 || index >= taskCount {
		return nil
	}
	return tasks[index]
}

// Switch is the scheduler entry point, called from kernel/pit's timer IRQ
// handler. It saves curRegs into the outgoing task, performs a circular
// scan starting just after the current task for the next READY task
// (waking SLEEPING tasks whose deadline has passed), and returns the Regs
// the caller should resume execution with. PID 0 is never selected
// directly; it only keeps running when nothing else is READY.
func Switch(curRegs *irq.Regs) *irq.Regs {
	if taskCount == 0 {
		return curRegs
	}

	if current != nil && current.State == StateRunning {
		current.Regs = curRegs
		current.State = StateReady
	}

	startIdx := 0
	for i := 0; i < taskCount; i++ {
		if tasks[i] == current {
			startIdx = (i + 1) % taskCount
			break
		}
	}

	now := ticksFn()
	var next *TCB
	for i := 0; i < taskCount; i++ {
		idx := (startIdx + i) % taskCount
		t := tasks[idx]

		if t.PID == 0 {
			continue
		}

		if t.State == StateReady {
			next = t
			break
		}

		if t.State == StateSleeping && now >= t.SleepUntil {
			t.State = StateReady
			next = t
			break
		}
	}

	if next == nil {
		if current != nil {
			current.State = StateRunning
		}
		return curRegs
	}

	current = next
	current.State = StateRunning
	return current.Regs
}

// Sleep puts the current task to sleep for the given number of PIT ticks.
// The actual context switch away from the sleeping task happens on the
// next timer tick, exactly like original_source's task_sleep.
func Sleep(ticks uint64) {
	if current == nil {
		return
	}
	current.State = StateSleeping
	current.SleepUntil = ticksFn() + ticks
}

// Exit marks the current task as a zombie. There is no reclamation path:
// the TCB and its stack remain allocated (kernel/heap never frees), and the
// zombie is simply never selected again by Switch since it no longer
// reports StateReady.
func Exit() {
	if current != nil {
		current.State = StateZombie
	}
}
