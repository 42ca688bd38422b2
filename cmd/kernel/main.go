// Command kernel is the flat binary cmd/kbuild links and the bootloader's
// stage 2 jumps into once long mode and a temporary identity/higher-half
// mapping are already live. main is intentionally a thin trampoline: it
// exists so the Go compiler can't treat Boot and everything it reaches
// as dead code, and so the linker has exactly one exported entry point
// to aim the bootloader's far jump at.
package main

import (
	"reflect"

	"github.com/KibaOfficial/KiOS/device/console"
	"github.com/KibaOfficial/KiOS/device/keyboard"
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/gdt"
	"github.com/KibaOfficial/KiOS/kernel/heap"
	"github.com/KibaOfficial/KiOS/kernel/idt"
	"github.com/KibaOfficial/KiOS/kernel/irq"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/kfmt/early"
	"github.com/KibaOfficial/KiOS/kernel/mem/pmm"
	"github.com/KibaOfficial/KiOS/kernel/mem/vmm"
	"github.com/KibaOfficial/KiOS/kernel/pit"
	"github.com/KibaOfficial/KiOS/kernel/syscall"
	"github.com/KibaOfficial/KiOS/kernel/task"
	"github.com/KibaOfficial/KiOS/shell"

	_ "github.com/KibaOfficial/KiOS/shell/commands"
)

// kernelImageStart and kernelImageEnd bracket the loaded kernel image.
// Their addresses come from the linker script cmd/kbuild passes to the
// link step (ground: original_source's extern __kernel_start/__kernel_end
// in mm/pmm.c), not from any Go-defined symbol.
func kernelImageStart() uintptr

func kernelImageEnd() uintptr

// higherHalfBase is the virtual address the boot stub's PML4 maps physical
// memory 0 to. vmm.Translate walks the real page tables rather than
// subtracting this offset, so vmm.Init accepts the value and discards it;
// it must still stay clear of the heap's own window
// (kernel/heap.heapStart, 16MiB starting at 0xffff800000000000).
const higherHalfBase = uintptr(0xffff804000000000)

// doubleFaultStackSize matches original_source's secure_kernel_stack sizing
// for the one hand-picked IST1 stack every double fault runs on.
const doubleFaultStackSize = 8192

var doubleFaultStack [doubleFaultStackSize]byte

// shellStackSize is the stack kernel/task allocates for the shell task.
const shellStackSize = 16384

func main() {
	Boot()

	for {
		cpu.Halt()
	}
}

// Boot brings every subsystem up in a fixed order: segmentation and
// protection structures first, then the
// interrupt/exception plumbing they depend on, then memory management,
// then the scheduler and syscall gate that ride on top of it, and finally
// the device drivers and shell that are this kernel's only user-visible
// surface.
func Boot() {
	early.Clear()
	early.Printf("booting...\n")

	if err := gdt.Init(doubleFaultStack[:]); err != nil {
		kfmt.Panic(err)
	}
	idt.Init()

	// Every IRQ line starts masked; Boot unmasks IRQ0 and IRQ1 at the end,
	// once the PIT and keyboard handlers are installed, so nothing can
	// fire into a dispatch table entry that isn't wired up yet.
	for line := uint8(0); line < 16; line++ {
		idt.SetMask(line)
	}

	// Every exception vector gets a diagnostic-and-halt handler before any
	// subsystem that could fault runs; vmm.Init below overrides vectors
	// 13/14 with its own handlers, which print the fault details and panic.
	irq.RegisterDefaultHandlers()

	pmm.Init(kernelImageStart(), kernelImageEnd())
	vmm.SetFrameAllocator(pmm.AllocFrame)
	if err := vmm.Init(higherHalfBase); err != nil {
		kfmt.Panic(err)
	}
	heap.Init()

	syscall.Init()
	syscall.SetYieldFn(func() {
		// Cooperative yield: a single PAUSE hint and return; the switch
		// to another task happens when a later 100Hz tick preempts into
		// task.Switch, rather than re-entering the scheduler
		// synchronously from syscall context.
		cpu.Pause()
	})

	task.Init()
	task.SetTicksFn(pit.Ticks)
	pit.SetTaskSwitchFn(task.Switch)

	cons := console.New()
	cons.Init()
	shell.SetConsole(cons)
	irq.SetColorFunc(func(fg, bg uint8) {
		cons.SetColor(console.Attr(fg), console.Attr(bg))
	})

	keyboard.Init()
	pit.Init()

	shellEntryAddr := reflect.ValueOf(shellEntry).Pointer()
	if _, err := task.Create("shell", shellEntryAddr, shellStackSize); err != nil {
		kfmt.Panic(err)
	}

	pit.EnableScheduler()

	idt.ClearMask(0) // PIT
	idt.ClearMask(1) // keyboard

	cpu.EnableInterrupts()
}

// shellEntry is the first task the scheduler ever switches to. It never
// returns: shell.Run loops forever reading and dispatching commands.
func shellEntry() {
	shell.Run()
}
