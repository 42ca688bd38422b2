// Package pit drives the 8253/8254 Programmable Interval Timer's channel 0
// at a fixed 100Hz, registering an IRQ0 handler that counts ticks and, once
// the scheduler is enabled, invokes a task switch every 10 ticks (100ms).
// Ground: original_source's src/kernel/pit.c.
package pit

import (
	"sync/atomic"

	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/kernel/irq"
)

const (
	channel0Data = 0x40
	command      = 0x43

	// baseFreq is the PIT's fixed input clock.
	baseFreq = 1193182

	// targetFreq is the rate at which IRQ0 fires.
	targetFreq = 100

	divisor = baseFreq / targetFreq

	// commandByte selects channel 0, lobyte/hibyte access, mode 3 (square
	// wave generator), binary (not BCD) counting.
	commandByte = 0x36

	// schedulerPeriodTicks is how many IRQ0 ticks occur between task
	// switches (10 ticks at 100Hz = every 100ms).
	schedulerPeriodTicks = 10
)

// TaskSwitchFn performs a scheduler tick, returning the (possibly
// different) register frame execution should resume with.
type TaskSwitchFn func(cur *irq.Regs) *irq.Regs

var (
	ticks uint64

	schedulerEnabled bool

	// taskSwitchFn is wired by the boot sequence once kernel/task is
	// initialized, mirroring kernel/irq's SetEOIHandler seam: pit cannot
	// import kernel/task directly without creating an import cycle (task
	// needs pit.Ticks for sleep-queue wakeups), so the dependency is
	// injected instead.
	taskSwitchFn TaskSwitchFn = func(cur *irq.Regs) *irq.Regs { return cur }

	// the following are mocked by tests and automatically inlined by the
	// compiler when compiling the kernel.
	outbFn      = cpu.PortWriteByte
	handleIRQFn = irq.HandleIRQ
)

// SetTaskSwitchFn registers the function invoked every schedulerPeriodTicks
// ticks once the scheduler has been enabled via EnableScheduler.
func SetTaskSwitchFn(fn TaskSwitchFn) {
	taskSwitchFn = fn
}

// Init configures PIT channel 0 for a 100Hz square wave and installs the
// IRQ0 handler. The caller is still responsible for unmasking IRQ0 on the
// PIC once the rest of boot has completed.
func Init() {
	handleIRQFn(0, irqHandler)

	outbFn(command, commandByte)
	outbFn(channel0Data, uint8(divisor&0xff))
	outbFn(channel0Data, uint8((divisor>>8)&0xff))
}

// EnableScheduler turns on task switching from the timer tick. It should
// only be called after kernel/task has created at least the idle task.
func EnableScheduler() {
	schedulerEnabled = true
}

// Ticks returns the number of IRQ0 ticks observed since Init.
func Ticks() uint64 {
	return atomic.LoadUint64(&ticks)
}

// UptimeSeconds returns elapsed wall-clock seconds, derived from the tick
// count at the fixed 100Hz rate.
func UptimeSeconds() uint64 {
	return Ticks() / targetFreq
}

func irqHandler(_ *irq.Frame, regs *irq.Regs) *irq.Regs {
	newTicks := atomic.AddUint64(&ticks, 1)

	if schedulerEnabled && newTicks%schedulerPeriodTicks == 0 {
		return taskSwitchFn(regs)
	}
	return regs
}
