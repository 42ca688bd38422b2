package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/shell"
)

// QEMU's emulated ACPI PM1a control block: writing the "S5 sleep type"
// with the SLP_EN bit set asks the virtual chipset to power off. Real
// hardware would need its sleep-type value read out of the DSDT; this
// port/value pair only works under the emulator this kernel targets.
const (
	acpiPM1aControlPort = 0x604
	acpiSlp5WithEnable  = 0x2000
)

func init() {
	shell.Register(shell.Command{
		Name: "shutdown",
		Help: "power off via the emulated ACPI control port",
		Run:  runShutdown,
	})
}

func runShutdown(_ string) {
	printLine("Shutting down...")
	cpu.PortWriteWord(acpiPM1aControlPort, acpiSlp5WithEnable)
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}
