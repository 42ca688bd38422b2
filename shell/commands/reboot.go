package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/shell"
)

const (
	kbcCommandPort    = 0x64
	kbcInputFullFlag  = 0x02
	kbcResetPulseByte = 0xFE
)

func init() {
	shell.Register(shell.Command{
		Name: "reboot",
		Help: "reset the machine via the 8042 keyboard controller",
		Run:  runReboot,
	})
}

func runReboot(_ string) {
	printLine("Rebooting...")

	for cpu.PortReadByte(kbcCommandPort)&kbcInputFullFlag != 0 {
	}
	cpu.PortWriteByte(kbcCommandPort, kbcResetPulseByte)

	// Belt and suspenders: if the controller pulse didn't reset the
	// board, loading a null IDT and firing an interrupt forces a triple
	// fault, which resets it anyway.
	cpu.LoadIDT(0)
	cpu.TriggerFault()
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}
