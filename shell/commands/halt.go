package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "halt",
		Help: "stop the CPU in an infinite halt loop",
		Run:  runHalt,
	})
}

func runHalt(_ string) {
	printLine("System halted. You can turn off your computer.")
	printLine("")
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}
