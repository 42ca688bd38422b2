package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/cpu"
	"github.com/KibaOfficial/KiOS/shell"
)

const badFaultAddr = 0xDEADBEEF

func init() {
	shell.Register(shell.Command{
		Name: "fault",
		Help: "fault <div0|ud|pf> - deliberately trip a CPU exception",
		Run:  runFault,
	})
}

func runFault(args string) {
	switch args {
	case "":
		printLine("Usage: fault <div0|ud|pf>")
		printLine("  div0  - divide error (vector 0)")
		printLine("  ud    - invalid opcode (vector 6)")
		printLine("  pf    - page fault (vector 14)")
	case "div0":
		printLine("Trigger: divide by zero!")
		cpu.TriggerDivideByZero()
	case "ud":
		printLine("Trigger: invalid opcode!")
		cpu.TriggerInvalidOpcode()
	case "pf":
		printLine("Trigger: page fault!")
		cpu.TriggerPageFault(badFaultAddr)
	default:
		printLine("Unknown fault type. Use: div0, ud, pf")
	}
}
