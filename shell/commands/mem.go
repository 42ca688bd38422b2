package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "mem",
		Help: "print the approximate static memory layout",
		Run:  runMem,
	})
}

func runMem(_ string) {
	printLine("")
	printLine("  Memory Layout (approximate):")
	printLine("")
	printLine("  0x00000000 - 0x000003FF  IVT (Real Mode)")
	printLine("  0x00000400 - 0x000004FF  BIOS Data Area")
	printLine("  0x00007C00 - 0x00007DFF  Bootloader Stage 1")
	printLine("  0x00007E00 - 0x0000BDFF  Bootloader Stage 2")
	printLine("  0x00010000 - 0x00017FFF  Kernel Load Buffer")
	printLine("  0x000A0000 - 0x000BFFFF  VGA Memory")
	printLine("  0x000B8000 - 0x000B8F9F  VGA Text Buffer")
	printLine("  0x00100000 - ...         Kernel (1MB+)")
	printLine("")
}
