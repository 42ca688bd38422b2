package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "info",
		Help: "show kernel build info",
		Run:  runInfo,
	})
}

func runInfo(_ string) {
	printLine("")
	printLine("  KiOS v0.2.0")
	printLine("")
	printLine("  Architecture: x86_64 (Long Mode)")
	printLine("  Video:        VGA Text Mode 80x25")
	printLine("  Kernel at:    0x100000 (1MB)")
	printLine("  VGA Buffer:   0xB8000")
	printLine("")
}
