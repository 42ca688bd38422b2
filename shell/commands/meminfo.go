package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/mem/e820"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "meminfo",
		Help: "dump the BIOS E820 memory map",
		Run:  runMeminfo,
	})
}

func runMeminfo(_ string) {
	printLine("")
	printLine("  Base                 Length               Type")
	e820.VisitRegions(func(e *e820.Entry) bool {
		kfmt.Printf("  %16x     %16x     %s\n", e.PhysAddress, e.Length, e.Type.String())
		return true
	})
	printLine("")
}
