package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/mem/e820"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "mmap",
		Help: "dump the raw BIOS memory map entries",
		Run:  runMmap,
	})
}

func runMmap(_ string) {
	printLine("Detected Memory Map:")
	i := 0
	e820.VisitRegions(func(e *e820.Entry) bool {
		kfmt.Printf("  Entry %d: base=%x, length=%x, type=%d\n", i, e.PhysAddress, e.Length, uint32(e.Type))
		i++
		return true
	})
	printLine("")
}
