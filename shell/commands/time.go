package commands

import (
	"github.com/KibaOfficial/KiOS/device/cmos"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "time",
		Help: "show the current UTC time from the RTC",
		Run:  runTime,
	})
}

// two prints v as a decimal, zero-padded to two digits when needed -
// kfmt's %d width always pads with spaces, so the leading zero is added
// by hand here exactly like original_source's cmd_time does.
func two(v uint8) {
	if v < 10 {
		kfmt.Printf("0%d", v)
		return
	}
	kfmt.Printf("%d", v)
}

func runTime(_ string) {
	t := cmos.Now()
	printLine("")
	kfmt.Printf("  Current time (UTC): 20")
	two(t.Year)
	kfmt.Printf("-")
	two(t.Month)
	kfmt.Printf("-")
	two(t.Day)
	kfmt.Printf(" ")
	two(t.Hour)
	kfmt.Printf(":")
	two(t.Minute)
	kfmt.Printf(":")
	two(t.Second)
	kfmt.Printf("\n")
	printLine("")
}
