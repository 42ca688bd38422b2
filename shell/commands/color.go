package commands

import (
	"github.com/KibaOfficial/KiOS/device/console"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "color",
		Help: "show the 16-color VGA palette",
		Run:  runColor,
	})
}

// runColor paints two rows of swatches: backgrounds on the first row,
// foregrounds on the second, exactly like original_source's cmd_color.
func runColor(_ string) {
	cons := shell.ActiveConsole()
	if cons == nil {
		return
	}

	printLine("")
	for c := console.Attr(0); c < 16; c++ {
		cons.SetColor(console.Black, c)
		cons.Write([]byte("  "))
	}
	cons.SetColor(console.White, console.Black)
	cons.Write([]byte("\n"))

	for c := console.Attr(0); c < 16; c++ {
		cons.SetColor(c, console.Black)
		cons.Write([]byte("##"))
	}
	cons.SetColor(console.White, console.Black)
	cons.Write([]byte("\n\n"))
}
