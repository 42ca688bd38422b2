package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "clear",
		Help: "clear the screen",
		Run:  runClear,
	})
}

func runClear(_ string) {
	cons := shell.ActiveConsole()
	if cons == nil {
		return
	}
	w, h := cons.Dimensions()
	cons.Clear(0, 0, w, h)
}
