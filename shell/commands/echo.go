package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "echo",
		Help: "print the given text",
		Run:  runEcho,
	})
}

func runEcho(args string) {
	printLine(args)
}
