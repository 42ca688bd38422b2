// Package commands implements the shell's command table. Ground:
// original_source's src/kernel/commands/*.c, one file per command just
// like the original, each registering itself with shell.Register from an
// init function.
package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "help",
		Help: "list available commands",
		Run:  runHelp,
	})
}

func runHelp(_ string) {
	printLine("")
	printLine("  KiOS Shell Commands")
	printLine("  ================================")
	printLine("")
	for _, cmd := range shell.Commands() {
		pad := 12 - len(cmd.Name)
		line := "  " + cmd.Name
		for i := 0; i < pad; i++ {
			line += " "
		}
		printLine(line + cmd.Help)
	}
	printLine("")
}
