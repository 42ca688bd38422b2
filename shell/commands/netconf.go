package commands

import "github.com/KibaOfficial/KiOS/shell"

func init() {
	shell.Register(shell.Command{
		Name: "netconf",
		Help: "show configured network interfaces",
		Run:  runNetconf,
	})
}

// No network stack exists yet; this mirrors ifconfig on a machine with no
// interfaces rather than omitting the command entirely.
func runNetconf(_ string) {
	printLine("No network interfaces configured.")
}
