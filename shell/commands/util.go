package commands

import "github.com/KibaOfficial/KiOS/kernel/kfmt"

// printLine prints s followed by a newline. Named to avoid colliding with
// the builtin println, which the race detector and vet both special-case.
func printLine(s string) {
	kfmt.Printf("%s\n", s)
}
