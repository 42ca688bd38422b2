// Package shell implements the interactive command loop: a prompt, a
// line editor fed by device/keyboard, a command history, and dispatch
// into the shell/commands registry. Ground: original_source's
// src/kernel/shell.c's shell_run/shell_readline/shell_execute.
package shell

import (
	"github.com/KibaOfficial/KiOS/device/console"
	"github.com/KibaOfficial/KiOS/device/keyboard"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

const (
	bufSize        = 256
	historySize    = 10
	escChar   byte = 27
)

// Command is one named, documented shell command.
type Command struct {
	Name string
	Help string
	Run  func(args string)
}

var registry []Command

// Register adds a command to the shell's dispatch table. Called from
// shell/commands init functions.
func Register(c Command) {
	registry = append(registry, c)
}

// Commands returns the registered command table, used by the help
// command to list them in registration order.
func Commands() []Command {
	return registry
}

var (
	history      [historySize]string
	historyCount int

	getCharFn = keyboard.GetChar
	writeFn   = kfmt.Printf

	activeConsole *console.Console
)

// ActiveConsole returns the console installed by SetConsole, or nil if
// none has been installed yet. Commands that need direct console access
// (clear, color) use this instead of writing through kfmt.
func ActiveConsole() *console.Console {
	return activeConsole
}

func addToHistory(cmd string) {
	if len(cmd) == 0 {
		return
	}
	if historyCount > 0 && history[(historyCount-1)%historySize] == cmd {
		return
	}
	history[historyCount%historySize] = cmd
	historyCount++
}

func printPrompt() {
	writeFn("kiba@KiOS> ")
}

// readLine blocks on keyboard.GetChar, echoing printable characters,
// honoring backspace and Escape-clears-line, and returns the completed
// line once Enter is pressed.
func readLine() string {
	buf := make([]byte, 0, bufSize)
	for {
		c := getCharFn()
		switch c {
		case '\n':
			writeFn("\n")
			line := string(buf)
			addToHistory(line)
			return line
		case '\b':
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				writeFn("\b")
			}
		case escChar:
			for len(buf) > 0 {
				buf = buf[:len(buf)-1]
				writeFn("\b")
			}
		default:
			if c >= ' ' && len(buf) < bufSize-1 {
				buf = append(buf, c)
				writeFn("%c", c)
			}
		}
	}
}

// execute splits cmd into a command name and argument string, matches it
// against the registry, and either runs it or prints an "unknown command"
// message, exactly like shell_execute.
func execute(line string) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	line = line[i:]
	if len(line) == 0 {
		return
	}

	nameEnd := 0
	for nameEnd < len(line) && line[nameEnd] != ' ' {
		nameEnd++
	}
	name := line[:nameEnd]

	args := line[nameEnd:]
	j := 0
	for j < len(args) && args[j] == ' ' {
		j++
	}
	args = args[j:]

	for _, cmd := range registry {
		if cmd.Name == name {
			cmd.Run(args)
			return
		}
	}

	writeFn("Unknown command: %s\nType 'help' for available commands.\n", name)
}

// Run is the shell's main loop: print a prompt, read a line, execute it,
// forever. It never returns.
func Run() {
	for {
		printPrompt()
		line := readLine()
		execute(line)
	}
}

// SetConsole installs cons as kfmt's output sink, so shell and command
// output reaches the VGA text console.
func SetConsole(cons *console.Console) {
	activeConsole = cons
	kfmt.SetOutputSink(cons)
}
