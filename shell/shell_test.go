package shell

import (
	"testing"

	"github.com/KibaOfficial/KiOS/device/keyboard"
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
)

func resetForTest() {
	registry = nil
	historyCount = 0
	for i := range history {
		history[i] = ""
	}
}

func TestExecuteDispatchesRegisteredCommand(t *testing.T) {
	resetForTest()
	var gotArgs string
	Register(Command{Name: "echo", Help: "echo args", Run: func(args string) { gotArgs = args }})

	execute("echo  hello world")
	if gotArgs != "hello world" {
		t.Fatalf("expected args %q; got %q", "hello world", gotArgs)
	}
}

func TestExecuteUnknownCommandReportsError(t *testing.T) {
	resetForTest()
	var out string
	writeFn = func(format string, args ...interface{}) { out += format }
	defer func() { writeFn = kfmt.Printf }()

	execute("bogus")
	if out == "" {
		t.Fatal("expected an error message for an unknown command")
	}
}

func TestExecuteIgnoresBlankLine(t *testing.T) {
	resetForTest()
	called := false
	Register(Command{Name: "", Run: func(string) { called = true }})
	execute("   ")
	if called {
		t.Fatal("expected a blank line to dispatch nothing")
	}
}

func TestAddToHistorySkipsConsecutiveDuplicates(t *testing.T) {
	resetForTest()
	addToHistory("help")
	addToHistory("help")
	if historyCount != 1 {
		t.Fatalf("expected consecutive duplicate commands to be deduped; got count %d", historyCount)
	}
}

func TestAddToHistorySkipsEmpty(t *testing.T) {
	resetForTest()
	addToHistory("")
	if historyCount != 0 {
		t.Fatalf("expected empty command to be skipped; got count %d", historyCount)
	}
}

func TestReadLineBuildsLineFromKeystrokes(t *testing.T) {
	resetForTest()
	defer func() {
		getCharFn = keyboard.GetChar
		writeFn = kfmt.Printf
	}()

	input := []byte("hi\n")
	idx := 0
	getCharFn = func() byte {
		c := input[idx]
		idx++
		return c
	}
	writeFn = func(string, ...interface{}) {}

	got := readLine()
	if got != "hi" {
		t.Fatalf("expected %q; got %q", "hi", got)
	}
}

func TestReadLineBackspaceRemovesLastChar(t *testing.T) {
	resetForTest()
	defer func() {
		getCharFn = keyboard.GetChar
		writeFn = kfmt.Printf
	}()

	input := []byte("hix\b\n")
	idx := 0
	getCharFn = func() byte {
		c := input[idx]
		idx++
		return c
	}
	writeFn = func(string, ...interface{}) {}

	got := readLine()
	if got != "hi" {
		t.Fatalf("expected backspace to remove the trailing char; got %q", got)
	}
}

func TestReadLineEscapeClearsLine(t *testing.T) {
	resetForTest()
	defer func() {
		getCharFn = keyboard.GetChar
		writeFn = kfmt.Printf
	}()

	input := append([]byte("junk"), escChar)
	input = append(input, []byte("ok\n")...)
	idx := 0
	getCharFn = func() byte {
		c := input[idx]
		idx++
		return c
	}
	writeFn = func(string, ...interface{}) {}

	got := readLine()
	if got != "ok" {
		t.Fatalf("expected escape to clear prior input; got %q", got)
	}
}
