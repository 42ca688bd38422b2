package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/task"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "tasks",
		Help: "list the scheduler's task table",
		Run:  runTasks,
	})
}

func stateName(s task.State) string {
	switch s {
	case task.StateReady:
		return "READY"
	case task.StateRunning:
		return "RUNNING"
	case task.StateBlocked:
		return "BLOCKED"
	case task.StateSleeping:
		return "SLEEPING"
	case task.StateZombie:
		return "ZOMBIE"
	default:
		return "???"
	}
}

func runTasks(_ string) {
	count := task.Count()
	if count == 0 {
		printLine("No tasks running.")
		return
	}

	printLine("PID  State      Name")
	printLine("---  ---------  --------")
	for i := 0; i < count; i++ {
		t := task.ByIndex(i)
		if t == nil {
			continue
		}
		kfmt.Printf("%d    %s  %s\n", t.PID, stateName(t.State), t.Name)
	}
}
