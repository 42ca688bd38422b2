package commands

import (
	"github.com/KibaOfficial/KiOS/kernel/kfmt"
	"github.com/KibaOfficial/KiOS/kernel/pit"
	"github.com/KibaOfficial/KiOS/shell"
)

func init() {
	shell.Register(shell.Command{
		Name: "uptime",
		Help: "show system uptime",
		Run:  runUptime,
	})
}

func runUptime(_ string) {
	total := pit.UptimeSeconds()
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	kfmt.Printf("System uptime: %dh %dm %ds\n", hours, minutes, seconds)
}
