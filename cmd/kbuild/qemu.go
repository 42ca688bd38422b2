package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

func qemuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qemu",
		Short: "Boot the built kernel image under QEMU",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			return runQEMU(m)
		},
	}
	return cmd
}

func runQEMU(m Manifest) error {
	if _, err := os.Stat(m.Output); err != nil {
		return fmt.Errorf("kernel image %s not found, run 'kbuild build' first: %w", m.Output, err)
	}

	if err := os.MkdirAll(filepath.Dir(m.QEMU.SerialLogPath), 0o755); err != nil {
		return fmt.Errorf("create serial log dir: %w", err)
	}

	args := []string{
		"-kernel", m.Output,
		"-m", m.QEMU.Memory,
		"-serial", "file:" + m.QEMU.SerialLogPath,
		"-no-reboot",
	}
	args = append(args, m.QEMU.ExtraArgs...)

	qemu := exec.Command("qemu-system-x86_64", args...)
	qemu.Stdout = os.Stdout
	qemu.Stderr = os.Stderr
	qemu.Stdin = os.Stdin

	return qemu.Run()
}
