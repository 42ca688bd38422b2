package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func buildCmd() *cobra.Command {
	var freestanding bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Cross-compile the kernel binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			return runBuild(m, freestanding)
		},
	}
	cmd.Flags().BoolVar(&freestanding, "freestanding", true, "build with the freestanding build tag")

	return cmd
}

func runBuild(m Manifest, freestanding bool) error {
	if err := os.MkdirAll(filepath.Dir(m.Output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ldflags := fmt.Sprintf("-T %s", m.LinkerScript)
	args := []string{"build", "-o", m.Output, "-ldflags", ldflags}
	if freestanding {
		args = append(args, "-tags", "freestanding")
	}
	args = append(args, "./cmd/kernel")

	goCmd := exec.Command("go", args...)
	goCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if goos, goarch, ok := strings.Cut(m.Target, "/"); ok {
		goCmd.Env = append(goCmd.Env, "GOOS="+goos, "GOARCH="+goarch)
	}
	goCmd.Stdout = os.Stdout
	goCmd.Stderr = os.Stderr

	if err := goCmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	return nil
}
