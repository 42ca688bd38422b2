package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes everything kbuild needs to produce and run a kernel
// image, read from kernel.yaml instead of hand-parsing a pile of flags.
type Manifest struct {
	// Target is the Go cross-compilation target triple-equivalent, e.g.
	// "linux/amd64" with CGO disabled; the kernel never runs under the
	// host OS, but `go build` still needs a GOOS/GOARCH pair to select
	// the amd64 code generator.
	Target string `yaml:"target"`

	// LinkerScript points at the .ld file that places cmd/kernel at the
	// load address the bootloader's stage 2 jumps to and exports the
	// __kernel_start/__kernel_end symbols kernel/mem/pmm.Init needs.
	LinkerScript string `yaml:"linker_script"`

	// Output is where the linked flat kernel binary is written.
	Output string `yaml:"output"`

	QEMU QEMUConfig `yaml:"qemu"`
}

// QEMUConfig configures the `kbuild qemu` subcommand.
type QEMUConfig struct {
	Memory        string   `yaml:"memory"`
	SerialLogPath string   `yaml:"serial_log"`
	ExtraArgs     []string `yaml:"extra_args"`
}

func defaultManifest() Manifest {
	return Manifest{
		Target:       "linux/amd64",
		LinkerScript: "linker.ld",
		Output:       "build/kernel.bin",
		QEMU: QEMUConfig{
			Memory:        "256M",
			SerialLogPath: "build/serial.log",
		},
	}
}

// loadManifest reads path, falling back to defaultManifest() unmodified if
// the file doesn't exist yet, so a fresh checkout can still `kbuild build`
// without requiring a kernel.yaml first.
func loadManifest(path string) (Manifest, error) {
	m := defaultManifest()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	} else if err != nil {
		return m, err
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, err
	}
	return m, nil
}
