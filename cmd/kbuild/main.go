// Command kbuild is a host-side developer tool: it cross-compiles the
// freestanding cmd/kernel binary and can boot the result under QEMU. It
// never links into the kernel image itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var manifestPath string

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kbuild",
		Short: "Cross-compile and run the kernel image",
	}
	root.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "kernel.yaml", "build manifest path")

	root.AddCommand(buildCmd())
	root.AddCommand(qemuCmd())

	return root
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
