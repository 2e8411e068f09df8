// Command wfsutil is a host-side development harness for wFS images. It
// never bypasses the vfs façade — every subcommand installs the image as
// a device and drives it through the same vfs.VFS surface the kernel
// shell would use.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wfsutil",
	Short: "Inspect and manipulate wFS filesystem images from the host",
}

func init() {
	rootCmd.AddCommand(mkfsCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(rmCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("wfsutil: %v", err))
		os.Exit(1)
	}
}
