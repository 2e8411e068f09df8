package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <image> <path> <dst>",
	Short: "Copy a wFS entry's body out to a host file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, dev, err := openVFS(args[0])
		if err != nil {
			return err
		}
		defer dev.Close()

		n, err := resolve(v, args[1])
		if err != nil {
			return err
		}
		if n.IsDir() {
			return fmt.Errorf("%s is a directory", args[1])
		}
		if err := n.Open(v); err != nil {
			return err
		}
		defer n.Close(v)

		body, err := n.Read(v)
		if err != nil {
			return err
		}
		return os.WriteFile(args[2], body, 0o644)
	},
}
