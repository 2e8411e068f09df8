package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <image> <path>",
	Short: "Dump a file's body to stdout",
	Args:  cobra.ExactArgs(2),
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
		_, err = os.Stdout.Write(body)
		return err
	},
}
