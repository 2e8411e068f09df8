package main

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <image> <path>",
	Short: "Recursively delete an entry",
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
		if err := n.Open(v); err != nil {
			return err
		}
		return n.Delete(v)
	},
}
