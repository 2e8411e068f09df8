package main

import (
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ws-kj/wfs/vfs"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <image> <path>",
	Short: "Create a directory entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, dev, err := openVFS(args[0])
		if err != nil {
			return err
		}
		defer dev.Close()

		dirPath, name := path.Split(strings.TrimSuffix(args[1], "/"))
		parent, err := resolve(v, strings.TrimSuffix(dirPath, "/"))
		if err != nil {
			return err
		}
		_, err = v.CreateNode(parent.ID, name, vfs.AttrDIR, 0, deviceName)
		return err
	},
}
