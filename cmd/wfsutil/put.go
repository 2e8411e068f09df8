package main

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <image> <src> <path>",
	Short: "Copy a host file in as a new wFS entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		v, dev, err := openVFS(args[0])
		if err != nil {
			return err
		}
		defer dev.Close()

		dirPath, name := path.Split(strings.TrimSuffix(args[2], "/"))
		parent, err := resolve(v, strings.TrimSuffix(dirPath, "/"))
		if err != nil {
			return err
		}

		n, err := v.CreateNode(parent.ID, name, 0, 0, deviceName)
		if err != nil {
			return err
		}
		if err := n.Open(v); err != nil {
			return err
		}
		defer n.Close(v)

		// write in <=500-byte chunks the way a kernel shell streaming a
		// file off a slower collaborator would, rather than one big body.
		const chunk = 500
		if len(data) == 0 {
			return nil
		}
		if err := n.Write(v, data[:min(chunk, len(data))]); err != nil {
			return err
		}
		for off := chunk; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			if err := n.Append(v, data[off:end]); err != nil {
				return err
			}
		}
		return nil
	},
}
