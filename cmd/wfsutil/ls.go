package main

import (
	"os"
	"strconv"

	"github.com/sisatech/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ws-kj/wfs/vfs"
)

var lsCmd = &cobra.Command{
	Use:   "ls <image> [path]",
	Short: "List a directory's children",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 1 {
			path = args[1]
		}

		v, dev, err := openVFS(args[0])
		if err != nil {
			return err
		}
		defer dev.Close()

		n, err := resolve(v, path)
		if err != nil {
			return err
		}
		children, err := v.GetChildren(n)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"name", "id", "attrs", "size"})
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		for _, c := range children {
			table.Append([]string{
				c.Name,
				strconv.FormatUint(c.ID, 10),
				attrString(c.Attributes),
				strconv.FormatUint(c.Size, 10),
			})
		}
		table.Render()
		return nil
	},
}

func attrString(a vfs.Attr) string {
	out := []byte("----")
	if a.IsDir() {
		out[0] = 'd'
	}
	if a.IsReadonly() {
		out[1] = 'r'
	}
	if a.IsSystem() {
		out[2] = 's'
	}
	if a.IsHidden() {
		out[3] = 'h'
	}
	return string(out)
}
