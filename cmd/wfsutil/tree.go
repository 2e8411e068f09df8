package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ws-kj/wfs/vfs"
)

// treeReport is a box-drawing tree renderer grounded on imagetools'
// TreeReport: a name plus children, rendered with "├──"/"└──" connectors.
type treeReport struct {
	Name     string
	Children []treeReport
}

func (t *treeReport) String() string {
	out := t.Name + "\n"
	for i := range t.Children {
		out = t.Children[i].render(out, 0, i == len(t.Children)-1)
	}
	return strings.TrimSpace(out)
}

func (t *treeReport) render(out string, depth int, last bool) string {
	var prefix string
	if depth > 0 {
		prefix = "│" + strings.Repeat("    ", depth)
	}
	if last {
		out = fmt.Sprintf("%s%s└── %s\n", out, prefix, t.Name)
	} else {
		out = fmt.Sprintf("%s%s├── %s\n", out, prefix, t.Name)
	}
	for i := range t.Children {
		out = t.Children[i].render(out, depth+1, i == len(t.Children)-1)
	}
	return out
}

func buildTree(v *vfs.VFS, n vfs.FsNode) (treeReport, error) {
	report := treeReport{Name: n.Name}
	if report.Name == "" {
		report.Name = "/"
	}
	if !n.IsDir() {
		return report, nil
	}
	children, err := v.GetChildren(n)
	if err != nil {
		return treeReport{}, err
	}
	for _, c := range children {
		child, err := buildTree(v, c)
		if err != nil {
			return treeReport{}, err
		}
		report.Children = append(report.Children, child)
	}
	return report, nil
}

var treeCmd = &cobra.Command{
	Use:   "tree <image> [path]",
	Short: "Recursive tree view of a directory",
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
		report, err := buildTree(v, n)
		if err != nil {
			return err
		}
		fmt.Println(report.String())
		return nil
	},
}
