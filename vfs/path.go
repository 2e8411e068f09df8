package vfs

import "strings"

// NodeFromLocalPath resolves path relative to parent: split on '/';
// for each component, ".." walks to the parent of the current node,
// anything else calls FindNode and descends. Duplicate, leading, and
// trailing slashes are tolerated.
func (v *VFS) NodeFromLocalPath(parent FsNode, path string) (FsNode, error) {
	current := parent
	for _, part := range splitPath(path) {
		if part == ".." {
			p, err := v.GetParent(current.ID, current.Device)
			if err != nil {
				return FsNode{}, err
			}
			current = p
			continue
		}
		n, err := v.FindNode(current.ID, part, current.Device)
		if err != nil {
			return FsNode{}, err
		}
		current = n
	}
	return current, nil
}

// NodeFromPath extracts the leading device name, looks it up, and
// resolves the remainder from that device's root.
func (v *VFS) NodeFromPath(path string) (FsNode, error) {
	trimmed := strings.TrimPrefix(path, "/")
	devName, rest, _ := strings.Cut(trimmed, "/")
	if devName == "" {
		return FsNode{}, ErrDeviceNotFound
	}
	root, err := v.GetRoot(devName)
	if err != nil {
		return FsNode{}, err
	}
	return v.NodeFromLocalPath(root, rest)
}

func splitPath(path string) []string {
	var out []string
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
