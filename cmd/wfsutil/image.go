package main

import (
	"github.com/ws-kj/wfs/block"
	"github.com/ws-kj/wfs/vfs"
)

// deviceName is the fixed registry name wfsutil mounts every image under,
// so NodeFromPath's leading "<device>/..." always resolves.
const deviceName = "img"

// openVFS mounts the image at path and returns a ready registry plus a
// closer for the underlying file.
func openVFS(path string) (*vfs.VFS, *block.FileDevice, error) {
	dev, err := block.OpenFileDevice(path)
	if err != nil {
		return nil, nil, err
	}
	v := vfs.New()
	if _, err := v.InstallDevice(deviceName, vfs.WFS, dev); err != nil {
		dev.Close()
		return nil, nil, err
	}
	return v, dev, nil
}

// resolve turns a user-facing path (without the device prefix) into a
// node, special-casing "/" and "" as the device root.
func resolve(v *vfs.VFS, path string) (vfs.FsNode, error) {
	if path == "" || path == "/" {
		return v.GetRoot(deviceName)
	}
	return v.NodeFromPath(deviceName + "/" + path)
}
