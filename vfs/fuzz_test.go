package vfs

import (
	"testing"

	"github.com/ws-kj/wfs/block"
)

// FuzzOperationSequence drives a sequence of create/open/write/append/
// close/delete operations against a single device and checks that no
// operation panics and that the root directory always remains
// enumerable afterward. Modeled on soypat-fat's FuzzFS: a packed 64-bit
// operation whose low bits select the op, next bits pick a target among
// previously created nodes, and the high bits size a data payload.
func FuzzOperationSequence(f *testing.F) {
	const (
		opCreateFile uint64 = iota
		opCreateDir
		opOpen
		opWrite
		opAppend
		opClose
		opDelete

		whoOff      = 4
		datasizeOff = 16
	)

	f.Add(opCreateFile, opOpen, opWrite|(100<<datasizeOff), opClose,
		opCreateDir, opCreateFile|(1<<whoOff), opOpen|(1<<whoOff),
		opAppend|(1<<whoOff)|(50<<datasizeOff), opClose|(1<<whoOff), opDelete)

	f.Fuzz(func(t *testing.T, fsop0, fsop1, fsop2, fsop3, fsop4, fsop5, fsop6, fsop7, fsop8, fsop9 uint64) {
		v := New()
		dev := block.NewMemDevice(256)
		if _, err := v.InstallDevice("disk0", WFS, dev); err != nil {
			t.Fatalf("install: %v", err)
		}
		root, err := v.GetRoot("disk0")
		if err != nil {
			t.Fatalf("root: %v", err)
		}

		var nodes []FsNode
		ops := [...]uint64{fsop0, fsop1, fsop2, fsop3, fsop4, fsop5, fsop6, fsop7, fsop8, fsop9}
		nameFor := func(i int) string { return string(rune('a' + (i % 26))) }

		pick := func(who uint8) *FsNode {
			if len(nodes) == 0 {
				return nil
			}
			return &nodes[int(who)%len(nodes)]
		}

		for i, packed := range ops {
			op := packed & 0xf
			who := uint8(packed>>whoOff) & 0xf
			datasize := uint16(packed >> datasizeOff)
			data := make([]byte, datasize%2048)
			for j := range data {
				data[j] = byte(i + j)
			}

			switch op {
			case opCreateFile, opCreateDir:
				attrs := Attr(0)
				if op == opCreateDir {
					attrs = AttrDIR
				}
				n, err := v.CreateNode(root.ID, nameFor(len(nodes)), attrs, 0, "disk0")
				if err == nil {
					nodes = append(nodes, n)
				}
			case opOpen:
				if n := pick(who); n != nil {
					_ = n.Open(v)
				}
			case opWrite:
				if n := pick(who); n != nil && !n.IsDir() {
					_ = n.Write(v, data)
				}
			case opAppend:
				if n := pick(who); n != nil && !n.IsDir() {
					_ = n.Append(v, data)
				}
			case opClose:
				if n := pick(who); n != nil {
					_ = n.Close(v)
				}
			case opDelete:
				if n := pick(who); n != nil {
					if !n.open {
						_ = n.Open(v)
					}
					_ = n.Delete(v)
				}
			}
		}

		// Invariant: the root directory is always enumerable and every
		// surviving child resolves back to a live entry.
		children, err := v.GetChildren(root)
		if err != nil {
			t.Fatalf("root no longer enumerable: %v", err)
		}
		for _, c := range children {
			if _, err := v.FindNodeByID(c.ID, "disk0"); err != nil {
				t.Fatalf("child %d listed but not findable: %v", c.ID, err)
			}
		}
	})
}
