package vfs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ws-kj/wfs/block"
)

func testVFS(t *testing.T, sectors uint64) (*VFS, string) {
	t.Helper()
	v := New()
	dev := block.NewMemDevice(sectors)
	if _, err := v.InstallDevice("disk0", WFS, dev); err != nil {
		t.Fatalf("install device: %v", err)
	}
	return v, "disk0"
}

// Scenario 1: create a non-directory root child, open/write/close, then
// find it by name and read it back.
func TestScenarioCreateWriteFindByName(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.CreateNode(root.ID, "HELLO", 0, 0, dev)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := n.Open(v); err != nil {
		t.Fatal(err)
	}
	if err := n.Write(v, []byte("hi")); err != nil {
		t.Fatal(err)
	}
	if err := n.Close(v); err != nil {
		t.Fatal(err)
	}

	found, err := v.FindNode(root.ID, "HELLO", dev)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Size != 2 {
		t.Fatalf("size = %d, want 2", found.Size)
	}
	if err := found.Open(v); err != nil {
		t.Fatal(err)
	}
	defer found.Close(v)
	body, err := found.Read(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "hi" {
		t.Fatalf("read = %q, want %q", body, "hi")
	}
}

// Scenario 2: a directory's children enumerate correctly, with parent_id set.
func TestScenarioGetChildren(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	d, err := v.CreateNode(root.ID, "D", AttrDIR, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	f, err := v.CreateNode(d.ID, "F", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	children, err := v.GetChildren(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].Name != "F" || children[0].ParentID != d.ID {
		t.Fatalf("unexpected children: %+v, want single F with parent %d, got %+v", children, d.ID, f)
	}
}

// Scenario 3: a 1000-byte write spans (at least) two data sectors.
func TestScenarioMultiSectorWrite(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.CreateNode(root.ID, "BIG", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Open(v); err != nil {
		t.Fatal(err)
	}
	defer n.Close(v)

	payload := bytes.Repeat([]byte{0xAA}, 1000)
	if err := n.Write(v, payload); err != nil {
		t.Fatal(err)
	}
	got, err := n.Read(v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %d bytes", len(got))
	}
}

// Scenario 4: write then append concatenates and updates size.
func TestScenarioWriteThenAppend(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.CreateNode(root.ID, "LOG", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Open(v); err != nil {
		t.Fatal(err)
	}
	defer n.Close(v)

	if err := n.Write(v, []byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if err := n.Append(v, []byte("world\n")); err != nil {
		t.Fatal(err)
	}
	if n.Size != 12 {
		t.Fatalf("size = %d, want 12", n.Size)
	}
	got, err := n.Read(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello\nworld\n" {
		t.Fatalf("read = %q", got)
	}
}

// Scenario 5: creating under a non-directory entry fails cleanly.
func TestScenarioCreateUnderNonDirectory(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	file, err := v.CreateNode(root.ID, "PLAIN", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateNode(file.ID, "CHILD", 0, 0, dev); !errors.Is(err, ErrParentNotDirectory) {
		t.Fatalf("expected ErrParentNotDirectory, got %v", err)
	}
}

// Scenario 6: deleting a directory removes its children too.
func TestScenarioDeleteDirectoryRemovesChildren(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	d, err := v.CreateNode(root.ID, "D", AttrDIR, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	f, err := v.CreateNode(d.ID, "F", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Open(v); err != nil {
		t.Fatal(err)
	}
	if err := d.Delete(v); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := v.FindNodeByID(f.ID, dev); err == nil {
		t.Fatalf("expected inner file to be gone after parent delete")
	}
}

// Open-set idempotence: a second Open on the same node fails; Close
// after any Open succeeds exactly once.
func TestOpenSetIdempotence(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.CreateNode(root.ID, "F", 0, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Open(v); err != nil {
		t.Fatal(err)
	}
	if err := n.Open(v); !errors.Is(err, ErrAlreadyOpened) {
		t.Fatalf("expected ErrAlreadyOpened, got %v", err)
	}
	if err := n.Close(v); err != nil {
		t.Fatal(err)
	}
	if err := n.Close(v); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDuplicateDeviceNameRejected(t *testing.T) {
	v, dev := testVFS(t, 16)
	if _, err := v.InstallDevice(dev, WFS, block.NewMemDevice(16)); !errors.Is(err, ErrDuplicateDevice) {
		t.Fatalf("expected ErrDuplicateDevice, got %v", err)
	}
}

func TestNodeFromPathResolvesNested(t *testing.T) {
	v, dev := testVFS(t, 64)
	root, err := v.GetRoot(dev)
	if err != nil {
		t.Fatal(err)
	}
	a, err := v.CreateNode(root.ID, "a", AttrDIR, 0, dev)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateNode(a.ID, "b", 0, 0, dev); err != nil {
		t.Fatal(err)
	}

	n, err := v.NodeFromPath("/" + dev + "//a/b/")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n.Name != "b" {
		t.Fatalf("resolved to %q, want b", n.Name)
	}
}
