package wfs

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/ws-kj/wfs/block"
)

func attachLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testFS(t *testing.T, sectors uint64) (*FS, *block.MemDevice) {
	t.Helper()
	dev := block.NewMemDevice(sectors)
	fsys, err := Mount(dev, attachLogger())
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return fsys, dev
}

func TestFormatProducesSignatureAndRoot(t *testing.T) {
	fsys, dev := testFS(t, 256)

	var sector [SectorSize]byte
	if err := dev.ReadSector(InfoSector, sector[:]); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(sector[1:9], infoblockSig[:]) {
		t.Fatalf("missing superblock signature after format")
	}
	if fsys.sb.blocks != 256 || fsys.sb.files != 1 || fsys.sb.finalEntry != RootSector {
		t.Fatalf("unexpected superblock after format: %+v", fsys.sb)
	}

	root, err := fsys.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if root.ID != RootID || !root.Attributes.IsDir() || root.NextEntry != EndOfChain {
		t.Fatalf("unexpected root entry: %+v", root)
	}
}

func TestMountExistingPreservesState(t *testing.T) {
	dev := block.NewMemDevice(64)
	if _, err := Mount(dev, attachLogger()); err != nil {
		t.Fatalf("first mount: %v", err)
	}
	fsys2, err := Mount(dev, attachLogger())
	if err != nil {
		t.Fatalf("remount: %v", err)
	}
	if fsys2.sb.files != 1 {
		t.Fatalf("remount lost superblock state: %+v", fsys2.sb)
	}
}

func TestRoundTripWriteReadAcrossMultipleSectors(t *testing.T) {
	fsys, _ := testFS(t, 64)
	data := bytes.Repeat([]byte("abcdefghij"), 200) // 2000 bytes, >500 so multi-sector
	entry, err := fsys.CreateEntry("f", RootID, 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fsys.Write(&entry, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fsys.Read(&entry)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestAppendAssociativity(t *testing.T) {
	fsys, _ := testFS(t, 64)
	a := []byte("hello\n")
	b := []byte("world\n")

	e1, err := fsys.CreateEntry("f1", RootID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fsys.Write(&e1, a); err != nil {
		t.Fatal(err)
	}
	if err := fsys.Append(&e1, b); err != nil {
		t.Fatal(err)
	}
	got1, err := fsys.Read(&e1)
	if err != nil {
		t.Fatal(err)
	}

	e2, err := fsys.CreateEntry("f2", RootID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fsys.Write(&e2, append(append([]byte{}, a...), b...)); err != nil {
		t.Fatal(err)
	}
	got2, err := fsys.Read(&e2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got1, got2) {
		t.Fatalf("append not associative with write: %q vs %q", got1, got2)
	}
	if len(got1) != 12 {
		t.Fatalf("expected 12 bytes, got %d", len(got1))
	}
}

func TestEntryListConsistency(t *testing.T) {
	fsys, _ := testFS(t, 64)
	var last FileEntry
	for i := 0; i < 5; i++ {
		e, err := fsys.CreateEntry(string(rune('a'+i)), RootID, 0, 0)
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		last = e
	}
	if fsys.sb.finalEntry != last.Location {
		t.Fatalf("final_entry %d != last created entry location %d", fsys.sb.finalEntry, last.Location)
	}
	final, err := fsys.findEntry(last.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.NextEntry != EndOfChain {
		t.Fatalf("final_entry's own next_entry should be END_OF_CHAIN, got %#x", final.NextEntry)
	}
}

func TestDeleteUnlinksFromParentBody(t *testing.T) {
	fsys, _ := testFS(t, 64)
	e, err := fsys.CreateEntry("doomed", RootID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	root, err := fsys.Root()
	if err != nil {
		t.Fatal(err)
	}
	children, err := fsys.Children(&root)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 {
		t.Fatalf("expected 1 child before delete, got %d", len(children))
	}

	if err := fsys.DeleteEntry(&e); err != nil {
		t.Fatal(err)
	}

	root2, err := fsys.Root()
	if err != nil {
		t.Fatal(err)
	}
	children2, err := fsys.Children(&root2)
	if err != nil {
		t.Fatal(err)
	}
	if len(children2) != 0 {
		t.Fatalf("expected 0 children after delete, got %d", len(children2))
	}
	if _, err := fsys.FindEntry(e.ID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound after delete, got %v", err)
	}
}

func TestCreateUnderNonDirectoryFails(t *testing.T) {
	fsys, _ := testFS(t, 64)
	file, err := fsys.CreateEntry("notadir", RootID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fsys.CreateEntry("child", file.ID, 0, 0); !errors.Is(err, ErrParentNotDirectory) {
		t.Fatalf("expected ErrParentNotDirectory, got %v", err)
	}
}

func TestInvalidNameRejected(t *testing.T) {
	fsys, _ := testFS(t, 64)
	if _, err := fsys.CreateEntry("has space", RootID, 0, 0); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestRecursiveDirectoryDelete(t *testing.T) {
	fsys, _ := testFS(t, 64)
	dir, err := fsys.CreateEntry("dir", RootID, AttrDIR, 0)
	if err != nil {
		t.Fatal(err)
	}
	child, err := fsys.CreateEntry("child", dir.ID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := fsys.Write(&child, []byte("data")); err != nil {
		t.Fatal(err)
	}

	if err := fsys.DeleteEntry(&dir); err != nil {
		t.Fatalf("recursive delete: %v", err)
	}
	if _, err := fsys.FindEntry(child.ID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected child gone after parent delete, got %v", err)
	}
}
