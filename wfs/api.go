package wfs

// This file is the package's exported surface: each method takes the
// superblock lock (WFS_INFO, innermost in the vfs lock ordering) for its
// duration and dispatches to the unexported algorithms in entry.go,
// chain.go and directory.go.

// Root returns the entry at the well-known root location.
func (fsys *FS) Root() (FileEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.findEntry(RootID)
}

// FindEntry implements find_entry: walk the global entry chain for id.
func (fsys *FS) FindEntry(id uint64) (FileEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.findEntry(id)
}

// FindEntryByName implements find_entry_by_name against parentID's
// directory body.
func (fsys *FS) FindEntryByName(parentID uint64, name string) (FileEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.findEntryByName(parentID, name)
}

// CreateEntry implements create_entry.
func (fsys *FS) CreateEntry(name string, parentID uint64, attrs Attr, owner uint8) (FileEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.createEntry(name, parentID, attrs, owner)
}

// DeleteEntry implements delete_entry, including recursive directory delete.
func (fsys *FS) DeleteEntry(entry *FileEntry) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.deleteEntry(entry)
}

// Read implements §4.C read(entry).
func (fsys *FS) Read(entry *FileEntry) ([]byte, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.readBody(entry)
}

// Write implements §4.C write(entry, buf), mutating entry's Size/StartSec
// in place to reflect the new body.
func (fsys *FS) Write(entry *FileEntry, buf []byte) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.writeBody(entry, buf)
}

// Append implements §4.C append(entry, buf).
func (fsys *FS) Append(entry *FileEntry, buf []byte) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.appendBody(entry, buf)
}

// Children implements §4.D enumeration for a directory entry.
func (fsys *FS) Children(dir *FileEntry) ([]FileEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.readChildren(dir)
}
