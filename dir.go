package elfs

import (
	"errors"
	"fmt"
)

// A directory's file content is a packed array of 16-byte slots. Removal
// tombstones a slot instead of shifting later entries, so slot indices stay
// stable under concurrent iteration and the directory file never shrinks.

// dirSlotCount returns the number of slots in a directory's content.
func dirSlotCount(dir Inode) int {
	return int(dir.FileSize) / DirEntrySize
}

// readDirSlot reads the entry at the given slot index.
func (fs *FileSystem) readDirSlot(dir Inode, slot int) (DirectoryEntry, error) {
	raw := make([]byte, DirEntrySize)
	if err := fs.ReadFileRange(dir, uint64(slot)*DirEntrySize, raw); err != nil {
		return DirectoryEntry{}, err
	}
	return DeserializeDirectoryEntry(raw), nil
}

// writeDirSlot overwrites the entry at the given slot index.
func (fs *FileSystem) writeDirSlot(dir *Inode, slot int, entry DirectoryEntry) error {
	return fs.WriteFileRange(dir, uint64(slot)*DirEntrySize, entry.Serialize())
}

// DirFind scans the directory for a live entry with the given name and
// returns its slot index and contents. Fails with ErrNotFound if no entry
// matches and ErrNotADirectory if `dir` isn't a directory.
func (fs *FileSystem) DirFind(dir Inode, name string) (int, DirectoryEntry, error) {
	if !dir.IsDir() {
		return 0, DirectoryEntry{}, ErrNotADirectory.WithMessage(
			fmt.Sprintf("inode %d has type %d", dir.ID, dir.FileType))
	}

	for slot := 0; slot < dirSlotCount(dir); slot++ {
		entry, err := fs.readDirSlot(dir, slot)
		if err != nil {
			return 0, DirectoryEntry{}, err
		}
		if !entry.IsFree() && entry.Name() == name {
			return slot, entry, nil
		}
	}
	return 0, DirectoryEntry{}, ErrNotFound.WithMessage(
		fmt.Sprintf("no entry %q in directory %d", name, dir.ID))
}

// DirAddEntry inserts a live entry, reusing the lowest tombstone or
// appending a fresh slot. Duplicate names fail with ErrExists; empty or
// over-long names fail with ErrInvalidName.
func (fs *FileSystem) DirAddEntry(dir *Inode, name string, inodeID uint32) error {
	entry, err := NewDirectoryEntry(name, inodeID)
	if err != nil {
		return err
	}

	if _, _, err := fs.DirFind(*dir, name); err == nil {
		return ErrExists.WithMessage(
			fmt.Sprintf("entry %q already in directory %d", name, dir.ID))
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	for slot := 0; slot < dirSlotCount(*dir); slot++ {
		existing, err := fs.readDirSlot(*dir, slot)
		if err != nil {
			return err
		}
		if existing.IsFree() {
			return fs.writeDirSlot(dir, slot, entry)
		}
	}

	// No tombstone to reuse; append. WriteFileRange grows FileSize and
	// persists the inode.
	return fs.WriteFileRange(dir, dir.FileSize, entry.Serialize())
}

// DirRemoveEntry tombstones the named entry. The referenced inode is not
// touched.
func (fs *FileSystem) DirRemoveEntry(dir *Inode, name string) error {
	slot, entry, err := fs.DirFind(*dir, name)
	if err != nil {
		return err
	}

	entry.MarkFree()
	return fs.writeDirSlot(dir, slot, entry)
}

// DirIsEmpty reports whether every slot of the directory is a tombstone.
func (fs *FileSystem) DirIsEmpty(dir Inode) (bool, error) {
	if !dir.IsDir() {
		return false, ErrNotADirectory.WithMessage(
			fmt.Sprintf("inode %d has type %d", dir.ID, dir.FileType))
	}

	for slot := 0; slot < dirSlotCount(dir); slot++ {
		entry, err := fs.readDirSlot(dir, slot)
		if err != nil {
			return false, err
		}
		if !entry.IsFree() {
			return false, nil
		}
	}
	return true, nil
}

// DirEntries returns the live entries of a directory in slot order.
func (fs *FileSystem) DirEntries(dir Inode) ([]DirectoryEntry, error) {
	if !dir.IsDir() {
		return nil, ErrNotADirectory.WithMessage(
			fmt.Sprintf("inode %d has type %d", dir.ID, dir.FileType))
	}

	var entries []DirectoryEntry
	for slot := 0; slot < dirSlotCount(dir); slot++ {
		entry, err := fs.readDirSlot(dir, slot)
		if err != nil {
			return nil, err
		}
		if !entry.IsFree() {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
