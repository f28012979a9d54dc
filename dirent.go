package elfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DirNameLen is the maximum length of one directory-entry name, in bytes.
// Shorter names are NUL-terminated in the slot.
const DirNameLen = 12

// DirEntrySize is the on-disk size of one directory entry.
const DirEntrySize = 16

// DirEntryFree marks a tombstoned slot. Tombstones keep slot indices stable;
// a directory file never shrinks.
const DirEntryFree = uint32(0xFFFFFFFF)

// DirectoryEntry is one 16-byte slot of a directory's file content.
type DirectoryEntry struct {
	name    [DirNameLen]byte
	InodeID uint32
}

// NewDirectoryEntry builds a live entry. Names must be 1..DirNameLen bytes.
func NewDirectoryEntry(name string, inodeID uint32) (DirectoryEntry, error) {
	if name == "" || len(name) > DirNameLen {
		return DirectoryEntry{}, ErrInvalidName.WithMessage(
			fmt.Sprintf("name must be 1-%d bytes, got %d", DirNameLen, len(name)))
	}

	entry := DirectoryEntry{InodeID: inodeID}
	copy(entry.name[:], name)
	return entry, nil
}

// Name returns the entry name without NUL padding.
func (entry DirectoryEntry) Name() string {
	end := bytes.IndexByte(entry.name[:], 0)
	if end < 0 {
		end = DirNameLen
	}
	return string(entry.name[:end])
}

// IsFree reports whether the slot is a tombstone.
func (entry DirectoryEntry) IsFree() bool {
	return entry.InodeID == DirEntryFree
}

// MarkFree tombstones the slot. The name bytes are left as-is; readers must
// ignore them.
func (entry *DirectoryEntry) MarkFree() {
	entry.InodeID = DirEntryFree
}

// Serialize renders the entry into its 16-byte on-disk form.
func (entry DirectoryEntry) Serialize() []byte {
	out := make([]byte, DirEntrySize)
	copy(out, entry.name[:])
	binary.LittleEndian.PutUint32(out[DirNameLen:], entry.InodeID)
	return out
}

// DeserializeDirectoryEntry parses a 16-byte directory slot.
func DeserializeDirectoryEntry(data []byte) DirectoryEntry {
	var entry DirectoryEntry
	copy(entry.name[:], data[:DirNameLen])
	entry.InodeID = binary.LittleEndian.Uint32(data[DirNameLen : DirNameLen+4])
	return entry
}
