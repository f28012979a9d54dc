package elfs

import (
	"bytes"
	"encoding/binary"
)

// rawInode is the exact 48-byte on-disk record.
type rawInode struct {
	FileSize       uint64
	ID             uint32
	SingleDirects  [NumDirectBlocks]uint32
	SingleIndirect uint32
	DoubleIndirect uint32
	FileType       uint8
	LinkCount      uint8
	Reserved       [6]byte
}

// Inode is the in-memory form of one inode-table slot. Inodes are plain
// values; the authoritative state is always the inode-table region on disk.
type Inode struct {
	// FileSize is the object's logical length in bytes. For directories it's
	// always a multiple of DirEntrySize; for symlinks it's the target length.
	FileSize uint64
	// ID matches the slot index in the inode table.
	ID uint32
	// SingleDirects hold absolute data-block indices; 0 means unallocated.
	SingleDirects [NumDirectBlocks]uint32
	// SingleIndirect and DoubleIndirect point at pointer blocks; 0 means
	// unallocated.
	SingleIndirect uint32
	DoubleIndirect uint32
	FileType       FileType
	// LinkCount marks liveness: 0 is a free slot, anything else is live.
	LinkCount uint8
}

// IsFree reports whether the slot is unallocated.
func (ino Inode) IsFree() bool {
	return ino.LinkCount == 0
}

// IsDir reports whether the inode describes a directory.
func (ino Inode) IsDir() bool {
	return ino.FileType == TypeDirectory
}

// Serialize renders the inode into its 48-byte on-disk form.
func (ino Inode) Serialize() []byte {
	raw := rawInode{
		FileSize:       ino.FileSize,
		ID:             ino.ID,
		SingleDirects:  ino.SingleDirects,
		SingleIndirect: ino.SingleIndirect,
		DoubleIndirect: ino.DoubleIndirect,
		FileType:       uint8(ino.FileType),
		LinkCount:      ino.LinkCount,
	}

	buffer := bytes.NewBuffer(make([]byte, 0, InodeSize))
	binary.Write(buffer, binary.LittleEndian, &raw)
	return buffer.Bytes()
}

// DeserializeInode parses a 48-byte inode record.
func DeserializeInode(data []byte) Inode {
	var raw rawInode
	binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw)

	return Inode{
		FileSize:       raw.FileSize,
		ID:             raw.ID,
		SingleDirects:  raw.SingleDirects,
		SingleIndirect: raw.SingleIndirect,
		DoubleIndirect: raw.DoubleIndirect,
		FileType:       FileType(raw.FileType),
		LinkCount:      raw.LinkCount,
	}
}
