package elfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"
)

// Superblock describes the region layout of an image. It occupies block 0.
type Superblock struct {
	// FSSize is the image length in bytes.
	FSSize uint64
	// RootInodeID is the inode id of the root directory, always 0.
	RootInodeID uint32
	// BitmapStart and BitmapCount give the block range of the data bitmap.
	BitmapStart uint32
	BitmapCount uint32
	// BlockStart and BlockCount give the block range of the data area.
	BlockStart uint32
	BlockCount uint32
	// InodeStart is the first block of the inode table; InodeCount is the
	// number of inode slots, not blocks.
	InodeStart uint32
	InodeCount uint32
}

// InodeTableBlocks returns the number of blocks the inode table occupies.
func (sb Superblock) InodeTableBlocks() uint32 {
	return sb.BlockStart - sb.InodeStart
}

// TotalBlocks returns the number of whole blocks in the image.
func (sb Superblock) TotalBlocks() uint32 {
	return uint32(sb.FSSize / BlockSize)
}

// Serialize renders the superblock into a full block-0 buffer.
func (sb Superblock) Serialize() []byte {
	block := make([]byte, BlockSize)
	writer := bytewriter.New(block)

	binary.Write(writer, binary.LittleEndian, sb.FSSize)
	writer.Write(Magic[:])
	binary.Write(writer, binary.LittleEndian, sb.RootInodeID)
	binary.Write(writer, binary.LittleEndian, sb.BitmapStart)
	binary.Write(writer, binary.LittleEndian, sb.BitmapCount)
	binary.Write(writer, binary.LittleEndian, sb.BlockStart)
	binary.Write(writer, binary.LittleEndian, sb.BlockCount)
	binary.Write(writer, binary.LittleEndian, sb.InodeStart)
	binary.Write(writer, binary.LittleEndian, sb.InodeCount)
	return block
}

// DeserializeSuperblock parses block 0. The magic gates every mount.
func DeserializeSuperblock(block []byte) (Superblock, error) {
	if len(block) < 40 {
		return Superblock{}, ErrOutOfRange.WithMessage(
			fmt.Sprintf("superblock needs at least 40 bytes, got %d", len(block)))
	}

	var sb Superblock
	reader := bytes.NewReader(block)

	binary.Read(reader, binary.LittleEndian, &sb.FSSize)

	var magic [4]byte
	reader.Read(magic[:])
	if magic != Magic {
		return Superblock{}, ErrBadMagic
	}

	binary.Read(reader, binary.LittleEndian, &sb.RootInodeID)
	binary.Read(reader, binary.LittleEndian, &sb.BitmapStart)
	binary.Read(reader, binary.LittleEndian, &sb.BitmapCount)
	binary.Read(reader, binary.LittleEndian, &sb.BlockStart)
	binary.Read(reader, binary.LittleEndian, &sb.BlockCount)
	binary.Read(reader, binary.LittleEndian, &sb.InodeStart)
	binary.Read(reader, binary.LittleEndian, &sb.InodeCount)
	return sb, nil
}

// ComputeLayout sizes the bitmap, inode table and data area for an image of
// `fsBytes` bytes, reserving roughly one inode per `bytesPerInode` bytes.
//
// The inode estimate is corrected once so the table can't swallow the data
// area on small images, and the bitmap is sized iteratively because the
// bitmap itself reduces the data area it describes.
func ComputeLayout(fsBytes uint64, bytesPerInode uint32) (Superblock, error) {
	totalBlocks := fsBytes / BlockSize
	if totalBlocks < 4 {
		return Superblock{}, ErrBadSize.WithMessage(
			fmt.Sprintf("image of %d bytes is smaller than %d blocks", fsBytes, 4))
	}

	// Usable blocks, excluding the superblock.
	usable := totalBlocks - 1

	dataPerInode := uint64(bytesPerInode) / BlockSize
	if dataPerInode < 1 {
		dataPerInode = 1
	}

	inodes := (usable * BlockSize) / (dataPerInode*BlockSize + InodeSize)
	if inodes < 1 {
		inodes = 1
	}
	tableBlocks := (inodes*InodeSize + BlockSize - 1) / BlockSize

	if maxInodes := (usable - tableBlocks) / dataPerInode; maxInodes < inodes {
		inodes = maxInodes
		if inodes < 1 {
			inodes = 1
		}
		tableBlocks = (inodes*InodeSize + BlockSize - 1) / BlockSize
	}

	remaining := usable - tableBlocks

	bitmapBlocks := uint64(0)
	for i := 0; i < 3; i++ {
		dataBlocks := remaining - bitmapBlocks
		next := (dataBlocks + BlockSize*8 - 1) / (BlockSize * 8)
		if next == bitmapBlocks {
			break
		}
		bitmapBlocks = next
	}
	dataBlocks := remaining - bitmapBlocks

	if dataBlocks < 1 {
		return Superblock{}, ErrBadSize.WithMessage("no room for a data area")
	}

	return Superblock{
		FSSize:      fsBytes,
		RootInodeID: 0,
		BitmapStart: 1,
		BitmapCount: uint32(bitmapBlocks),
		InodeStart:  1 + uint32(bitmapBlocks),
		BlockStart:  1 + uint32(bitmapBlocks) + uint32(tableBlocks),
		BlockCount:  uint32(dataBlocks),
		InodeCount:  uint32(inodes),
	}, nil
}
