package elfs

import (
	"encoding/binary"
	"fmt"
)

// maxFileBlocks is the highest addressable logical block count: five direct
// pointers, one single-indirect tree and one double-indirect tree.
const maxFileBlocks = NumDirectBlocks + PointersPerBlock + PointersPerBlock*PointersPerBlock

// readPointerBlock loads an indirect block as a slice of block pointers.
func (fs *FileSystem) readPointerBlock(abs uint32) ([]uint32, error) {
	raw := make([]byte, BlockSize)
	if err := fs.dev.ReadBlock(abs, raw); err != nil {
		return nil, err
	}

	pointers := make([]uint32, PointersPerBlock)
	for i := range pointers {
		pointers[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return pointers, nil
}

// writePointerSlot updates a single entry of an indirect block in place.
func (fs *FileSystem) writePointerSlot(abs uint32, slot int, value uint32) error {
	raw := make([]byte, BlockSize)
	if err := fs.dev.ReadBlock(abs, raw); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(raw[slot*4:], value)
	return fs.dev.WriteBlock(abs, raw)
}

// allocPointerBlock reserves a block for use as a pointer block and zeroes
// it so every slot reads as unallocated.
func (fs *FileSystem) allocPointerBlock() (uint32, error) {
	abs, err := fs.AllocBlock()
	if err != nil {
		return 0, err
	}
	if err := fs.dev.WriteBlock(abs, make([]byte, BlockSize)); err != nil {
		return 0, err
	}
	return abs, nil
}

// blockForLogical maps logical block L to its absolute data block. A return
// of 0 means hole.
func (fs *FileSystem) blockForLogical(ino Inode, logical uint64) (uint32, error) {
	switch {
	case logical < NumDirectBlocks:
		return ino.SingleDirects[logical], nil

	case logical < NumDirectBlocks+PointersPerBlock:
		if ino.SingleIndirect == 0 {
			return 0, nil
		}
		pointers, err := fs.readPointerBlock(ino.SingleIndirect)
		if err != nil {
			return 0, err
		}
		return pointers[logical-NumDirectBlocks], nil

	case logical < maxFileBlocks:
		if ino.DoubleIndirect == 0 {
			return 0, nil
		}
		slot := logical - NumDirectBlocks - PointersPerBlock
		level1, err := fs.readPointerBlock(ino.DoubleIndirect)
		if err != nil {
			return 0, err
		}
		level2Block := level1[slot/PointersPerBlock]
		if level2Block == 0 {
			return 0, nil
		}
		level2, err := fs.readPointerBlock(level2Block)
		if err != nil {
			return 0, err
		}
		return level2[slot%PointersPerBlock], nil

	default:
		return 0, ErrFileTooLarge.WithMessage(
			fmt.Sprintf("logical block %d exceeds limit of %d", logical, maxFileBlocks))
	}
}

// getOrAllocBlock maps logical block L, allocating the data block and any
// intermediate pointer blocks on the way. Metadata describing a fresh block
// (the inode or the pointer block) is persisted before the data block is
// written, so an interrupted write can't publish a pointer to garbage it
// never reserved. Returns the absolute block and whether it already existed.
func (fs *FileSystem) getOrAllocBlock(ino *Inode, logical uint64) (uint32, bool, error) {
	switch {
	case logical < NumDirectBlocks:
		if abs := ino.SingleDirects[logical]; abs != 0 {
			return abs, true, nil
		}
		abs, err := fs.AllocBlock()
		if err != nil {
			return 0, false, err
		}
		ino.SingleDirects[logical] = abs
		if err := fs.WriteInode(ino.ID, *ino); err != nil {
			return 0, false, err
		}
		return abs, false, nil

	case logical < NumDirectBlocks+PointersPerBlock:
		if ino.SingleIndirect == 0 {
			pointerBlock, err := fs.allocPointerBlock()
			if err != nil {
				return 0, false, err
			}
			ino.SingleIndirect = pointerBlock
			if err := fs.WriteInode(ino.ID, *ino); err != nil {
				return 0, false, err
			}
		}
		return fs.getOrAllocPointerSlot(ino.SingleIndirect, int(logical-NumDirectBlocks))

	case logical < maxFileBlocks:
		if ino.DoubleIndirect == 0 {
			pointerBlock, err := fs.allocPointerBlock()
			if err != nil {
				return 0, false, err
			}
			ino.DoubleIndirect = pointerBlock
			if err := fs.WriteInode(ino.ID, *ino); err != nil {
				return 0, false, err
			}
		}

		slot := logical - NumDirectBlocks - PointersPerBlock
		level1, err := fs.readPointerBlock(ino.DoubleIndirect)
		if err != nil {
			return 0, false, err
		}
		level2Block := level1[slot/PointersPerBlock]
		if level2Block == 0 {
			level2Block, err = fs.allocPointerBlock()
			if err != nil {
				return 0, false, err
			}
			err = fs.writePointerSlot(ino.DoubleIndirect, int(slot/PointersPerBlock), level2Block)
			if err != nil {
				return 0, false, err
			}
		}
		return fs.getOrAllocPointerSlot(level2Block, int(slot%PointersPerBlock))

	default:
		return 0, false, ErrFileTooLarge.WithMessage(
			fmt.Sprintf("logical block %d exceeds limit of %d", logical, maxFileBlocks))
	}
}

// getOrAllocPointerSlot resolves one slot of a pointer block, allocating a
// data block for it if the slot is empty.
func (fs *FileSystem) getOrAllocPointerSlot(pointerBlock uint32, slot int) (uint32, bool, error) {
	pointers, err := fs.readPointerBlock(pointerBlock)
	if err != nil {
		return 0, false, err
	}
	if abs := pointers[slot]; abs != 0 {
		return abs, true, nil
	}

	abs, err := fs.AllocBlock()
	if err != nil {
		return 0, false, err
	}
	if err := fs.writePointerSlot(pointerBlock, slot, abs); err != nil {
		return 0, false, err
	}
	return abs, false, nil
}

// ReadFileRange fills `buffer` with file content starting at `offset`. The
// whole range must lie within the file: offset + len(buffer) <= FileSize.
func (fs *FileSystem) ReadFileRange(ino Inode, offset uint64, buffer []byte) error {
	end := offset + uint64(len(buffer))
	if end > ino.FileSize {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("read [%d, %d) beyond file size %d", offset, end, ino.FileSize))
	}

	blockBuf := make([]byte, BlockSize)
	cursor := offset
	written := 0
	for written < len(buffer) {
		logical := cursor / BlockSize
		within := int(cursor % BlockSize)
		take := len(buffer) - written
		if take > BlockSize-within {
			take = BlockSize - within
		}

		abs, err := fs.blockForLogical(ino, logical)
		if err != nil {
			return err
		}
		if abs == 0 {
			return ErrMissingBlock.WithMessage(
				fmt.Sprintf("inode %d has no block for logical %d", ino.ID, logical))
		}
		if err := fs.dev.ReadBlock(abs, blockBuf); err != nil {
			return err
		}

		copy(buffer[written:written+take], blockBuf[within:within+take])
		cursor += uint64(take)
		written += take
	}
	return nil
}

// WriteFileRange writes `data` at `offset`, allocating blocks as needed, and
// grows FileSize to cover the written range. On allocation exhaustion the
// writes performed so far remain and the inode reflects them; callers
// wanting all-or-nothing semantics free or truncate the inode themselves.
func (fs *FileSystem) WriteFileRange(ino *Inode, offset uint64, data []byte) error {
	blockBuf := make([]byte, BlockSize)
	cursor := offset
	consumed := 0
	for consumed < len(data) {
		logical := cursor / BlockSize
		within := int(cursor % BlockSize)
		take := len(data) - consumed
		if take > BlockSize-within {
			take = BlockSize - within
		}

		abs, existed, err := fs.getOrAllocBlock(ino, logical)
		if err != nil {
			return err
		}

		// Read-modify-write only when a partial write lands on a block whose
		// previous contents matter. Fresh blocks start out zeroed.
		partial := take != BlockSize
		if existed && partial {
			if err := fs.dev.ReadBlock(abs, blockBuf); err != nil {
				return err
			}
		} else {
			for i := range blockBuf {
				blockBuf[i] = 0
			}
		}

		copy(blockBuf[within:within+take], data[consumed:consumed+take])
		if err := fs.dev.WriteBlock(abs, blockBuf); err != nil {
			return err
		}

		cursor += uint64(take)
		consumed += take
	}

	if end := offset + uint64(len(data)); end > ino.FileSize {
		ino.FileSize = end
		if err := fs.WriteInode(ino.ID, *ino); err != nil {
			return err
		}
	}
	return nil
}

// Truncate releases every data block of the inode and resets its size to
// zero. The inode stays live.
func (fs *FileSystem) Truncate(ino *Inode) error {
	var firstErr error
	collect := func(errs ...error) {
		for _, err := range errs {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	fs.releaseInodeBlocks(ino, collect)

	ino.FileSize = 0
	if err := fs.WriteInode(ino.ID, *ino); err != nil {
		return err
	}
	return firstErr
}

// ReadlinkTarget returns the target path stored as a symlink's content.
func (fs *FileSystem) ReadlinkTarget(id uint32) (string, error) {
	ino, err := fs.ReadInode(id)
	if err != nil {
		return "", err
	}
	if ino.FileType != TypeSymlink {
		return "", ErrNotASymlink.WithMessage(
			fmt.Sprintf("inode %d has type %d", id, ino.FileType))
	}

	target := make([]byte, ino.FileSize)
	if err := fs.ReadFileRange(ino, 0, target); err != nil {
		return "", err
	}
	return string(target), nil
}
