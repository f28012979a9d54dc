package elfs

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
)

// FileSystem is the facade owning the image handle, superblock, bitmap and
// current working directory. All mutations persist inode and directory state
// immediately; the bitmap persists on Flush and Close.
//
// The engine is single-threaded and blocking. One FileSystem instance serves
// exactly one client at a time.
type FileSystem struct {
	dev   *BlockDevice
	sb    Superblock
	alloc *BlockAllocator

	cwdInode uint32
	cwdStack []uint32
	cwdPath  string
}

// Open mounts an image stream. The superblock magic gates the mount.
func Open(stream io.ReadWriteSeeker) (*FileSystem, error) {
	dev := NewBlockDevice(stream)

	block0 := make([]byte, BlockSize)
	if err := dev.ReadBlock(0, block0); err != nil {
		return nil, err
	}
	sb, err := DeserializeSuperblock(block0)
	if err != nil {
		return nil, err
	}

	alloc, err := LoadBlockAllocator(dev, sb)
	if err != nil {
		return nil, err
	}

	return &FileSystem{
		dev:      dev,
		sb:       sb,
		alloc:    alloc,
		cwdInode: sb.RootInodeID,
		cwdPath:  "/",
	}, nil
}

// Superblock returns a copy of the mounted superblock.
func (fs *FileSystem) Superblock() Superblock {
	return fs.sb
}

// Flush writes back the bitmap if it's dirty.
func (fs *FileSystem) Flush() error {
	return fs.alloc.Flush(fs.dev)
}

// Close flushes pending state and closes the image stream if it supports
// closing. The FileSystem must not be used afterwards.
func (fs *FileSystem) Close() error {
	var result *multierror.Error

	result = multierror.Append(result, fs.Flush())
	if closer, ok := fs.dev.Stream().(io.Closer); ok {
		if err := closer.Close(); err != nil {
			result = multierror.Append(result, ErrIOFailed.WrapError(err))
		}
	}
	return result.ErrorOrNil()
}

////////////////////////////////////////////////////////////////////////////////
// Inode store

// inodeOffset returns the byte offset of an inode slot. Inode records are
// packed back to back and may straddle block boundaries.
func (fs *FileSystem) inodeOffset(id uint32) int64 {
	return int64(fs.sb.InodeStart)*BlockSize + int64(id)*InodeSize
}

// ReadInode reads one inode-table slot.
func (fs *FileSystem) ReadInode(id uint32) (Inode, error) {
	if id >= fs.sb.InodeCount {
		return Inode{}, ErrOutOfRange.WithMessage(
			fmt.Sprintf("inode %d not in [0, %d)", id, fs.sb.InodeCount))
	}

	record := make([]byte, InodeSize)
	if err := fs.dev.readAt(fs.inodeOffset(id), record); err != nil {
		return Inode{}, err
	}
	return DeserializeInode(record), nil
}

// WriteInode persists one inode-table slot.
func (fs *FileSystem) WriteInode(id uint32, ino Inode) error {
	if id >= fs.sb.InodeCount {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf("inode %d not in [0, %d)", id, fs.sb.InodeCount))
	}
	return fs.dev.writeAt(fs.inodeOffset(id), ino.Serialize())
}

// AllocInode returns the id of the first free slot. Slot 0 is the root and
// never considered. The slot is not initialized; callers fill it in and
// persist it with WriteInode.
func (fs *FileSystem) AllocInode() (uint32, error) {
	for id := uint32(1); id < fs.sb.InodeCount; id++ {
		ino, err := fs.ReadInode(id)
		if err != nil {
			return 0, err
		}
		if ino.IsFree() {
			return id, nil
		}
	}
	return 0, ErrNoFreeInode
}

// FreeInode releases every data block reachable from the inode, then resets
// the slot to free. Freeing blocks is best-effort: individual failures are
// collected and the walk continues, so one bad pointer can't strand the
// rest of the blocks.
func (fs *FileSystem) FreeInode(id uint32) error {
	ino, err := fs.ReadInode(id)
	if err != nil {
		return err
	}

	var result *multierror.Error
	collect := func(errs ...error) {
		result = multierror.Append(result, errs...)
	}
	fs.releaseInodeBlocks(&ino, collect)

	ino.FileSize = 0
	ino.FileType = TypeFile
	ino.LinkCount = 0
	if err := fs.WriteInode(id, ino); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// releaseInodeBlocks frees all reachable data and pointer blocks and zeroes
// the pointer fields. Errors are reported through `collect` and do not stop
// the walk.
func (fs *FileSystem) releaseInodeBlocks(ino *Inode, collect func(...error)) {
	freeBlock := func(abs uint32) {
		if abs == 0 {
			return
		}
		if err := fs.FreeBlock(abs); err != nil {
			collect(err)
		}
	}

	for i, abs := range ino.SingleDirects {
		freeBlock(abs)
		ino.SingleDirects[i] = 0
	}

	if ino.SingleIndirect != 0 {
		if pointers, err := fs.readPointerBlock(ino.SingleIndirect); err != nil {
			collect(err)
		} else {
			for _, abs := range pointers {
				freeBlock(abs)
			}
		}
		freeBlock(ino.SingleIndirect)
		ino.SingleIndirect = 0
	}

	if ino.DoubleIndirect != 0 {
		if level1, err := fs.readPointerBlock(ino.DoubleIndirect); err != nil {
			collect(err)
		} else {
			for _, level2Block := range level1 {
				if level2Block == 0 {
					continue
				}
				if level2, err := fs.readPointerBlock(level2Block); err != nil {
					collect(err)
				} else {
					for _, abs := range level2 {
						freeBlock(abs)
					}
				}
				freeBlock(level2Block)
			}
		}
		freeBlock(ino.DoubleIndirect)
		ino.DoubleIndirect = 0
	}
}

////////////////////////////////////////////////////////////////////////////////
// Block allocation

// AllocBlock reserves one data block and returns its absolute index.
func (fs *FileSystem) AllocBlock() (uint32, error) {
	return fs.alloc.Alloc()
}

// FreeBlock returns a data block to the free pool.
func (fs *FileSystem) FreeBlock(abs uint32) error {
	return fs.alloc.Free(abs)
}
