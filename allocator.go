package elfs

import (
	"fmt"

	"github.com/boljen/go-bitmap"
)

// BlockAllocator tracks free and used blocks of the data area, one bit per
// block. Bit i refers to absolute block BlockStart + i. The bitmap is a
// write-back cache: mutations mark it dirty and Flush persists it.
type BlockAllocator struct {
	bits        bitmap.Bitmap
	blockStart  uint32
	blockCount  uint32
	bitmapStart uint32
	bitmapSpan  uint32
	dirty       bool
}

// LoadBlockAllocator reads the bitmap region described by `sb` into memory.
func LoadBlockAllocator(dev *BlockDevice, sb Superblock) (*BlockAllocator, error) {
	raw := make([]byte, int(sb.BitmapCount)*BlockSize)
	if err := dev.ReadSpan(sb.BitmapStart, sb.BitmapCount, raw); err != nil {
		return nil, err
	}

	return &BlockAllocator{
		bits:        bitmap.Bitmap(raw),
		blockStart:  sb.BlockStart,
		blockCount:  sb.BlockCount,
		bitmapStart: sb.BitmapStart,
		bitmapSpan:  sb.BitmapCount,
	}, nil
}

// Alloc flips the first free bit and returns the absolute block index.
func (alloc *BlockAllocator) Alloc() (uint32, error) {
	bit, ok := alloc.findFree()
	if !ok {
		return 0, ErrNoSpaceOnDevice
	}

	alloc.bits.Set(int(bit), true)
	alloc.dirty = true
	return alloc.blockStart + bit, nil
}

// Free clears the bit for an absolute data-block index.
func (alloc *BlockAllocator) Free(abs uint32) error {
	if abs < alloc.blockStart || abs >= alloc.blockStart+alloc.blockCount {
		return ErrOutOfRange.WithMessage(
			fmt.Sprintf(
				"block %d not in data area [%d, %d)",
				abs,
				alloc.blockStart,
				alloc.blockStart+alloc.blockCount))
	}

	alloc.bits.Set(int(abs-alloc.blockStart), false)
	alloc.dirty = true
	return nil
}

// IsAllocated reports whether the absolute data-block index is in use.
func (alloc *BlockAllocator) IsAllocated(abs uint32) bool {
	if abs < alloc.blockStart || abs >= alloc.blockStart+alloc.blockCount {
		return false
	}
	return alloc.bits.Get(int(abs - alloc.blockStart))
}

// UsedBlocks counts the allocated blocks of the data area.
func (alloc *BlockAllocator) UsedBlocks() uint32 {
	used := uint32(0)
	for i := uint32(0); i < alloc.blockCount; i++ {
		if alloc.bits.Get(int(i)) {
			used++
		}
	}
	return used
}

// Dirty reports whether the in-memory bitmap is newer than the image.
func (alloc *BlockAllocator) Dirty() bool {
	return alloc.dirty
}

// Flush writes the bitmap back to the image if it's dirty.
func (alloc *BlockAllocator) Flush(dev *BlockDevice) error {
	if !alloc.dirty {
		return nil
	}
	if err := dev.WriteSpan(alloc.bitmapStart, alloc.bitmapSpan, alloc.bits); err != nil {
		return err
	}
	alloc.dirty = false
	return nil
}

// findFree scans byte-wise, skipping full bytes, and returns the lowest
// clear bit below blockCount.
func (alloc *BlockAllocator) findFree() (uint32, bool) {
	for byteIndex, b := range alloc.bits {
		if b == 0xFF {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			index := uint32(byteIndex*8 + bit)
			if index >= alloc.blockCount {
				return 0, false
			}
			if !alloc.bits.Get(int(index)) {
				return index, true
			}
		}
	}
	return 0, false
}
