package elfs

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSize parses a human size string: a positive integer followed by an
// optional B, KB, MB or GB suffix (case-insensitive, binary multipliers).
func ParseSize(s string) (uint64, error) {
	if s == "" {
		return 0, ErrBadSize.WithMessage("empty size string")
	}

	split := len(s)
	for i, ch := range s {
		if ch < '0' || ch > '9' {
			split = i
			break
		}
	}

	digits, unit := s[:split], strings.ToUpper(s[split:])
	if digits == "" {
		return 0, ErrBadSize.WithMessage(fmt.Sprintf("no numeric prefix in %q", s))
	}
	base, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, ErrBadSize.WrapError(err)
	}
	if base == 0 {
		return 0, ErrBadSize.WithMessage("size must be positive")
	}

	var multiplier uint64
	switch unit {
	case "", "B":
		multiplier = 1
	case "KB":
		multiplier = 1024
	case "MB":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, ErrBadSize.WithMessage(fmt.Sprintf("unknown unit %q", unit))
	}
	return base * multiplier, nil
}

// Format lays a fresh filesystem onto the stream: truncate to size, write
// the superblock, zero the bitmap and inode table, install the root
// directory inode, then mount the result.
//
// Any previously opened FileSystem on the same stream must be flushed and
// dropped by the caller first.
func Format(stream io.ReadWriteSeeker, fsBytes uint64, bytesPerInode uint32) (*FileSystem, error) {
	sb, err := ComputeLayout(fsBytes, bytesPerInode)
	if err != nil {
		return nil, err
	}

	if truncator, ok := stream.(Truncator); ok {
		if err := truncator.Truncate(int64(fsBytes)); err != nil {
			return nil, ErrIOFailed.WrapError(err)
		}
	}

	dev := NewBlockDevice(stream)

	if err := dev.WriteBlock(0, sb.Serialize()); err != nil {
		return nil, err
	}

	zeroed := make([]byte, int(sb.BitmapCount)*BlockSize)
	if err := dev.WriteSpan(sb.BitmapStart, sb.BitmapCount, zeroed); err != nil {
		return nil, err
	}

	tableBlocks := sb.InodeTableBlocks()
	zeroed = make([]byte, int(tableBlocks)*BlockSize)
	if err := dev.WriteSpan(sb.InodeStart, tableBlocks, zeroed); err != nil {
		return nil, err
	}

	fs := &FileSystem{
		dev:      dev,
		sb:       sb,
		cwdInode: sb.RootInodeID,
		cwdPath:  "/",
	}
	fs.alloc, err = LoadBlockAllocator(dev, sb)
	if err != nil {
		return nil, err
	}

	root := Inode{
		ID:        sb.RootInodeID,
		FileType:  TypeDirectory,
		LinkCount: 1,
	}
	if err := fs.WriteInode(root.ID, root); err != nil {
		return nil, err
	}

	return fs, nil
}
