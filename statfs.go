package elfs

// Stat reports filesystem-wide statistics from the live in-memory bitmap
// and a scan of the inode table. The bitmap is flushed first; the image is
// never reopened, so the numbers always reflect this instance's writes.
func (fs *FileSystem) Stat() (FSStat, error) {
	if err := fs.Flush(); err != nil {
		return FSStat{}, err
	}

	used := fs.alloc.UsedBlocks()

	stat := FSStat{
		FSSize:      fs.sb.FSSize,
		BlockSize:   BlockSize,
		TotalBlocks: fs.sb.BlockCount,
		UsedBlocks:  used,
		FreeBlocks:  fs.sb.BlockCount - used,
		TotalInodes: fs.sb.InodeCount,
	}

	for id := uint32(0); id < fs.sb.InodeCount; id++ {
		ino, err := fs.ReadInode(id)
		if err != nil {
			return FSStat{}, err
		}
		if ino.IsFree() {
			continue
		}
		stat.UsedInodes++
		if ino.IsDir() {
			stat.Directories++
		}
	}
	stat.FreeInodes = stat.TotalInodes - stat.UsedInodes

	return stat, nil
}

// CountSoftLinks counts the live symlink inodes whose stored target
// currently resolves to `target`. The count is computed by scanning, never
// stored; broken links are skipped.
func (fs *FileSystem) CountSoftLinks(target uint32) (int, error) {
	count := 0
	for id := uint32(0); id < fs.sb.InodeCount; id++ {
		ino, err := fs.ReadInode(id)
		if err != nil {
			return 0, err
		}
		if ino.IsFree() || ino.FileType != TypeSymlink {
			continue
		}

		linkTarget, err := fs.ReadlinkTarget(id)
		if err != nil {
			continue
		}
		if resolved, err := fs.ResolvePath(linkTarget); err == nil && resolved == target {
			count++
		}
	}
	return count, nil
}
