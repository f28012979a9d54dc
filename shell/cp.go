package shell

import (
	"strings"

	"github.com/mrell3n/elfs"
)

// cp src dst
//
// Copies a regular file. An existing regular file at dst is replaced, but
// its directory entry is swapped only after the copy is fully written; on
// any failure the fresh inode is freed and the old entry kept.
//
// Outputs: OK | FILE NOT FOUND | PATH NOT FOUND | NAME TOO LONG
func handleCp(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 2 {
		ctx.printf("PATH NOT FOUND")
		return
	}
	fs := ctx.FS
	srcPath, dstPath := argv[0], argv[1]

	srcID, err := fs.ResolvePath(srcPath)
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	src, err := fs.ReadInode(srcID)
	if err != nil || src.FileType != elfs.TypeFile {
		ctx.printf("FILE NOT FOUND")
		return
	}

	data := make([]byte, src.FileSize)
	if src.FileSize > 0 {
		if err := fs.ReadFileRange(src, 0, data); err != nil {
			ctx.printf("FILE NOT FOUND")
			return
		}
	}

	// Copying onto a directory is refused.
	if dstPath == "." || dstPath == ".." || strings.HasSuffix(dstPath, "/") {
		ctx.printf("PATH NOT FOUND")
		return
	}
	if id, err := fs.ResolvePath(dstPath); err == nil {
		if ino, err := fs.ReadInode(id); err == nil && ino.IsDir() {
			ctx.printf("PATH NOT FOUND")
			return
		}
	}

	parentID, name, err := fs.ResolveParentAndName(dstPath)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	if name == "." || name == ".." {
		ctx.printf("PATH NOT FOUND")
		return
	}
	if len(name) > elfs.DirNameLen {
		ctx.printf("NAME TOO LONG")
		return
	}

	parent, err := fs.ReadInode(parentID)
	if err != nil || !parent.IsDir() {
		ctx.printf("PATH NOT FOUND")
		return
	}

	var oldID uint32
	replacing := false
	if _, existing, err := fs.DirFind(parent, name); err == nil {
		if existing.InodeID == srcID {
			// cp file onto itself is a no-op.
			ctx.printf("OK")
			return
		}
		old, err := fs.ReadInode(existing.InodeID)
		if err != nil || old.FileType != elfs.TypeFile {
			ctx.printf("PATH NOT FOUND")
			return
		}
		oldID = existing.InodeID
		replacing = true
	}

	newID, err := writeNewFile(fs, data)
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}

	if replacing {
		if err := fs.DirRemoveEntry(&parent, name); err != nil {
			fs.FreeInode(newID)
			ctx.printf("PATH NOT FOUND")
			return
		}
	}
	if err := fs.DirAddEntry(&parent, name, newID); err != nil {
		if replacing {
			fs.DirAddEntry(&parent, name, oldID)
		}
		fs.FreeInode(newID)
		ctx.printf("PATH NOT FOUND")
		return
	}
	if replacing {
		fs.FreeInode(oldID)
	}
	ctx.printf("OK")
}

// writeNewFile allocates a fresh regular-file inode holding `data`. On any
// failure the inode is freed again.
func writeNewFile(fs *elfs.FileSystem, data []byte) (uint32, error) {
	id, err := fs.AllocInode()
	if err != nil {
		return 0, err
	}

	ino := elfs.Inode{ID: id, FileType: elfs.TypeFile, LinkCount: 1}
	if err := fs.WriteInode(id, ino); err != nil {
		fs.FreeInode(id)
		return 0, err
	}
	if len(data) > 0 {
		if err := fs.WriteFileRange(&ino, 0, data); err != nil {
			fs.FreeInode(id)
			return 0, err
		}
	}
	return id, nil
}
