package shell

import (
	"github.com/mrell3n/elfs"
)

// rm path
//
// Removes a regular file: the directory entry is tombstoned and the inode
// freed with every data block it holds. Directories are refused.
//
// Outputs: OK | FILE NOT FOUND
func handleRm(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 1 {
		ctx.printf("FILE NOT FOUND")
		return
	}
	fs := ctx.FS

	id, err := fs.ResolvePath(argv[0])
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	ino, err := fs.ReadInode(id)
	if err != nil || ino.FileType != elfs.TypeFile {
		ctx.printf("FILE NOT FOUND")
		return
	}

	parentID, name, err := fs.ResolveParentAndName(argv[0])
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	parent, err := fs.ReadInode(parentID)
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}

	if err := fs.DirRemoveEntry(&parent, name); err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	if err := fs.FreeInode(id); err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	ctx.printf("OK")
}
