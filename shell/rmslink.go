package shell

import (
	"github.com/mrell3n/elfs"
)

// rmslink path
//
// Removes a symbolic link without dereferencing it. Anything that isn't a
// symlink is left alone.
//
// Outputs: OK | FILE NOT FOUND
func handleRmslink(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 1 {
		ctx.printf("FILE NOT FOUND")
		return
	}
	fs := ctx.FS

	// Parent+name resolution only, so the link itself is never followed.
	parentID, name, err := fs.ResolveParentAndName(argv[0])
	if err != nil || name == "" {
		ctx.printf("FILE NOT FOUND")
		return
	}
	parent, err := fs.ReadInode(parentID)
	if err != nil || !parent.IsDir() {
		ctx.printf("FILE NOT FOUND")
		return
	}

	_, entry, err := fs.DirFind(parent, name)
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	link, err := fs.ReadInode(entry.InodeID)
	if err != nil || link.FileType != elfs.TypeSymlink {
		ctx.printf("FILE NOT FOUND")
		return
	}

	if err := fs.DirRemoveEntry(&parent, name); err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	if err := fs.FreeInode(entry.InodeID); err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	ctx.printf("OK")
}
