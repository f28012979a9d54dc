package shell

import (
	"github.com/mrell3n/elfs"
)

// mkdir path
//
// Creates an empty directory. Intermediate components must already exist.
//
// Outputs: OK | PATH NOT FOUND | EXIST | NAME TOO LONG
func handleMkdir(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 1 {
		ctx.printf("PATH NOT FOUND")
		return
	}
	fs := ctx.FS

	parentID, name, err := fs.ResolveParentAndName(argv[0])
	if err != nil {
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

	if _, _, err := fs.DirFind(parent, name); err == nil {
		ctx.printf("EXIST")
		return
	}

	newID, err := fs.AllocInode()
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	dir := elfs.Inode{ID: newID, FileType: elfs.TypeDirectory, LinkCount: 1}
	if err := fs.WriteInode(newID, dir); err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	if err := fs.DirAddEntry(&parent, name, newID); err != nil {
		fs.FreeInode(newID)
		ctx.printf("PATH NOT FOUND")
		return
	}
	ctx.printf("OK")
}
