package shell

import (
	"os"

	"github.com/mrell3n/elfs"
)

// incp host_src fs_dst
//
// Copies a host file into the filesystem. The destination must not exist;
// on a write failure the fresh inode is freed again.
//
// Outputs: OK | FILE NOT FOUND | PATH NOT FOUND | NAME TOO LONG
func handleIncp(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 2 {
		ctx.printf("PATH NOT FOUND")
		return
	}
	fs := ctx.FS
	hostSrc, fsDst := argv[0], argv[1]

	data, err := os.ReadFile(hostSrc)
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}

	parentID, name, err := fs.ResolveParentAndName(fsDst)
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
		ctx.printf("PATH NOT FOUND")
		return
	}

	newID, err := writeNewFile(fs, data)
	if err != nil {
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
