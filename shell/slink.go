package shell

import (
	"github.com/mrell3n/elfs"
)

// slink target name
//
// Creates a symbolic link at `name` whose content is the literal target
// path. The target may be dangling. On a write failure the fresh inode is
// freed again.
//
// Outputs: OK | EXIST | PATH NOT FOUND | CANNOT CREATE FILE
func handleSlink(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 2 {
		ctx.printf("PATH NOT FOUND")
		return
	}
	fs := ctx.FS
	targetPath, linkPath := argv[0], argv[1]

	parentID, name, err := fs.ResolveParentAndName(linkPath)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	if name == "" || len(name) > elfs.DirNameLen {
		ctx.printf("PATH NOT FOUND")
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

	linkID, err := fs.AllocInode()
	if err != nil {
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	link := elfs.Inode{ID: linkID, FileType: elfs.TypeSymlink, LinkCount: 1}
	if err := fs.WriteInode(linkID, link); err != nil {
		fs.FreeInode(linkID)
		ctx.printf("CANNOT CREATE FILE")
		return
	}
	if err := fs.WriteFileRange(&link, 0, []byte(targetPath)); err != nil {
		fs.FreeInode(linkID)
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	if err := fs.DirAddEntry(&parent, name, linkID); err != nil {
		fs.FreeInode(linkID)
		ctx.printf("CANNOT CREATE FILE")
		return
	}
	ctx.printf("OK")
}
