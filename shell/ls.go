package shell

import (
	"strings"

	"github.com/mrell3n/elfs"
)

// ls [path]
//
// Lists a directory as one line per live entry (FILE: / DIR: / SYMLINK:
// by the entry's inode type), or prints a single line for a non-directory
// target.
//
// Outputs: listing | PATH NOT FOUND
func handleLs(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) > 1 {
		ctx.printf("PATH NOT FOUND")
		return
	}

	target := "."
	if len(argv) == 1 {
		target = argv[0]
	}

	id, err := ctx.FS.ResolvePath(target)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	ino, err := ctx.FS.ReadInode(id)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	if !ino.IsDir() {
		ctx.printf("%s %s", typeLabel(ino.FileType), basename(target))
		return
	}

	entries, err := ctx.FS.DirEntries(ino)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	for _, entry := range entries {
		child, err := ctx.FS.ReadInode(entry.InodeID)
		if err != nil {
			continue
		}
		ctx.printf("%s %s", typeLabel(child.FileType), entry.Name())
	}
}

func typeLabel(t elfs.FileType) string {
	switch t {
	case elfs.TypeDirectory:
		return "DIR:"
	case elfs.TypeSymlink:
		return "SYMLINK:"
	default:
		return "FILE:"
	}
}

// basename returns the last path component, or "/" for the root.
func basename(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
