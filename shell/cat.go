package shell

import (
	"github.com/mrell3n/elfs"
)

// cat path
//
// Prints the file's content followed by a newline. Symlinks are followed.
//
// Outputs: content | FILE NOT FOUND
func handleCat(ctx *Context, argv []string) {
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

	data := make([]byte, ino.FileSize)
	if ino.FileSize > 0 {
		if err := fs.ReadFileRange(ino, 0, data); err != nil {
			ctx.printf("FILE NOT FOUND")
			return
		}
	}
	ctx.printf("%s", data)
}
