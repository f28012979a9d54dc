package shell

import (
	"os"

	"github.com/mrell3n/elfs"
	"github.com/mrell3n/elfs/profiles"
)

// format SIZE
//
// SIZE is either a size string (600MB, 1GB, 4096KB, 1048576B) or the slug
// of a named image profile. Reinitializes the session's image to the
// requested size and mounts the result.
//
// Outputs: OK | CANNOT CREATE FILE
func handleFormat(ctx *Context, argv []string) {
	if len(argv) != 1 || ctx.ImagePath == "" {
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	bytesPerInode := uint32(elfs.DefaultBytesPerInode)
	sizeStr := argv[0]
	if profile, err := profiles.Get(argv[0]); err == nil {
		sizeStr = profile.Size
		if profile.BytesPerInode != 0 {
			bytesPerInode = profile.BytesPerInode
		}
	}

	fsBytes, err := elfs.ParseSize(sizeStr)
	if err != nil {
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	// Drop the open filesystem before rewriting the image under it.
	ctx.CloseFS()

	file, err := os.OpenFile(ctx.ImagePath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	fs, err := elfs.Format(file, fsBytes, bytesPerInode)
	if err != nil {
		file.Close()
		ctx.printf("CANNOT CREATE FILE")
		return
	}

	ctx.FS = fs
	ctx.printf("OK")
}
