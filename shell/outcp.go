package shell

import (
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/mrell3n/elfs"
)

// outcp fs_src host_dst
//
// Copies a file out of the filesystem onto the host. The host file is
// written atomically, so a failed copy never leaves a truncated file.
//
// Outputs: OK | FILE NOT FOUND | PATH NOT FOUND
func handleOutcp(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) != 2 {
		ctx.printf("PATH NOT FOUND")
		return
	}
	fs := ctx.FS
	fsSrc, hostDst := argv[0], argv[1]

	id, err := fs.ResolvePath(fsSrc)
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

	if dir := filepath.Dir(hostDst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			ctx.printf("PATH NOT FOUND")
			return
		}
	}
	if err := renameio.WriteFile(hostDst, data, 0o644); err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	ctx.printf("OK")
}
