package shell

import (
	"github.com/mrell3n/elfs"
)

// mv src dst
//
// Moves or renames a file or directory by relinking its directory entry;
// no data blocks move. A dst that resolves to a directory means "move into
// it under basename(src)"; an existing regular file at dst is replaced.
//
// Outputs: OK | FILE NOT FOUND | PATH NOT FOUND
func handleMv(ctx *Context, argv []string) {
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
	srcParentID, srcName, err := fs.ResolveParentAndName(srcPath)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	// Destination parent and final name. A directory target means "into".
	var dstParentID uint32
	var dstName string
	if existingID, err := fs.ResolvePath(dstPath); err == nil {
		existing, err := fs.ReadInode(existingID)
		if err != nil {
			ctx.printf("PATH NOT FOUND")
			return
		}
		if existing.IsDir() {
			dstParentID = existingID
			dstName = basename(srcPath)
		} else {
			dstParentID, dstName, err = fs.ResolveParentAndName(dstPath)
			if err != nil {
				ctx.printf("PATH NOT FOUND")
				return
			}
		}
	} else {
		dstParentID, dstName, err = fs.ResolveParentAndName(dstPath)
		if err != nil {
			ctx.printf("PATH NOT FOUND")
			return
		}
	}

	dstParent, err := fs.ReadInode(dstParentID)
	if err != nil || !dstParent.IsDir() {
		ctx.printf("PATH NOT FOUND")
		return
	}

	// Collision at the destination: replace a regular file, refuse the rest.
	var replacedID uint32
	if _, existing, err := fs.DirFind(dstParent, dstName); err == nil {
		if existing.InodeID == srcID {
			ctx.printf("OK")
			return
		}
		old, err := fs.ReadInode(existing.InodeID)
		if err != nil || old.FileType != elfs.TypeFile {
			ctx.printf("PATH NOT FOUND")
			return
		}
		if err := fs.DirRemoveEntry(&dstParent, dstName); err != nil {
			ctx.printf("PATH NOT FOUND")
			return
		}
		replacedID = existing.InodeID
	}

	if err := fs.DirAddEntry(&dstParent, dstName, srcID); err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	// Unlink the source entry. Re-read the parent: when moving within one
	// directory the add above changed it on disk.
	srcParent, err := fs.ReadInode(srcParentID)
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	if err := fs.DirRemoveEntry(&srcParent, srcName); err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	if replacedID != 0 {
		fs.FreeInode(replacedID)
	}
	ctx.printf("OK")
}
