package shell

// statfs
//
// Prints filesystem statistics from the live in-memory state; the image is
// never reopened, so the numbers reflect every write of this session.
//
// Outputs: statistics | PATH NOT FOUND
func handleStatfs(ctx *Context, argv []string) {
	if ctx.FS == nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	stat, err := ctx.FS.Stat()
	if err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}

	ctx.printf("File system size: %d B", stat.FSSize)
	ctx.printf("Block size: %d B", stat.BlockSize)
	ctx.printf("Data blocks: all=%d used=%d free=%d",
		stat.TotalBlocks, stat.UsedBlocks, stat.FreeBlocks)
	ctx.printf("I-nodes: all=%d used=%d free=%d",
		stat.TotalInodes, stat.UsedInodes, stat.FreeInodes)
	ctx.printf("Directories: %d", stat.Directories)
}
