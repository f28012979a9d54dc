package shell

// cd [path]
//
// With no argument, changes to the root directory.
//
// Outputs: OK | PATH NOT FOUND
func handleCd(ctx *Context, argv []string) {
	if ctx.FS == nil || len(argv) > 1 {
		ctx.printf("PATH NOT FOUND")
		return
	}

	target := "/"
	if len(argv) == 1 {
		target = argv[0]
	}

	if err := ctx.FS.Cd(target); err != nil {
		ctx.printf("PATH NOT FOUND")
		return
	}
	ctx.printf("OK")
}
