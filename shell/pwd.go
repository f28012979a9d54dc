package shell

// pwd
//
// Prints the absolute display path of the working directory. Without a
// mounted filesystem the working directory is the root.
func handlePwd(ctx *Context, argv []string) {
	if ctx.FS == nil {
		ctx.printf("/")
		return
	}
	ctx.printf("%s", ctx.FS.Pwd())
}
