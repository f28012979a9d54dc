// Package shell maps line-oriented commands onto the filesystem engine and
// renders engine results as the fixed textual vocabulary the assignment
// defines (OK, FILE NOT FOUND, PATH NOT FOUND, EXIST, NOT EMPTY,
// NAME TOO LONG, CANNOT CREATE FILE). All output goes to one stream.
package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrell3n/elfs"
)

// Context carries the state one interactive session owns: the image path,
// the mounted filesystem (nil until a valid image is opened or formatted)
// and the output stream.
type Context struct {
	ImagePath string
	FS        *elfs.FileSystem
	Out       io.Writer
}

// NewContext builds a session context. `fs` may be nil for an image that
// hasn't been formatted yet.
func NewContext(imagePath string, fs *elfs.FileSystem, out io.Writer) *Context {
	return &Context{ImagePath: imagePath, FS: fs, Out: out}
}

// CloseFS flushes and closes the mounted filesystem, if any.
func (ctx *Context) CloseFS() {
	if ctx.FS == nil {
		return
	}
	ctx.FS.Close()
	ctx.FS = nil
}

func (ctx *Context) printf(format string, args ...any) {
	fmt.Fprintf(ctx.Out, format+"\n", args...)
}

type handler func(ctx *Context, argv []string)

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"format":  handleFormat,
		"cd":      handleCd,
		"pwd":     handlePwd,
		"ls":      handleLs,
		"mkdir":   handleMkdir,
		"rmdir":   handleRmdir,
		"cat":     handleCat,
		"cp":      handleCp,
		"mv":      handleMv,
		"rm":      handleRm,
		"info":    handleInfo,
		"incp":    handleIncp,
		"outcp":   handleOutcp,
		"slink":   handleSlink,
		"rmslink": handleRmslink,
		"statfs":  handleStatfs,
		"load":    handleLoad,
	}
}

// Dispatch executes one command line. It returns false when the session
// should end (the exit verb).
func Dispatch(ctx *Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	verb, argv := fields[0], fields[1:]
	if verb == "exit" {
		return false
	}

	h, ok := handlers[verb]
	if !ok {
		ctx.printf("UNKNOWN COMMAND")
		return true
	}
	h(ctx, argv)
	return true
}
