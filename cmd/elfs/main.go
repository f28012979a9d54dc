package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mrell3n/elfs"
	"github.com/mrell3n/elfs/shell"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:      "elfs",
		Usage:     "Interactive shell for a single-file ELFS image",
		ArgsUsage: "IMAGE_PATH",
		Action:    runShell,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runShell(cliCtx *cli.Context) error {
	if cliCtx.NArg() != 1 {
		return fmt.Errorf("expected exactly one argument: the image path")
	}
	imagePath := cliCtx.Args().Get(0)

	// Mount the image if it already carries a valid superblock. A fresh or
	// foreign file just starts the session unformatted; the first `format`
	// initializes it.
	var fs *elfs.FileSystem
	if file, err := os.OpenFile(imagePath, os.O_RDWR, 0o644); err == nil {
		if mounted, err := elfs.Open(file); err == nil {
			fs = mounted
		} else {
			file.Close()
		}
	}

	ctx := shell.NewContext(imagePath, fs, os.Stdout)
	defer ctx.CloseFS()

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Printf("%s> ", imagePath)
		}
		if !scanner.Scan() {
			break
		}
		if !shell.Dispatch(ctx, scanner.Text()) {
			break
		}
	}
	return scanner.Err()
}
