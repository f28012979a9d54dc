package shell

import (
	"bufio"
	"os"
	"strings"
)

// load host_path
//
// Replays command lines from a host file through the normal dispatcher.
// Blank lines and lines starting with '#' are skipped; each replayed
// command prints its normal output. A final OK marks the end of the script.
//
// Outputs: OK | FILE NOT FOUND
func handleLoad(ctx *Context, argv []string) {
	if len(argv) != 1 {
		ctx.printf("FILE NOT FOUND")
		return
	}

	file, err := os.Open(argv[0])
	if err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !Dispatch(ctx, line) {
			// "exit" inside a script stops the replay, not the session.
			break
		}
	}
	if err := scanner.Err(); err != nil {
		ctx.printf("FILE NOT FOUND")
		return
	}
	ctx.printf("OK")
}
