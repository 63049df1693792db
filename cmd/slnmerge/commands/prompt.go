package commands

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/slnmerge/cmd/slnmerge/output"
)

// isInteractive reports whether in is a terminal a user can answer from.
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && output.IsTerminal(f)
}

// confirm prints message and waits for ENTER. Any other answer, or a closed
// input, returns ErrAborted.
func confirm(console *output.Console, in io.Reader, message ...string) error {
	for _, line := range message {
		console.Println(line)
	}
	console.Println("Press ENTER to continue or anything else to stop ...")

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		return ErrAborted
	}
	if strings.TrimSpace(answer) != "" {
		return ErrAborted
	}
	return nil
}

// pause waits for ENTER so a console window opened just for this run stays
// readable. Read errors are ignored.
func pause(console *output.Console, in io.Reader) {
	console.Println("Press ENTER to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
