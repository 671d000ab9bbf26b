package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword indirects term.ReadPassword so tests can stub it instead of
// needing a real terminal.
var readPassword = term.ReadPassword

// GetSimpleText writes prompt followed by "> " and reads one line from
// reader, trimming surrounding whitespace. A line terminated by EOF rather
// than a newline is still returned if it is non-empty.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal with echo disabled. The
// trailing newline the user never sees is written to w so the next prompt
// starts on a fresh line. The caller owns the returned slice and should
// wipe it after use.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
