package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is replaced in tests so they never touch the terminal.
var readPassword = term.ReadPassword

// promptText writes prompt to w and reads one trimmed line. A final line without a newline is accepted.
func promptText(reader *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo and asks for it twice.
func promptPassword(w io.Writer) (string, error) {
	first, err := readHidden(w, "Password: ")
	if err != nil {
		return "", err
	}

	second, err := readHidden(w, "Repeat password: ")
	if err != nil {
		return "", err
	}

	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

func readHidden(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}

	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
