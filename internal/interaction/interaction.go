// Package interaction carries the user-facing confirm/notify hooks the
// search sentences use while disambiguating. They are injected at
// registry construction so alternative front ends (and tests) can
// substitute their own without touching process-wide state.
package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// IO bundles the two capabilities a sentence may exercise mid-search.
type IO struct {
	// Confirm asks a yes/no question and reports the answer.
	Confirm func(prompt string) bool
	// Notify tells the user something without waiting.
	Notify func(message string)
}

// Default reads confirmations from stdin and notifies on stdout.
func Default() IO {
	return Terminal(os.Stdin, os.Stdout)
}

// Terminal builds an IO over explicit streams. A confirmation is any
// answer starting with 'Y' or 'y'.
func Terminal(in io.Reader, out io.Writer) IO {
	reader := bufio.NewReader(in)
	return IO{
		Confirm: func(prompt string) bool {
			fmt.Fprintf(out, "%s (Y/n)? ", prompt)
			answer, err := reader.ReadString('\n')
			if err != nil && answer == "" {
				return false
			}
			answer = strings.TrimSpace(answer)
			return strings.HasPrefix(answer, "Y") || strings.HasPrefix(answer, "y")
		},
		Notify: func(message string) {
			fmt.Fprintln(out, message)
		},
	}
}

// Accepting returns an IO that confirms everything and swallows
// notifications. Useful for scripts and tests.
func Accepting() IO {
	return IO{
		Confirm: func(string) bool { return true },
		Notify:  func(string) {},
	}
}
