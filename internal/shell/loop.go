// Package shell runs the interactive session loop: read a line, scan
// it, interpret it, apply the sentence, show the new focus in the
// prompt. Errors are reported and the loop keeps going; only EOF,
// `exit`, or an unrecoverable connection loss end it.
package shell

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/chzyer/readline"

	"streamsort/internal/logger"
	"streamsort/internal/parser"
	"streamsort/internal/render"
	"streamsort/internal/scanner"
	"streamsort/pkg/mobtypes"
)

// Options configures a session loop.
type Options struct {
	// Registry resolves sentence names.
	Registry parser.Registry

	// Reconnect establishes a fresh remote session, after `logout` or a
	// dropped connection. Nil disables both recoveries.
	Reconnect func() (mobtypes.Session, error)

	// HistoryFile persists readline history when set.
	HistoryFile string

	// Stdin and Stdout override the terminal streams.
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// Evaluate runs one input line against the state and returns the next
// state. The state is returned unchanged on any error.
func Evaluate(st mobtypes.State, line string, reg parser.Registry) (mobtypes.State, error) {
	cur := parser.NewCursor(scanner.Scan(line))
	sentence, query, err := parser.Interpret(st, cur, reg)
	if err != nil {
		return st, err
	}
	return sentence(st, query)
}

// Run drives the loop until the user leaves.
func Run(state mobtypes.State, opts Options) error {
	cfg := &readline.Config{
		Prompt:          render.Prompt(state.Mob),
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if opts.Stdin != nil {
		cfg.Stdin = opts.Stdin
	}
	if opts.Stdout != nil {
		cfg.Stdout = opts.Stdout
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()
	out := rl.Stdout()

	for {
		rl.SetPrompt(render.Prompt(state.Mob))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case trimmed == "exit":
			return nil
		case trimmed == "logout" || strings.HasPrefix(trimmed, "logout "):
			state = handleLogout(state, opts, out)
			continue
		}

		next, err := Evaluate(state, line, opts.Registry)
		if err == nil {
			state = next
			continue
		}
		switch {
		case errors.Is(err, mobtypes.ErrNoResults):
			fmt.Fprintln(out, "    No Results")
		case isConnectionError(err) && opts.Reconnect != nil:
			logger.Warn("connection lost", "error", err)
			fmt.Fprintln(out, "    Connection interrupted. Reconnecting...")
			api, rerr := opts.Reconnect()
			if rerr != nil {
				return err
			}
			state = state.WithAPI(api)
		default:
			fmt.Fprintf(out, "    ERROR: %s\n", err)
		}
	}
}

// handleLogout reports a failed relogin and keeps the session going on
// the existing state; nothing after startup ends the loop except the
// user.
func handleLogout(state mobtypes.State, opts Options, out io.Writer) mobtypes.State {
	next, err := relogin(state, opts)
	if err != nil {
		fmt.Fprintf(out, "    ERROR: %s\n", err)
		return state
	}
	return next
}

// relogin drops the stored credentials and starts over: fresh session,
// focus back on the user, scopes gone.
func relogin(state mobtypes.State, opts Options) (mobtypes.State, error) {
	if opts.Reconnect == nil {
		return state, errors.New("logout is not available here")
	}
	if err := state.API.Logout(); err != nil {
		return state, err
	}
	api, err := opts.Reconnect()
	if err != nil {
		return state, err
	}
	me, err := api.Me()
	if err != nil {
		return state, err
	}
	return mobtypes.State{API: api, Mob: me, Scopes: mobtypes.Scopes{}}, nil
}

// isConnectionError distinguishes a dead connection, worth a reconnect,
// from an ordinary remote refusal, which is not.
func isConnectionError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
