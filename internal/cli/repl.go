package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Record(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Summarize(ctx context.Context, args []string) error
	Tailor(ctx context.Context) error
}

// runREPL starts a read–eval–print loop over the journal commands.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	unlock               — decrypt the journal and open a session
//	lock                 — forget the password
//	list [type] [start] [end]
//	                     — print entries, optionally filtered; "All" or an
//	                       empty type means no type filter, dates are
//	                       inclusive YYYY-MM-DD bounds
//	record               — append a manual entry (interactive)
//	delete <index>       — remove the entry at the unfiltered index
//	summarize [n]        — fetch and summarize up to n recent emails
//	tailor               — tailor a resume to a pasted job posting
//	help                 — show available commands
//	exit | quit          — leave the program
//
// Handler errors are treated as fatal only when they bubble up; handlers
// print their own recoverable failures. This keeps the loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "journal [%s]> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				fmt.Fprintln(w, "Available commands: list, record, delete, summarize, tailor, lock, exit")
			} else {
				fmt.Fprintln(w, "Available commands: unlock, summarize, tailor, exit")
			}

		case "unlock":
			if err := a.Unlock(ctx); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}

		case "lock":
			_ = a.Lock(ctx)

		case "list":
			_ = a.List(ctx, args)

		case "record":
			if err := a.Record(ctx); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}

		case "delete":
			_ = a.Delete(ctx, args)

		case "summarize":
			_ = a.Summarize(ctx, args)

		case "tailor":
			if err := a.Tailor(ctx); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}

		case "exit", "quit":
			return

		default:
			fmt.Fprintf(w, "Unknown command: %s\n", cmd)
		}
	}
}
