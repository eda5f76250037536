// Package cli implements the interactive shell over the journal and the
// producers. The shell keeps the unlocked password in the shared session
// manager so journal commands and producer flows see the same state.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/quillworks/localagent/internal/agent"
	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/journal"
	"github.com/quillworks/localagent/internal/session"
)

// producers is the slice of agent behavior the shell needs.
type producers interface {
	SummarizeEmails(ctx context.Context, count int) ([]agent.EmailSummary, error)
	TailorResume(ctx context.Context, jobText, resumeText string) (*agent.TailoredResume, error)
}

// App is the interactive shell state.
type App struct {
	store   *journal.Store
	session *session.Manager
	agent   producers
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(store *journal.Store, sess *session.Manager, prods producers, in io.Reader, out io.Writer) *App {
	return &App{
		store:   store,
		session: sess,
		agent:   prods,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) isUnlocked() bool {
	_, ok := a.session.Password()
	return ok
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// Unlock prompts for the password and verifies it against the journal file.
// The password is kept in the session only after a successful load.
func (a *App) Unlock(ctx context.Context) error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	password := string(pw)
	entries, err := a.store.Load(password)
	if err != nil {
		if errors.Is(err, common.ErrIncorrectPasswordOrCorrupted) {
			a.printf("Unlock failed: %s", err)
			return nil
		}
		return err
	}

	if _, err := a.session.Unlock(password); err != nil {
		return err
	}
	a.printf("Journal unlocked, %d entries.", len(entries))
	return nil
}

func (a *App) Lock(_ context.Context) error {
	a.session.Lock()
	a.printf("Journal locked.")
	return nil
}

// List prints the history, optionally filtered. args are [type [start [end]]];
// printed indexes always refer to the unfiltered sequence.
func (a *App) List(_ context.Context, args []string) error {
	password, ok := a.session.Password()
	if !ok {
		a.printf("Journal is locked. Use 'unlock' first.")
		return nil
	}

	entries, err := a.store.Load(password)
	if err != nil {
		a.printf("Load failed: %s", err)
		return nil
	}

	var q journal.Query
	if len(args) > 0 {
		q.Type = args[0]
	}
	if len(args) > 1 {
		q.Start = args[1]
	}
	if len(args) > 2 {
		q.End = args[2]
	}

	filtered := journal.Filter(entries, q)
	if len(filtered) == 0 {
		a.printf("No entries.")
		return nil
	}
	for _, item := range filtered {
		preview := common.TruncateRunes(item.Preview, 120)
		a.printf("[%d] %s  %s\n    %s", item.Index, item.Timestamp, item.EventType, preview)
	}
	return nil
}

// Record prompts for a manual entry and appends it.
func (a *App) Record(_ context.Context) error {
	password, ok := a.session.Password()
	if !ok {
		a.printf("Journal is locked. Use 'unlock' first.")
		return nil
	}

	eventType, err := GetSimpleText(a.reader, "Event type", a.out)
	if err != nil {
		return err
	}
	if eventType == "" {
		a.printf("Event type is required.")
		return nil
	}
	preview, err := GetMultiline(a.reader, "Preview text", a.out)
	if err != nil {
		return err
	}

	entry := journal.NewEntry(eventType, nil, preview)
	if err := a.store.Append(entry, password); err != nil {
		a.printf("Append failed: %s", err)
		return nil
	}
	a.printf("Recorded %s.", entry.ID)
	return nil
}

// Delete removes an entry by its unfiltered index.
func (a *App) Delete(_ context.Context, args []string) error {
	password, ok := a.session.Password()
	if !ok {
		a.printf("Journal is locked. Use 'unlock' first.")
		return nil
	}
	if len(args) != 1 {
		a.printf("Usage: delete <index>")
		return nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		a.printf("Not a number: %s", args[0])
		return nil
	}

	entries, err := a.store.DeleteByIndex(index, password)
	if err != nil {
		a.printf("Delete failed: %s", err)
		return nil
	}
	a.printf("Deleted. %d entries remain.", len(entries))
	return nil
}

// Summarize fetches and summarizes recent emails. args may carry a count.
func (a *App) Summarize(ctx context.Context, args []string) error {
	count := 5
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			a.printf("Not a valid count: %s", args[0])
			return nil
		}
		count = n
	}

	results, err := a.agent.SummarizeEmails(ctx, count)
	if err != nil {
		a.printf("Summarize failed: %s", err)
		return nil
	}
	for _, r := range results {
		a.printf("Subject: %s\n%s\n", r.Subject, r.Summary)
	}
	return nil
}

// Tailor prompts for a job posting and resume text and prints the result.
func (a *App) Tailor(ctx context.Context) error {
	jobText, err := GetMultiline(a.reader, "Paste the job posting", a.out)
	if err != nil {
		return err
	}
	resumeText, err := GetMultiline(a.reader, "Paste your resume", a.out)
	if err != nil {
		return err
	}

	out, err := a.agent.TailorResume(ctx, jobText, resumeText)
	if err != nil {
		var upe *agent.UnparsableOutputError
		if errors.As(err, &upe) {
			a.printf("Model output was not valid JSON; raw output follows:\n%s", upe.Raw)
			return nil
		}
		a.printf("Tailor failed: %s", err)
		return nil
	}

	a.printf("PROFILE:\n%s\n", out.Profile)
	a.printf("BULLETS:")
	for _, b := range out.Bullets {
		a.printf("- %s", b)
	}
	a.printf("\nCOVER LETTER:\n%s", out.CoverLetter)
	return nil
}

// Run starts the shell and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) status() string {
	if a.isUnlocked() {
		return "unlocked"
	}
	return "locked"
}
