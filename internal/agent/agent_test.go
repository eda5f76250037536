package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/gmail"
	"github.com/quillworks/localagent/internal/journal"
	"github.com/quillworks/localagent/internal/llm"
	"github.com/quillworks/localagent/internal/logging"
	"github.com/quillworks/localagent/internal/session"
)

type fakeSource struct {
	messages []gmail.Message
	err      error
}

func (f *fakeSource) FetchRecent(_ context.Context, _ int) ([]gmail.Message, error) {
	return f.messages, f.err
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

func newTestAgent(t *testing.T, src EmailSource, gen llm.Generator) (*Agent, *journal.Store, *session.Manager) {
	t.Helper()
	store, err := journal.NewStore(filepath.Join(t.TempDir(), "history.enc"), journal.KDFLegacy)
	require.NoError(t, err)
	sess := session.NewManager(time.Hour)
	return New(src, gen, store, sess, nopLogger{}), store, sess
}

func TestSummarizeEmails(t *testing.T) {
	src := &fakeSource{messages: []gmail.Message{
		{ID: "1", Subject: "Standup moved", Snippet: "Standup is at 10 now"},
		{ID: "2", Subject: "Invoice", Snippet: "Invoice 42 attached"},
	}}
	gen := &fakeGenerator{response: "short summary"}
	a, store, sess := newTestAgent(t, src, gen)

	_, err := sess.Unlock("hunter2")
	require.NoError(t, err)

	results, err := a.SummarizeEmails(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Standup moved", results[0].Subject)
	assert.Equal(t, "short summary", results[0].Summary)

	// Each snippet went into the prompt.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "Standup is at 10 now")
	assert.Contains(t, gen.prompts[1], "Invoice 42 attached")

	entries, err := store.Load("hunter2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "email_summary", entries[0].EventType)
	assert.Equal(t, float64(2), entries[0].Meta["count"])
	assert.Contains(t, entries[0].Preview, "Subject: Standup moved")
}

func TestSummarizeEmails_GenerationErrorInlined(t *testing.T) {
	src := &fakeSource{messages: []gmail.Message{{ID: "1", Subject: "x", Snippet: "y"}}}
	gen := &fakeGenerator{err: errors.New("rate limited")}
	a, _, _ := newTestAgent(t, src, gen)

	results, err := a.SummarizeEmails(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Summary, "Error generating summary")
	assert.Contains(t, results[0].Summary, "rate limited")
}

func TestSummarizeEmails_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("gmail down")}
	a, _, _ := newTestAgent(t, src, &fakeGenerator{})

	_, err := a.SummarizeEmails(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gmail down")
}

func TestSummarizeEmails_LockedSessionSkipsJournal(t *testing.T) {
	src := &fakeSource{messages: []gmail.Message{{ID: "1", Subject: "a", Snippet: "b"}}}
	a, store, _ := newTestAgent(t, src, &fakeGenerator{response: "s"})

	results, err := a.SummarizeEmails(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	entries, err := store.Load("anything")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTailorResume(t *testing.T) {
	gen := &fakeGenerator{response: `{"profile":"Seasoned Go engineer","bullets":["Built X","Shipped Y"],"cover_letter":"Dear team"}`}
	a, store, sess := newTestAgent(t, &fakeSource{}, gen)

	_, err := sess.Unlock("hunter2")
	require.NoError(t, err)

	out, err := a.TailorResume(context.Background(), "Go developer wanted", "10 years of Go")
	require.NoError(t, err)
	assert.Equal(t, "Seasoned Go engineer", out.Profile)
	assert.Equal(t, []string{"Built X", "Shipped Y"}, out.Bullets)
	assert.Equal(t, "Dear team", out.CoverLetter)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Go developer wanted")
	assert.Contains(t, gen.prompts[0], "10 years of Go")

	entries, err := store.Load("hunter2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "resume_tailor", entries[0].EventType)
	assert.Equal(t, float64(2), entries[0].Meta["bullet_count"])
	assert.Contains(t, entries[0].Preview, "PROFILE:")
	assert.Contains(t, entries[0].Preview, "- Built X")
	assert.Contains(t, entries[0].Preview, "COVER LETTER:")
}

func TestTailorResume_FencedJSON(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n{\"profile\":\"p\",\"bullets\":[],\"cover_letter\":\"c\"}\n```"}
	a, _, _ := newTestAgent(t, &fakeSource{}, gen)

	out, err := a.TailorResume(context.Background(), "job", "resume")
	require.NoError(t, err)
	assert.Equal(t, "p", out.Profile)
	assert.Equal(t, "c", out.CoverLetter)
}

func TestTailorResume_UnparsableOutput(t *testing.T) {
	gen := &fakeGenerator{response: "Sure! Here is your resume: ..."}
	a, _, _ := newTestAgent(t, &fakeSource{}, gen)

	_, err := a.TailorResume(context.Background(), "job", "resume")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnparsableOutput)

	var upe *UnparsableOutputError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "Sure! Here is your resume: ...", upe.Raw)
}

func TestTailorResume_EmptyInputs(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeSource{}, &fakeGenerator{})

	_, err := a.TailorResume(context.Background(), "", "resume")
	require.Error(t, err)
	_, err = a.TailorResume(context.Background(), "job", "   ")
	require.Error(t, err)
}

func TestTailorResume_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	a, _, _ := newTestAgent(t, &fakeSource{}, gen)

	_, err := a.TailorResume(context.Background(), "job", "resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.in))
		})
	}
}

func TestEmailSummaryPreviewBounded(t *testing.T) {
	long := strings.Repeat("x", 5000)
	src := &fakeSource{messages: []gmail.Message{{ID: "1", Subject: "s", Snippet: "n"}}}
	gen := &fakeGenerator{response: long}
	a, store, sess := newTestAgent(t, src, gen)

	_, err := sess.Unlock("pw")
	require.NoError(t, err)

	_, err = a.SummarizeEmails(context.Background(), 1)
	require.NoError(t, err)

	entries, err := store.Load("pw")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.LessOrEqual(t, len([]rune(entries[0].Preview)), emailPreviewLimit,
		fmt.Sprintf("preview length %d", len(entries[0].Preview)))
}
