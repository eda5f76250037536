// Package agent implements the producers: the flows that call the email
// source and the text generator and journal what they did. A journal write
// failure is never fatal to the primary action; the generated result is
// still returned and the failure is reported as a warning.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/gmail"
	"github.com/quillworks/localagent/internal/journal"
	"github.com/quillworks/localagent/internal/llm"
	"github.com/quillworks/localagent/internal/logging"
	"github.com/quillworks/localagent/internal/session"
)

// Preview bounds applied by the producers before insertion; the journal
// imposes no bound of its own.
const (
	emailPreviewLimit  = 2000
	resumePreviewLimit = 3000
)

// EmailSource yields recent messages. Implemented by gmail.Client.
type EmailSource interface {
	FetchRecent(ctx context.Context, count int) ([]gmail.Message, error)
}

// Agent wires the collaborators together.
type Agent struct {
	source    EmailSource
	generator llm.Generator
	store     *journal.Store
	session   *session.Manager
	logger    logging.Logger
}

func New(source EmailSource, generator llm.Generator, store *journal.Store, sess *session.Manager, logger logging.Logger) *Agent {
	return &Agent{
		source:    source,
		generator: generator,
		store:     store,
		session:   sess,
		logger:    logger,
	}
}

// EmailSummary is one summarized message.
type EmailSummary struct {
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Summary string `json:"summary_raw"`
}

// SummarizeEmails fetches up to count recent messages and summarizes each.
// A failed generation becomes an inline error marker in that message's
// summary rather than failing the whole flow. When the session is unlocked,
// the result is journaled as an "email_summary" entry.
func (a *Agent) SummarizeEmails(ctx context.Context, count int) ([]EmailSummary, error) {
	msgs, err := a.source.FetchRecent(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}

	results := make([]EmailSummary, 0, len(msgs))
	for _, m := range msgs {
		summary, err := a.generator.Generate(ctx, buildEmailSummaryPrompt(m.Snippet), llm.Options{
			MaxTokens: 256,
			TaskType:  "email",
		})
		if err != nil {
			summary = fmt.Sprintf("[Error generating summary: %v]", err)
		}
		results = append(results, EmailSummary{Subject: m.Subject, Snippet: m.Snippet, Summary: summary})
	}

	a.record(ctx, "email_summary",
		map[string]any{"count": len(results)},
		common.TruncateRunes(emailSummaryPreview(results), emailPreviewLimit))

	return results, nil
}

func emailSummaryPreview(results []EmailSummary) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Subject: %s\n%s", r.Subject, r.Summary)
	}
	return strings.Join(blocks, "\n\n")
}

// TailoredResume is the structured output of the resume flow.
type TailoredResume struct {
	Profile     string   `json:"profile"`
	Bullets     []string `json:"bullets"`
	CoverLetter string   `json:"cover_letter"`
}

// UnparsableOutputError reports model output that was not the expected JSON
// document. Raw carries the full output so callers can show it for manual
// salvage.
type UnparsableOutputError struct {
	Raw string
}

func (e *UnparsableOutputError) Error() string {
	return common.ErrUnparsableOutput.Error()
}

func (e *UnparsableOutputError) Unwrap() error {
	return common.ErrUnparsableOutput
}

// TailorResume generates a tailored profile, resume bullets and cover letter
// for the given job posting. When the session is unlocked, the result is
// journaled as a "resume_tailor" entry.
func (a *Agent) TailorResume(ctx context.Context, jobText, resumeText string) (*TailoredResume, error) {
	jobText = strings.TrimSpace(jobText)
	resumeText = strings.TrimSpace(resumeText)
	if jobText == "" || resumeText == "" {
		return nil, fmt.Errorf("job text and resume text are required")
	}

	raw, err := a.generator.Generate(ctx, buildResumeTailorPrompt(jobText, resumeText), llm.Options{
		MaxTokens:   1024,
		Temperature: 0.4,
		TaskType:    "resume",
	})
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	var out TailoredResume
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &out); err != nil {
		return nil, &UnparsableOutputError{Raw: raw}
	}
	if out.Bullets == nil {
		out.Bullets = []string{}
	}

	a.record(ctx, "resume_tailor",
		map[string]any{"bullet_count": len(out.Bullets)},
		common.TruncateRunes(resumePreview(&out), resumePreviewLimit))

	return &out, nil
}

func resumePreview(r *TailoredResume) string {
	var b strings.Builder
	b.WriteString("PROFILE:\n")
	b.WriteString(r.Profile)
	b.WriteString("\n\nBULLETS:\n")
	for i, bullet := range r.Bullets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(bullet)
	}
	b.WriteString("\n\nCOVER LETTER:\n")
	b.WriteString(r.CoverLetter)
	return b.String()
}

// record appends a journal entry if the session is unlocked. Failures are
// logged as warnings and never propagate: journaling must not block or
// overwrite the primary result.
func (a *Agent) record(ctx context.Context, eventType string, meta map[string]any, preview string) {
	password, ok := a.session.Password()
	if !ok {
		a.logger.Debug(ctx, "journal locked, skipping entry", "event_type", eventType)
		return
	}

	entry := journal.NewEntry(eventType, meta, preview)
	if err := a.store.Append(entry, password); err != nil {
		a.logger.Warn(ctx, "journal write failed", "event_type", eventType, "error", err)
	}
}

// cleanJSONResponse removes markdown code fences if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
