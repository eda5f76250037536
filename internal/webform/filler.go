// Package webform drives a headed Chrome instance to pre-fill job
// application forms. Every field action is best effort: sites change their
// DOM frequently, so a missing selector is logged and skipped instead of
// failing the run. Login is out of scope, the user is expected to sign in
// manually in the opened browser before the form dialog appears.
package webform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/quillworks/localagent/internal/logging"
)

// ErrUnknownSite is returned when no connector matches the requested site.
var ErrUnknownSite = errors.New("unknown site, no connector available")

// stepTimeout bounds a single best-effort action so one missing element
// cannot stall the whole flow.
const stepTimeout = 5 * time.Second

// Application carries everything a connector needs to fill one form.
type Application struct {
	JobURL         string
	ResumePath     string
	ApplicantName  string
	ApplicantEmail string

	// AutoSubmit clicks the final submit button instead of leaving the
	// form open for review.
	AutoSubmit bool
}

func (a Application) validate() error {
	if strings.TrimSpace(a.JobURL) == "" {
		return errors.New("job URL is required")
	}
	if strings.TrimSpace(a.ApplicantEmail) == "" {
		return errors.New("applicant email is required")
	}
	return nil
}

// connector describes the site-specific selectors of one form flow.
type connector struct {
	// openSelectors are clicked first to reveal the form, e.g. an
	// "Easy apply" button. XPath, matched with chromedp.BySearch.
	openSelectors []string
	// nameSelectors and emailSelectors are CSS, tried in order.
	nameSelectors  []string
	emailSelectors []string
	// submitSelectors are XPath, tried in order when AutoSubmit is set.
	submitSelectors []string
}

var connectors = map[string]connector{
	"linkedin": {
		openSelectors:  []string{`//button[contains(@aria-label, "Easy apply") or contains(., "Easy apply")]`},
		emailSelectors: []string{`input[name*="email"]`},
		submitSelectors: []string{
			`//button[contains(@aria-label, "Submit application")]`,
			`//button[contains(., "Submit application")]`,
			`//button[contains(., "Done")]`,
		},
	},
	"jobright": {
		nameSelectors:   []string{`input[name="name"]`, `input#name`, `input[name*="full_name"]`},
		emailSelectors:  []string{`input[name="email"]`, `input#email`},
		submitSelectors: []string{`//button[@type="submit"]`, `//button[contains(., "Apply")]`},
	},
	"simplyfy": {
		openSelectors:   []string{`//a[contains(., "Apply")]`},
		nameSelectors:   []string{`input[name="applicant_name"]`},
		emailSelectors:  []string{`input[name="applicant_email"]`},
		submitSelectors: []string{`//button[@type="submit"]`},
	},
}

// Sites lists the supported connector names, sorted.
func Sites() []string {
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filler owns the browser lifecycle for form-filling runs.
type Filler struct {
	logger   logging.Logger
	headless bool
}

// Option configures a Filler.
type Option func(*Filler)

// WithHeadless runs Chrome without a window. Useful for tests only, the
// normal flow expects the user to review the filled form.
func WithHeadless() Option {
	return func(f *Filler) { f.headless = true }
}

func New(logger logging.Logger, opts ...Option) *Filler {
	f := &Filler{logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply opens the job URL with the connector registered for site and fills
// in the applicant details. It returns ErrUnknownSite for an unregistered
// site and an error when navigation itself fails; individual field steps
// never fail the run.
func (f *Filler) Apply(ctx context.Context, site string, app Application) error {
	conn, ok := connectors[strings.ToLower(strings.TrimSpace(site))]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSite, site)
	}
	if err := app.validate(); err != nil {
		return err
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if !f.headless {
		allocOpts = append(allocOpts,
			chromedp.Flag("headless", false),
			chromedp.Flag("hide-scrollbars", false),
			chromedp.Flag("mute-audio", false),
		)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(app.JobURL)); err != nil {
		return fmt.Errorf("opening %s: %w", app.JobURL, err)
	}

	for _, sel := range conn.openSelectors {
		if f.try(browserCtx, "open form", chromedp.Click(sel, chromedp.BySearch)) {
			break
		}
	}

	if app.ApplicantName != "" {
		f.fillFirst(browserCtx, "name", conn.nameSelectors, app.ApplicantName)
	}
	f.fillFirst(browserCtx, "email", conn.emailSelectors, app.ApplicantEmail)

	if app.ResumePath != "" {
		f.try(browserCtx, "attach resume",
			chromedp.SetUploadFiles(`input[type="file"]`, []string{app.ResumePath}, chromedp.ByQuery))
	}

	if !app.AutoSubmit {
		f.logger.Info(ctx, "form filled, review it in the browser", "site", site, "url", app.JobURL)
		return nil
	}

	for _, sel := range conn.submitSelectors {
		if f.try(browserCtx, "submit", chromedp.Click(sel, chromedp.BySearch)) {
			f.logger.Info(ctx, "form submitted", "site", site, "url", app.JobURL)
			return nil
		}
	}
	f.logger.Warn(ctx, "submit button not found, submit manually", "site", site)
	return nil
}

// fillFirst sends value to the first selector that matches.
func (f *Filler) fillFirst(ctx context.Context, field string, selectors []string, value string) {
	for _, sel := range selectors {
		if f.try(ctx, "fill "+field, chromedp.SendKeys(sel, value, chromedp.ByQuery)) {
			return
		}
	}
	if len(selectors) > 0 {
		f.logger.Debug(ctx, "no matching field", "field", field)
	}
}

// try runs actions under a per-step timeout and reports whether they
// succeeded. Failures are logged at debug level and swallowed.
func (f *Filler) try(ctx context.Context, step string, actions ...chromedp.Action) bool {
	stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()
	if err := chromedp.Run(stepCtx, actions...); err != nil {
		f.logger.Debug(ctx, "step skipped", "step", step, "error", err)
		return false
	}
	return true
}
