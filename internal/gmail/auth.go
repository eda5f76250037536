// Package gmail implements the email source: OAuth2 credentials plus a thin
// Gmail REST client that reads just enough of each message to build previews.
package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"

	"github.com/quillworks/localagent/internal/config"
	"github.com/quillworks/localagent/internal/filex"
)

var requiredScopes = []string{"https://www.googleapis.com/auth/gmail.readonly"}

// oauth2Config returns the oauth2.Config for the Gmail API.
func oauth2Config(cfg config.GmailConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       requiredScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:       "https://accounts.google.com/o/oauth2/auth",
			DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
			TokenURL:      "https://oauth2.googleapis.com/token",
		},
	}
}

// loadToken loads a previously saved token. A missing file returns (nil, nil).
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// saveToken persists a token to disk, atomically.
func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// tokenPath expands the configured token file location.
func tokenPath(cfg config.GmailConfig) (string, error) {
	return filex.ExpandHome(cfg.TokenPath)
}

// Authorize runs the OAuth device flow once and persists the resulting token.
// User-facing instructions are written to w.
func Authorize(ctx context.Context, cfg config.GmailConfig, w io.Writer) error {
	if cfg.ClientID == "" {
		return fmt.Errorf("gmail client_id is not configured")
	}

	ocfg := oauth2Config(cfg)

	resp, err := ocfg.DeviceAuth(ctx)
	if err != nil {
		return fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(w, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(w, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(w)

	tok, err := ocfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return fmt.Errorf("device authentication failed: %w", err)
	}

	path, err := tokenPath(cfg)
	if err != nil {
		return err
	}
	return saveToken(path, tok)
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	path string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = saveToken(s.path, tok)
	return tok, nil
}
