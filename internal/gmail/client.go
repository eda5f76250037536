package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/config"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1"

// Message is the slice of an email the agent cares about.
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
}

// Client is an authenticated Gmail API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client from stored credentials. If the user has never
// run the authorization flow, it fails with common.ErrAuthRequired.
func NewClient(ctx context.Context, cfg config.GmailConfig) (*Client, error) {
	path, err := tokenPath(cfg)
	if err != nil {
		return nil, err
	}

	tok, err := loadToken(path)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, common.ErrAuthRequired
	}

	ts := oauth2Config(cfg).TokenSource(ctx, tok)
	return &Client{
		httpClient: oauth2.NewClient(ctx, &savingTokenSource{ts: ts, path: path}),
		baseURL:    gmailBaseURL,
	}, nil
}

// newClientWithHTTP is a test seam bypassing OAuth.
func newClientWithHTTP(hc *http.Client, baseURL string) *Client {
	return &Client{httpClient: hc, baseURL: baseURL}
}

// messageListResponse is the paged users.messages.list response; only the
// first page is read since counts here are small.
type messageListResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// messageResponse is the users.messages.get metadata response.
type messageResponse struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

// FetchRecent returns up to count most recent messages with subject and
// snippet populated.
func (c *Client) FetchRecent(ctx context.Context, count int) ([]Message, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	endpoint := fmt.Sprintf("%s/users/me/messages?maxResults=%d", c.baseURL, count)

	var list messageListResponse
	if err := c.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		endpoint := fmt.Sprintf("%s/users/me/messages/%s?format=metadata&metadataHeaders=Subject",
			c.baseURL, url.PathEscape(m.ID))

		var msg messageResponse
		if err := c.getJSON(ctx, endpoint, &msg); err != nil {
			return nil, err
		}

		subject := "(no subject)"
		for _, h := range msg.Payload.Headers {
			if h.Name == "Subject" {
				subject = h.Value
				break
			}
		}

		out = append(out, Message{ID: msg.ID, Subject: subject, Snippet: msg.Snippet})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gmail API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding gmail response: %w", err)
	}
	return nil
}
