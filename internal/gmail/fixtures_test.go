package gmail

import (
	"time"

	"golang.org/x/oauth2"
)

func tokenFixture() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "at-123",
		TokenType:    "Bearer",
		RefreshToken: "rt-456",
		Expiry:       time.Now().Add(time.Hour),
	}
}
