package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/oauth2"
)

const (
	// Garmin Connect OAuth endpoints
	AuthURL  = "https://connect.garmin.com/oauth2Confirm"
	TokenURL = "https://connectapi.garmin.com/di-oauth2-service/oauth/token"
)

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
	}
}

// AuthResult contains the token from a completed flow. The profile ID
// is filled in afterwards from the profile endpoint; Garmin does not
// embed it in the token response.
type AuthResult struct {
	Token *oauth2.Token
}

// pkce holds the verifier/challenge pair for one authorization
type pkce struct {
	verifier  string
	challenge string
}

// newPKCE generates a verifier and its S256 challenge. Garmin
// requires PKCE on the authorization-code flow.
func newPKCE() (pkce, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return pkce{}, err
	}

	verifier := base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	return pkce{
		verifier:  verifier,
		challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}

// authCodeOptions returns the extra parameters the authorize URL needs
func (p pkce) authCodeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", p.challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
}

// exchangeOptions returns the parameters the token exchange needs
func (p pkce) exchangeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_verifier", p.verifier),
	}
}
