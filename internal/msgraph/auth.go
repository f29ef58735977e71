package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// Scopes are the delegated permissions requested at sign-in.
var Scopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

// Endpoint returns the Microsoft identity platform endpoints of tenantID.
func Endpoint(tenantID string) oauth2.Endpoint {
	base := "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/"
	return oauth2.Endpoint{
		DeviceAuthURL: base + "devicecode",
		TokenURL:      base + "token",
		AuthStyle:     oauth2.AuthStyleInParams,
	}
}

// tokenFile keeps one OAuth2 token as JSON.
type tokenFile string

// load returns nil, nil when no token was saved yet.
func (f tokenFile) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(string(f))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", f, err)
	}
	return &tok, nil
}

func (f tokenFile) save(tok *oauth2.Token) error {
	path := string(f)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticator signs in to Microsoft Graph with the device code flow and
// keeps the token in a file between runs.
type Authenticator struct {
	// Config carries the client id, scopes and endpoints.
	Config *oauth2.Config
	tokens tokenFile
	out    io.Writer
}

// NewAuthenticator returns an Authenticator for the app clientID in
// tenantID that stores its token at tokenPath. Sign-in instructions and
// warnings are written to out.
func NewAuthenticator(tenantID, clientID, tokenPath string, out io.Writer) *Authenticator {
	if out == nil {
		out = io.Discard
	}
	return &Authenticator{
		Config: &oauth2.Config{
			ClientID: clientID,
			Scopes:   Scopes,
			Endpoint: Endpoint(tenantID),
		},
		tokens: tokenFile(tokenPath),
		out:    out,
	}
}

// Token returns the saved token while it is valid, refreshes it when it has
// expired, and otherwise runs the device code flow.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.tokens.load()
	if err != nil {
		fmt.Fprintf(a.out, "Warning: %v\n", err)
		tok = nil
	}
	if tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := a.Config.TokenSource(ctx, tok).Token()
		if err == nil {
			a.keep(refreshed)
			return refreshed, nil
		}
		fmt.Fprintf(a.out, "Token refresh failed (%v), re-authenticating...\n", err)
	}

	resp, err := a.Config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(a.out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(a.out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(a.out)

	fresh, err := a.Config.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	a.keep(fresh)
	return fresh, nil
}

func (a *Authenticator) keep(tok *oauth2.Token) {
	if err := a.tokens.save(tok); err != nil {
		fmt.Fprintf(a.out, "Warning: could not save token: %v\n", err)
	}
}

// savingTokenSource writes every new token handed out by src back to the
// token file.
type savingTokenSource struct {
	src  oauth2.TokenSource
	auth *Authenticator
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		s.auth.keep(tok)
	}
	return tok, nil
}

// Client returns a Graph client authorised with tok. Tokens refreshed while
// the client is in use are saved.
func (a *Authenticator) Client(ctx context.Context, tok *oauth2.Token) *Client {
	ts := &savingTokenSource{src: a.Config.TokenSource(ctx, tok), auth: a, last: tok.AccessToken}
	return NewClient(oauth2.NewClient(ctx, ts), "")
}
