package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	sheets "google.golang.org/api/sheets/v4"
)

// TokenSource builds an auto-refreshing oauth2 token source from an
// installed-app credentials file and a previously granted token file.
// Refreshed tokens are written back to tokenPath so the grant survives
// across runs. The interactive consent flow itself is not handled here;
// a missing token is a fatal, actionable error.
func TokenSource(ctx context.Context, credentialsPath, tokenPath string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credentialsPath) //nolint:gosec // G304: path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading Google credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing Google credentials: %w", err)
	}

	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("loading Google token (complete the consent flow and save the token to %s): %w", tokenPath, err)
	}

	return &savingTokenSource{
		src:  oauth2.ReuseTokenSource(tok, cfg.TokenSource(ctx, tok)),
		path: tokenPath,
		last: tok,
	}, nil
}

// savingTokenSource persists the token back to disk whenever the
// underlying source hands out a refreshed one.
type savingTokenSource struct {
	src  oauth2.TokenSource
	path string

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := saveToken(s.path, tok); err != nil {
			return nil, fmt.Errorf("persisting refreshed Google token: %w", err)
		}
		s.last = tok
	}
	return tok, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from trusted config
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file: %w", err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
