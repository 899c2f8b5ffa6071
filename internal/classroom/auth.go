// Package classroom reads courses and course work from the Google Classroom
// API on behalf of the user.
package classroom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/apolo/internal/storage"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	classroomapi "google.golang.org/api/classroom/v1"
)

var (
	ErrNoClientID = errors.New("classroom: client id is not configured")
	ErrNoToken    = errors.New("classroom: not signed in")
)

// DefaultRedirectURL is the out-of-band loopback used by the CLI login flow.
const DefaultRedirectURL = "http://127.0.0.1:8085/callback"

var Scopes = []string{
	classroomapi.ClassroomCoursesReadonlyScope,
	classroomapi.ClassroomCourseworkMeScope,
	classroomapi.ClassroomRostersReadonlyScope,
}

type Auth struct {
	cfg *oauth2.Config
}

func NewAuth(clientID, clientSecret, redirectURL string) (*Auth, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || strings.Contains(clientID, "TU_CLIENT_ID") {
		return nil, ErrNoClientID
	}
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	return &Auth{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}}, nil
}

// AuthURL is the consent page the user opens to grant access.
func (a *Auth) AuthURL(state string) string {
	return a.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (a *Auth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("classroom: authorization code is required")
	}
	tok, err := a.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("classroom: exchange code: %w", err)
	}
	return tok, nil
}

// TokenSource refreshes tok as needed.
func (a *Auth) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return a.cfg.TokenSource(ctx, tok)
}

// TokenStore is where the signed-in token lives between runs.
type TokenStore interface {
	LoadJSON(ctx context.Context, key string, dst any) error
	SaveJSON(ctx context.Context, key string, v any) error
}

func SaveToken(ctx context.Context, store TokenStore, tok *oauth2.Token) error {
	if tok == nil {
		return ErrNoToken
	}
	return store.SaveJSON(ctx, storage.KeyClassroomToken, tok)
}

func LoadToken(ctx context.Context, store TokenStore) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := store.LoadJSON(ctx, storage.KeyClassroomToken, &tok); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}
