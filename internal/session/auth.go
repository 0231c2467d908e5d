package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"streamsort/internal/cache"
	"streamsort/internal/interaction"
	"streamsort/internal/logger"
)

// DefaultRedirectURL is the loopback address the authorization code
// lands on. It must be registered on the Spotify app.
const DefaultRedirectURL = "http://127.0.0.1:8080/callback"

var scopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserLibraryRead,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

// Config carries what Connect needs to reach Spotify.
type Config struct {
	// ClientID identifies the Spotify application. PKCE replaces the
	// client secret, so no secret is ever configured.
	ClientID string

	// RedirectURL overrides DefaultRedirectURL.
	RedirectURL string

	// Store caches the OAuth token between runs.
	Store *cache.Store

	// IO delivers the login URL to the user.
	IO interaction.IO
}

// Connect returns a logged-in session, reusing the cached token when
// one is stored and still refreshable, and walking the user through the
// authorization-code flow otherwise.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("no Spotify client id configured")
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = DefaultRedirectURL
	}
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(scopes...),
	)

	tok, err := cfg.Store.Token()
	if err != nil {
		return nil, err
	}
	fresh := tok == nil
	if fresh {
		if tok, err = login(ctx, auth, cfg); err != nil {
			return nil, err
		}
	}

	s, err := establish(ctx, auth, cfg, tok)
	if err != nil && !fresh {
		// The cached token can be stale beyond refresh; one interactive
		// retry before giving up.
		logger.Warn("cached token rejected, logging in again", "error", err)
		if tok, err = login(ctx, auth, cfg); err != nil {
			return nil, err
		}
		s, err = establish(ctx, auth, cfg, tok)
	}
	return s, err
}

func establish(ctx context.Context, auth *spotifyauth.Authenticator, cfg Config, tok *oauth2.Token) (*Session, error) {
	client := spotify.New(auth.Client(ctx, tok), spotify.WithRetry(true))
	me, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	// Persist whatever the transport is holding now, which may be a
	// refreshed token.
	if current, err := client.Token(); err == nil {
		if err := cfg.Store.SaveToken(current); err != nil {
			logger.Warn("could not cache token", "error", err)
		}
	}
	logger.Info("logged in", "user", me.ID)
	return &Session{
		ctx:    ctx,
		client: client,
		store:  cfg.Store,
		user:   fromUser(&me.User),
	}, nil
}

// login runs the authorization-code flow with PKCE: a one-shot loopback
// HTTP server catches the redirect while the user approves in the
// browser.
func login(ctx context.Context, auth *spotifyauth.Authenticator, cfg Config) (*oauth2.Token, error) {
	verifier, challenge, err := pkcePair()
	if err != nil {
		return nil, err
	}
	state := uuid.NewString()

	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("bad redirect url: %w", err)
	}
	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	tokens := make(chan *oauth2.Token, 1)
	fails := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		tok, err := auth.Token(r.Context(), state, r,
			oauth2.SetAuthURLParam("code_verifier", verifier))
		if err != nil {
			http.Error(w, "Login failed.", http.StatusForbidden)
			fails <- err
			return
		}
		fmt.Fprintln(w, "Logged in. You can close this tab.")
		tokens <- tok
	})
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			fails <- err
		}
	}()
	defer server.Close()

	authURL := auth.AuthURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", challenge),
	)
	cfg.IO.Notify("Log in to Spotify here:\n\n    " + authURL + "\n")

	select {
	case tok := <-tokens:
		return tok, nil
	case err := <-fails:
		return nil, fmt.Errorf("login: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pkcePair generates a fresh code verifier and its S256 challenge.
func pkcePair() (verifier, challenge string, err error) {
	raw := make([]byte, 64)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	verifier = base64.RawURLEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(sum[:])
	return verifier, challenge, nil
}
