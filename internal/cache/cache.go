// Package cache persists what survives between runs: the OAuth token
// and an index of the user's liked songs. Both live in one bbolt file
// so a `logout` only has to drop a key, not a directory of JSON blobs.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/oauth2"

	"streamsort/pkg/mobtypes"
)

var (
	bucketAuth    = []byte("auth")
	bucketLibrary = []byte("library")
	keyToken      = []byte("token")
	keyLiked      = []byte("liked_songs")
)

// maxAge is how long the liked-songs index stays trusted when the
// remote total has not moved.
const maxAge = 6 * 24 * time.Hour

// Store is the on-disk cache.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the cache file, making parent directories as
// needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketLibrary} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("init cache buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the file.
func (s *Store) Close() error { return s.db.Close() }

// Token returns the stored OAuth token, or nil when none is stored.
func (s *Store) Token() (*oauth2.Token, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketAuth).Get(keyToken); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	return &tok, nil
}

// SaveToken stores the OAuth token.
func (s *Store) SaveToken(tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAuth).Put(keyToken, raw)
	})
}

// DeleteToken forgets the stored token. Used by `logout`.
func (s *Store) DeleteToken() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAuth).Delete(keyToken)
	})
}

// Library is the liked-songs index. Albums and artists are included
// when even one associated song is saved.
type Library struct {
	Tracks  []string  `json:"track"`
	Albums  []string  `json:"album"`
	Artists []string  `json:"artist"`
	Total   int       `json:"total"`
	AsOf    time.Time `json:"as_of"`

	trackSet, albumSet, artistSet map[string]bool
}

func (l *Library) index() {
	l.trackSet = toSet(l.Tracks)
	l.albumSet = toSet(l.Albums)
	l.artistSet = toSet(l.Artists)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Contains reports whether the mob, or for tracks and albums any of its
// credited artists, appears in the liked-songs index.
func (l *Library) Contains(m mobtypes.Mob) bool {
	switch m.Kind {
	case mobtypes.KindTrack:
		if l.trackSet[m.ID] {
			return true
		}
	case mobtypes.KindAlbum:
		if l.albumSet[m.ID] {
			return true
		}
	case mobtypes.KindArtist:
		return l.artistSet[m.ID]
	default:
		return false
	}
	for _, a := range m.Artists {
		if l.artistSet[a.ID] {
			return true
		}
	}
	return false
}

// Library returns the liked-songs index, refreshing it from the remote
// listing when it is older than six days or the saved-track total has
// changed. fetch must return the first page of the user's saved tracks.
func (s *Store) Library(fetch func() (*mobtypes.ItemPage, error)) (*Library, error) {
	cached, err := s.loadLibrary()
	if err != nil {
		return nil, err
	}
	page, err := fetch()
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.Total == page.Total && time.Since(cached.AsOf) < maxAge {
		return cached, nil
	}
	lib, err := buildLibrary(page)
	if err != nil {
		return nil, err
	}
	if err := s.saveLibrary(lib); err != nil {
		return nil, err
	}
	return lib, nil
}

func buildLibrary(page *mobtypes.ItemPage) (*Library, error) {
	lib := &Library{Total: page.Total, AsOf: time.Now()}
	tracks, albums, artists := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for page != nil {
		for _, t := range page.Items {
			tracks[t.ID] = true
			if t.Album != nil {
				albums[t.Album.ID] = true
			}
			for _, a := range t.Artists {
				artists[a.ID] = true
			}
		}
		if !page.HasNext() {
			break
		}
		next, err := page.NextPage()
		if err != nil {
			return nil, err
		}
		page = next
	}
	for id := range tracks {
		lib.Tracks = append(lib.Tracks, id)
	}
	for id := range albums {
		lib.Albums = append(lib.Albums, id)
	}
	for id := range artists {
		lib.Artists = append(lib.Artists, id)
	}
	lib.index()
	return lib, nil
}

func (s *Store) loadLibrary() (*Library, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketLibrary).Get(keyLiked); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}
	var lib Library
	if err := json.Unmarshal(raw, &lib); err != nil {
		return nil, fmt.Errorf("decode liked-songs cache: %w", err)
	}
	lib.index()
	return &lib, nil
}

func (s *Store) saveLibrary(lib *Library) error {
	raw, err := json.Marshal(lib)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLibrary).Put(keyLiked, raw)
	})
}
