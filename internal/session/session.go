// Package session adapts the Spotify Web API to the mobtypes.Session
// interface the shell runs against. It owns authentication, object
// conversion, and page-by-page fetching of item collections.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"streamsort/internal/cache"
	"streamsort/internal/logger"
	"streamsort/pkg/mobtypes"
)

// editChunk is the most tracks one playlist edit request may carry.
const editChunk = 100

// Session is a logged-in Spotify connection.
type Session struct {
	ctx    context.Context
	client *spotify.Client
	store  *cache.Store
	user   mobtypes.Mob
}

var _ mobtypes.Session = (*Session)(nil)

// Me implements mobtypes.Session.
func (s *Session) Me() (mobtypes.Mob, error) { return s.user, nil }

// Lookup implements mobtypes.Session. Collections come back with their
// first item page materialized.
func (s *Session) Lookup(kind mobtypes.Kind, id string) (mobtypes.Mob, error) {
	logger.Debug("lookup", "kind", kind, "id", id)
	switch kind {
	case mobtypes.KindTrack:
		t, err := s.client.GetTrack(s.ctx, spotify.ID(id))
		if err != nil {
			return mobtypes.Mob{}, err
		}
		return fromFullTrack(t), nil

	case mobtypes.KindAlbum:
		a, err := s.client.GetAlbum(s.ctx, spotify.ID(id))
		if err != nil {
			return mobtypes.Mob{}, err
		}
		m := fromSimpleAlbum(a.SimpleAlbum)
		m.Items = s.albumItems(&m, &a.Tracks)
		return m, nil

	case mobtypes.KindArtist:
		a, err := s.client.GetArtist(s.ctx, spotify.ID(id))
		if err != nil {
			return mobtypes.Mob{}, err
		}
		return fromFullArtist(a), nil

	case mobtypes.KindPlaylist:
		p, err := s.client.GetPlaylist(s.ctx, spotify.ID(id))
		if err != nil {
			return mobtypes.Mob{}, err
		}
		m := fromSimplePlaylist(p.SimplePlaylist)
		m.Items = s.playlistItems(&p.Tracks)
		return m, nil

	case mobtypes.KindUser:
		u, err := s.client.GetUsersPublicProfile(s.ctx, spotify.ID(id))
		if err != nil {
			return mobtypes.Mob{}, err
		}
		return fromUser(u), nil
	}
	return mobtypes.Mob{}, fmt.Errorf("cannot look up a %s by id", kind)
}

var searchTypes = map[mobtypes.Kind]spotify.SearchType{
	mobtypes.KindTrack:    spotify.SearchTypeTrack,
	mobtypes.KindAlbum:    spotify.SearchTypeAlbum,
	mobtypes.KindArtist:   spotify.SearchTypeArtist,
	mobtypes.KindPlaylist: spotify.SearchTypePlaylist,
}

// Search implements mobtypes.Session.
func (s *Session) Search(query string, kinds []mobtypes.Kind) (map[mobtypes.Kind]*mobtypes.ItemPage, error) {
	var mask spotify.SearchType
	for _, k := range kinds {
		mask |= searchTypes[k]
	}
	logger.Debug("search", "query", query, "kinds", kinds)
	result, err := s.client.Search(s.ctx, query, mask, spotify.Limit(50))
	if err != nil {
		return nil, err
	}

	out := make(map[mobtypes.Kind]*mobtypes.ItemPage, len(kinds))
	for _, k := range kinds {
		out[k] = mobtypes.NewItemPage(nil, 0, nil)
	}
	if result.Tracks != nil {
		out[mobtypes.KindTrack] = s.trackResults(result.Tracks)
	}
	if result.Albums != nil {
		out[mobtypes.KindAlbum] = s.albumResults(result.Albums)
	}
	if result.Artists != nil {
		out[mobtypes.KindArtist] = s.artistResults(result.Artists)
	}
	if result.Playlists != nil {
		out[mobtypes.KindPlaylist] = s.playlistResults(result.Playlists)
	}
	return out, nil
}

// SavedTracks implements mobtypes.Session.
func (s *Session) SavedTracks() (*mobtypes.ItemPage, error) {
	page, err := s.client.CurrentUsersTracks(s.ctx, spotify.Limit(50))
	if err != nil {
		return nil, err
	}
	return s.savedItems(page), nil
}

// CreatePlaylist implements mobtypes.Session.
func (s *Session) CreatePlaylist(name string) (mobtypes.Mob, error) {
	p, err := s.client.CreatePlaylistForUser(s.ctx, s.user.ID, name, "", false, false)
	if err != nil {
		return mobtypes.Mob{}, err
	}
	m := fromSimplePlaylist(p.SimplePlaylist)
	m.Items = s.playlistItems(&p.Tracks)
	return m, nil
}

// AddToPlaylist implements mobtypes.Session.
func (s *Session) AddToPlaylist(playlistID string, trackIDs []string) error {
	for _, chunk := range chunked(trackIDs) {
		if _, err := s.client.AddTracksToPlaylist(s.ctx, spotify.ID(playlistID), chunk...); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFromPlaylist implements mobtypes.Session.
func (s *Session) RemoveFromPlaylist(playlistID string, trackIDs []string) error {
	for _, chunk := range chunked(trackIDs) {
		if _, err := s.client.RemoveTracksFromPlaylist(s.ctx, spotify.ID(playlistID), chunk...); err != nil {
			return err
		}
	}
	return nil
}

func chunked(ids []string) [][]spotify.ID {
	var chunks [][]spotify.ID
	for start := 0; start < len(ids); start += editChunk {
		end := min(start+editChunk, len(ids))
		chunk := make([]spotify.ID, 0, end-start)
		for _, id := range ids[start:end] {
			chunk = append(chunk, spotify.ID(id))
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Play implements mobtypes.Session.
func (s *Session) Play(contextURI, offsetURI string, uris []string) error {
	opt := &spotify.PlayOptions{}
	if contextURI != "" {
		playbackContext := spotify.URI(contextURI)
		opt.PlaybackContext = &playbackContext
		if offsetURI != "" {
			opt.PlaybackOffset = &spotify.PlaybackOffset{URI: spotify.URI(offsetURI)}
		}
	} else {
		for _, u := range uris {
			opt.URIs = append(opt.URIs, spotify.URI(u))
		}
	}
	return s.client.PlayOpt(s.ctx, opt)
}

// Logout implements mobtypes.Session.
func (s *Session) Logout() error {
	logger.Info("logging out", "user", s.user.ID)
	return s.store.DeleteToken()
}

// The page wrappers below turn one Spotify page type each into an
// ItemPage whose continuation advances the underlying page in place and
// re-wraps it. NextPage mutating its argument is a library quirk; the
// re-wrap keeps that invisible to callers.

// memoNext makes a continuation repeatable. Every continuation in this
// file captures a shared page pointer that NextPage mutates, so the
// remote fetch must run at most once: later calls re-yield the first
// result instead of advancing past it. Item slices are converted copies
// taken at wrap time, so earlier ItemPages never observe later fetches.
// A failed fetch is not memoized and will be retried.
func memoNext(fetch func() (*mobtypes.ItemPage, error)) mobtypes.NextFunc {
	var memo *mobtypes.ItemPage
	var fetched bool
	return func() (*mobtypes.ItemPage, error) {
		if fetched {
			return memo, nil
		}
		next, err := fetch()
		if err != nil {
			return nil, err
		}
		memo, fetched = next, true
		return memo, nil
	}
}

func (s *Session) playlistItems(page *spotify.PlaylistTrackPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Tracks))
	for i := range page.Tracks {
		items = append(items, fromFullTrack(&page.Tracks[i].Track))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.playlistItems(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) albumItems(album *mobtypes.Mob, page *spotify.SimpleTrackPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		items = append(items, fromSimpleTrack(t, album))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.albumItems(album, page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) savedItems(page *spotify.SavedTrackPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Tracks))
	for i := range page.Tracks {
		items = append(items, fromFullTrack(&page.Tracks[i].FullTrack))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.savedItems(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) trackResults(page *spotify.FullTrackPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Tracks))
	for i := range page.Tracks {
		items = append(items, fromFullTrack(&page.Tracks[i]))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.trackResults(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) albumResults(page *spotify.SimpleAlbumPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Albums))
	for _, a := range page.Albums {
		items = append(items, fromSimpleAlbum(a))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.albumResults(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) artistResults(page *spotify.FullArtistPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Artists))
	for i := range page.Artists {
		items = append(items, fromFullArtist(&page.Artists[i]))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.artistResults(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

func (s *Session) playlistResults(page *spotify.SimplePlaylistPage) *mobtypes.ItemPage {
	items := make([]mobtypes.Mob, 0, len(page.Playlists))
	for _, p := range page.Playlists {
		items = append(items, fromSimplePlaylist(p))
	}
	var next mobtypes.NextFunc
	if page.Next != "" {
		next = memoNext(func() (*mobtypes.ItemPage, error) {
			if done, err := s.advance(page); done || err != nil {
				return nil, err
			}
			return s.playlistResults(page), nil
		})
	}
	return mobtypes.NewItemPage(items, int(page.Total), next)
}

// advance fetches the next remote page into p. NextPage mutates its
// argument; the wrappers above re-wrap the same pointer afterwards so
// callers only ever see fresh ItemPages.
func (s *Session) advance(p interface{}) (done bool, err error) {
	switch page := p.(type) {
	case *spotify.PlaylistTrackPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.SimpleTrackPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.SavedTrackPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.FullTrackPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.SimpleAlbumPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.FullArtistPage:
		err = s.client.NextPage(s.ctx, page)
	case *spotify.SimplePlaylistPage:
		err = s.client.NextPage(s.ctx, page)
	default:
		return true, fmt.Errorf("unpageable %T", p)
	}
	if errors.Is(err, spotify.ErrNoMorePages) {
		return true, nil
	}
	return false, err
}
