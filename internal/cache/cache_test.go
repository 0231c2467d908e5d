package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"streamsort/pkg/mobtypes"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "streamsort.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s := tempStore(t)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Nil(t, tok, "fresh store has no token")

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, s.SaveToken(want))

	got, err := s.Token()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)

	require.NoError(t, s.DeleteToken())
	got, err = s.Token()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func savedTrack(id, albumID string, artistIDs ...string) mobtypes.Mob {
	m := mobtypes.Mob{Kind: mobtypes.KindTrack, ID: id, Name: id}
	m.Album = &mobtypes.Mob{Kind: mobtypes.KindAlbum, ID: albumID}
	for _, a := range artistIDs {
		m.Artists = append(m.Artists, mobtypes.Mob{Kind: mobtypes.KindArtist, ID: a})
	}
	return m
}

func fetchOf(fetches *int, pages ...[]mobtypes.Mob) func() (*mobtypes.ItemPage, error) {
	total := 0
	for _, p := range pages {
		total += len(p)
	}
	var build func(i int) *mobtypes.ItemPage
	build = func(i int) *mobtypes.ItemPage {
		var next mobtypes.NextFunc
		if i+1 < len(pages) {
			j := i
			next = func() (*mobtypes.ItemPage, error) { return build(j + 1), nil }
		}
		return mobtypes.NewItemPage(pages[i], total, next)
	}
	return func() (*mobtypes.ItemPage, error) {
		*fetches++
		return build(0), nil
	}
}

func TestStore_LibraryBuildsIndex(t *testing.T) {
	s := tempStore(t)
	fetches := 0
	fetch := fetchOf(&fetches,
		[]mobtypes.Mob{savedTrack("t1", "al1", "ar1"), savedTrack("t2", "al1", "ar2")},
		[]mobtypes.Mob{savedTrack("t3", "al2", "ar1")},
	)

	lib, err := s.Library(fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Total)
	assert.True(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindTrack, ID: "t2"}))
	assert.True(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindAlbum, ID: "al2"}))
	assert.True(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindArtist, ID: "ar2"}))
	assert.False(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindTrack, ID: "t9"}))

	// One track by a liked artist counts through the artist fallback.
	byLikedArtist := savedTrack("t9", "al9", "ar1")
	assert.True(t, lib.Contains(byLikedArtist))
}

func TestStore_LibraryUsesFreshCache(t *testing.T) {
	s := tempStore(t)
	fetches := 0
	fetch := fetchOf(&fetches, []mobtypes.Mob{savedTrack("t1", "al1", "ar1")})

	_, err := s.Library(fetch)
	require.NoError(t, err)
	require.Equal(t, 1, fetches)

	lib, err := s.Library(fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches, "refresh check costs one page-zero fetch")
	assert.True(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindTrack, ID: "t1"}))
}

func TestStore_LibraryRefreshesOnTotalChange(t *testing.T) {
	s := tempStore(t)
	fetches := 0

	_, err := s.Library(fetchOf(&fetches, []mobtypes.Mob{savedTrack("t1", "al1", "ar1")}))
	require.NoError(t, err)

	grown := fetchOf(&fetches, []mobtypes.Mob{
		savedTrack("t1", "al1", "ar1"),
		savedTrack("t2", "al2", "ar2"),
	})
	lib, err := s.Library(grown)
	require.NoError(t, err)
	assert.True(t, lib.Contains(mobtypes.Mob{Kind: mobtypes.KindTrack, ID: "t2"}),
		"total mismatch forces a rebuild")
}

func TestStore_LibraryRefreshesWhenStale(t *testing.T) {
	s := tempStore(t)
	fetches := 0
	fetch := fetchOf(&fetches, []mobtypes.Mob{savedTrack("t1", "al1", "ar1")})

	lib, err := s.Library(fetch)
	require.NoError(t, err)

	// Age the stored copy past the staleness window.
	lib.AsOf = time.Now().Add(-7 * 24 * time.Hour)
	require.NoError(t, s.saveLibrary(lib))

	_, err = s.Library(fetch)
	require.NoError(t, err)
	reloaded, err := s.loadLibrary()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), reloaded.AsOf, time.Minute)
}
