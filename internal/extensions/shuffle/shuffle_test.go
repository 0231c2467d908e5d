package shuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamsort/internal/interaction"
	"streamsort/internal/sentences"
	"streamsort/internal/testutils"
	"streamsort/pkg/mobtypes"
)

func track(id, name string) mobtypes.Mob {
	return mobtypes.Mob{
		Kind: mobtypes.KindTrack,
		ID:   id,
		URI:  "spotify:track:" + id,
		Name: name,
		Artists: []mobtypes.Mob{
			{Kind: mobtypes.KindArtist, ID: "ar1", Name: "The Beatles"},
		},
	}
}

func playlistOf(id, name string, tracks ...mobtypes.Mob) mobtypes.Mob {
	return mobtypes.Mob{
		Kind:       mobtypes.KindPlaylist,
		ID:         id,
		URI:        "spotify:playlist:" + id,
		Name:       name,
		TrackCount: len(tracks),
		Items:      mobtypes.NewItemPage(tracks, len(tracks), nil),
	}
}

func shuffleSentence() mobtypes.Sentence {
	return New(sentences.Open(sentences.Options{IO: interaction.Accepting()}))
}

func TestShuffle_UploadsShuffledCopyInPlace(t *testing.T) {
	api := testutils.NewFakeSession()
	subject := playlistOf("pl1", "Mine",
		track("t1", "Misery"), track("t2", "Anna"),
		track("t3", "Chains"), track("t4", "Boys"),
	)
	api.Put(subject)

	next, err := shuffleSentence()(mobtypes.State{API: api, Mob: subject}, mobtypes.NoQuery())
	require.NoError(t, err)

	require.Len(t, api.Removed["pl1"], 1)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, api.Removed["pl1"][0])
	require.Len(t, api.Added["pl1"], 1)
	assert.ElementsMatch(t, []string{"t1", "t2", "t3", "t4"}, api.Added["pl1"][0],
		"every song comes back, reordered")
	assert.Equal(t, "pl1", next.Mob.ID, "focus is refreshed in place")
}

func TestShuffle_RejectsNonPlaylistTarget(t *testing.T) {
	api := testutils.NewFakeSession()
	subject := playlistOf("pl1", "Mine", track("t1", "Misery"))

	_, err := shuffleSentence()(
		mobtypes.State{API: api, Mob: subject},
		mobtypes.MobQuery(track("t9", "Yesterday")),
	)
	var queryErr *mobtypes.UnsupportedQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "shuffle", queryErr.Verb)
	assert.Empty(t, api.Added)
}

func TestShuffle_KeepsFirstLayerGroupsTogether(t *testing.T) {
	api := testutils.NewFakeSession()
	groupOf := func(name string, tracks ...mobtypes.Mob) mobtypes.Mob {
		return mobtypes.Mob{
			Kind:  mobtypes.KindSet,
			Name:  name,
			Items: mobtypes.NewItemPage(tracks, len(tracks), nil),
		}
	}
	subject := mobtypes.Mob{
		Kind: mobtypes.KindSet,
		Name: "Projects: Mine",
		Items: mobtypes.NewItemPage([]mobtypes.Mob{
			groupOf("Please Please Me", track("a1", "Misery"), track("a2", "Anna")),
			groupOf("Help!", track("b1", "Yesterday"), track("b2", "I Need You")),
		}, 2, nil),
	}
	dest := playlistOf("pl2", "Scrambled")
	api.Put(dest)

	next, err := shuffleSentence()(mobtypes.State{API: api, Mob: subject}, mobtypes.MobQuery(dest))
	require.NoError(t, err)
	assert.Equal(t, subject, next.Mob, "focus stays put when the destination is elsewhere")
	assert.Empty(t, api.Removed, "nothing to clear from an empty destination")

	require.Len(t, api.Added["pl2"], 1)
	ids := api.Added["pl2"][0]
	require.Len(t, ids, 4)
	byAlbum := map[string]string{"a1": "a", "a2": "a", "b1": "b", "b2": "b"}
	assert.Equal(t, byAlbum[ids[0]], byAlbum[ids[1]], "album groups are not torn apart")
	assert.Equal(t, byAlbum[ids[2]], byAlbum[ids[3]], "album groups are not torn apart")
}

func TestShuffle_SubjectWithoutTracks(t *testing.T) {
	api := testutils.NewFakeSession()
	subject := mobtypes.Mob{Kind: mobtypes.KindUser, ID: "idm", Name: "idm"}
	dest := playlistOf("pl1", "Mine")
	api.Put(dest)

	_, err := shuffleSentence()(mobtypes.State{API: api, Mob: subject}, mobtypes.MobQuery(dest))
	var verbErr *mobtypes.UnsupportedVerbError
	require.ErrorAs(t, err, &verbErr)
	assert.Equal(t, "shuffle", verbErr.Verb)
}
