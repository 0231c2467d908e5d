package sentences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamsort/internal/testutils"
	"streamsort/pkg/mobtypes"
)

func TestPlay_SubjectWhenQueryAbsent(t *testing.T) {
	api := testutils.NewFakeSession()
	subject := playlistOf("pl1", "Mine",
		track("t1", "Misery", "The Beatles"),
		track("t2", "Anna", "The Beatles"),
	)

	next, err := Play(silentOpts())(stateWith(api, subject), mobtypes.NoQuery())
	require.NoError(t, err)
	assert.Equal(t, subject, next.Mob, "play never moves the focus")
	require.Len(t, api.Plays, 1)
	// The subject is trivially inside itself, but it is not a track, so
	// its songs are played directly.
	assert.Empty(t, api.Plays[0].ContextURI)
	assert.Equal(t, []string{"spotify:track:t1", "spotify:track:t2"}, api.Plays[0].URIs)
}

func TestPlay_TrackInsideSubjectPlaysInContext(t *testing.T) {
	api := testutils.NewFakeSession()
	inside := track("t2", "Anna", "The Beatles")
	subject := playlistOf("pl1", "Mine", track("t1", "Misery", "The Beatles"), inside)

	_, err := Play(silentOpts())(stateWith(api, subject), mobtypes.MobQuery(inside))
	require.NoError(t, err)
	require.Len(t, api.Plays, 1)
	assert.Equal(t, subject.URI, api.Plays[0].ContextURI)
	assert.Equal(t, inside.URI, api.Plays[0].OffsetURI)
	assert.Empty(t, api.Plays[0].URIs)
}

func TestPlay_OutsideTrackPlaysDirectly(t *testing.T) {
	api := testutils.NewFakeSession()
	outside := track("t9", "Yesterday", "The Beatles")
	subject := playlistOf("pl1", "Mine", track("t1", "Misery", "The Beatles"))

	_, err := Play(silentOpts())(stateWith(api, subject), mobtypes.MobQuery(outside))
	require.NoError(t, err)
	require.Len(t, api.Plays, 1)
	assert.Empty(t, api.Plays[0].ContextURI)
	assert.Equal(t, []string{"spotify:track:t9"}, api.Plays[0].URIs)
}

func TestAll_FocusesLikedSongs(t *testing.T) {
	api := testutils.NewFakeSession()
	api.Saved = []mobtypes.Mob{track("t1", "Misery", "The Beatles")}

	next, err := All(silentOpts())(stateWith(api, mobtypes.Mob{Kind: mobtypes.KindUser, Name: "idm"}), mobtypes.NoQuery())
	require.NoError(t, err)
	assert.Equal(t, mobtypes.KindSet, next.Mob.Kind)
	assert.Equal(t, "Liked Songs", next.Mob.Name)
	assert.Equal(t, 1, next.Mob.TrackCount)
}

func TestNew_CreatesAndFocusesPlaylist(t *testing.T) {
	api := testutils.NewFakeSession()

	next, err := New(silentOpts())(stateWith(api, mobtypes.Mob{}), mobtypes.TextQuery("Road Trip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Road Trip"}, api.Created)
	assert.Equal(t, mobtypes.KindPlaylist, next.Mob.Kind)
	assert.Equal(t, "Road Trip", next.Mob.Name)

	_, err = New(silentOpts())(stateWith(api, mobtypes.Mob{}), mobtypes.NoQuery())
	assert.EqualError(t, err, "'new' requires a playlist name")
}
