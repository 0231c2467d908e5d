package shell

import (
	"bytes"
	"errors"
	"fmt"
	"net"
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
			{Kind: mobtypes.KindArtist, ID: "ar1", URI: "spotify:artist:ar1", Name: "The Beatles"},
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

func testRegistry() *sentences.Registry {
	return sentences.NewRegistry(sentences.Options{IO: interaction.Accepting()})
}

func userState(api mobtypes.Session) mobtypes.State {
	return mobtypes.State{
		API:    api,
		Mob:    mobtypes.Mob{Kind: mobtypes.KindUser, ID: "idm", URI: "spotify:user:idm", Name: "idm"},
		Scopes: mobtypes.Scopes{},
	}
}

func TestEvaluate_QuotedQueryReachesSearchIntact(t *testing.T) {
	api := testutils.NewFakeSession()
	hit := track("t1", "Love Me Do")
	api.Results[mobtypes.KindTrack] = []mobtypes.Mob{hit}

	next, err := Evaluate(userState(api), `open "love me do"`, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, hit.ID, next.Mob.ID)
	assert.Equal(t, []string{"love me do"}, api.Searches, "the quoted phrase is one parameter")
}

func TestEvaluate_TrackPipeline(t *testing.T) {
	api := testutils.NewFakeSession()
	subject := playlistOf("pl1", "Mine", track("t1", "Misery"), track("t2", "Anna"))
	st := userState(api).WithMob(subject)

	next, err := Evaluate(st, "play track 2", testRegistry())
	require.NoError(t, err)
	assert.Equal(t, subject, next.Mob, "play keeps the focus")
	require.Len(t, api.Plays, 1)
	assert.Equal(t, subject.URI, api.Plays[0].ContextURI)
	assert.Equal(t, "spotify:track:t2", api.Plays[0].OffsetURI)
}

func TestEvaluate_SubshellWorkflow(t *testing.T) {
	api := testutils.NewFakeSession()
	misery := track("t1", "Misery")
	api.Results[mobtypes.KindTrack] = []mobtypes.Mob{misery}
	reg := testRegistry()

	st, err := Evaluate(userState(api), "favs open misery", reg)
	require.NoError(t, err)
	assert.Equal(t, "idm", st.Mob.ID, "defining a subshell leaves the focus alone")
	scope, ok := st.Scopes.Get("favs")
	require.True(t, ok)
	assert.Equal(t, misery.ID, scope.Mob.ID)

	anna := track("t2", "Anna")
	api.Results[mobtypes.KindTrack] = []mobtypes.Mob{anna}
	st, err = Evaluate(st, "in favs open anna", reg)
	require.NoError(t, err)
	assert.Equal(t, "idm", st.Mob.ID, "`in` never moves the outer focus")
	scope, _ = st.Scopes.Get("favs")
	assert.Equal(t, anna.ID, scope.Mob.ID)

	st, err = Evaluate(st, "favs", reg)
	require.NoError(t, err)
	assert.Equal(t, anna.ID, st.Mob.ID, "loading a subshell adopts its focus")
}

func TestEvaluate_ErrorKeepsState(t *testing.T) {
	api := testutils.NewFakeSession()
	st := userState(api)

	next, err := Evaluate(st, "in nowhere open anything", testRegistry())
	assert.EqualError(t, err, "Invalid subshell name after 'in'")
	assert.Equal(t, st, next)
}

func TestEvaluate_BlankLineIsIdentity(t *testing.T) {
	api := testutils.NewFakeSession()
	st := userState(api)

	next, err := Evaluate(st, "   \t ", testRegistry())
	require.NoError(t, err)
	assert.Equal(t, st, next)
	assert.Empty(t, api.Searches)
}

func TestRelogin(t *testing.T) {
	old := testutils.NewFakeSession()
	st := userState(old)
	st = st.WithScope("favs", st)

	fresh := testutils.NewFakeSession()
	fresh.UserMob = mobtypes.Mob{Kind: mobtypes.KindUser, ID: "other", Name: "other"}
	opts := Options{Reconnect: func() (mobtypes.Session, error) { return fresh, nil }}

	next, err := relogin(st, opts)
	require.NoError(t, err)
	assert.True(t, old.LoggedOut)
	assert.Equal(t, "other", next.Mob.ID)
	assert.Empty(t, next.Scopes, "scopes do not survive a logout")
}

func TestHandleLogout_FailureKeepsSession(t *testing.T) {
	api := testutils.NewFakeSession()
	api.LogoutErr = errors.New("token store locked")
	st := userState(api)
	st = st.WithScope("favs", st)
	opts := Options{Reconnect: func() (mobtypes.Session, error) {
		t.Fatal("no reconnect when logout itself failed")
		return nil, nil
	}}

	var out bytes.Buffer
	next := handleLogout(st, opts, &out)
	assert.Equal(t, st, next, "the old session stays current")
	assert.Equal(t, "    ERROR: token store locked\n", out.String())
}

func TestHandleLogout_Success(t *testing.T) {
	old := testutils.NewFakeSession()
	st := userState(old)
	fresh := testutils.NewFakeSession()
	fresh.UserMob = mobtypes.Mob{Kind: mobtypes.KindUser, ID: "other", Name: "other"}

	var out bytes.Buffer
	next := handleLogout(st, Options{
		Reconnect: func() (mobtypes.Session, error) { return fresh, nil },
	}, &out)
	assert.True(t, old.LoggedOut)
	assert.Equal(t, "other", next.Mob.ID)
	assert.Empty(t, out.String())
}

func TestRelogin_Unavailable(t *testing.T) {
	st := userState(testutils.NewFakeSession())
	_, err := relogin(st, Options{})
	assert.Error(t, err)
}

func TestIsConnectionError(t *testing.T) {
	opErr := &net.OpError{Op: "read", Err: errors.New("reset")}
	assert.True(t, isConnectionError(opErr))
	assert.True(t, isConnectionError(fmt.Errorf("search: %w", opErr)), "wrapped errors count")
	assert.False(t, isConnectionError(errors.New("HTTP 404")))
	assert.False(t, isConnectionError(mobtypes.ErrNoResults))
}

func TestStateWithAPI_SwapsScopesToo(t *testing.T) {
	old := testutils.NewFakeSession()
	st := userState(old)
	st = st.WithScope("favs", st)

	fresh := testutils.NewFakeSession()
	swapped := st.WithAPI(fresh)
	assert.Same(t, fresh, swapped.API)
	scope, _ := swapped.Scopes.Get("favs")
	assert.Same(t, fresh, scope.API)
	assert.Equal(t, st.Mob, swapped.Mob, "focus survives the swap")
}
