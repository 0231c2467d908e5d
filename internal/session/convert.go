package session

import (
	"github.com/zmb3/spotify/v2"

	"streamsort/pkg/mobtypes"
)

// The converters in this file flatten Spotify API objects into mobs.
// They never fetch; item collections are attached by the Session's page
// wrappers.

func fromSimpleArtist(a spotify.SimpleArtist) mobtypes.Mob {
	return mobtypes.Mob{
		Kind: mobtypes.KindArtist,
		ID:   string(a.ID),
		URI:  string(a.URI),
		Name: a.Name,
	}
}

func fromFullArtist(a *spotify.FullArtist) mobtypes.Mob {
	return fromSimpleArtist(a.SimpleArtist)
}

func fromSimpleAlbum(a spotify.SimpleAlbum) mobtypes.Mob {
	m := mobtypes.Mob{
		Kind:       mobtypes.KindAlbum,
		ID:         string(a.ID),
		URI:        string(a.URI),
		Name:       a.Name,
		TrackCount: int(a.TotalTracks),
	}
	for _, artist := range a.Artists {
		m.Artists = append(m.Artists, fromSimpleArtist(artist))
	}
	return m
}

func fromFullTrack(t *spotify.FullTrack) mobtypes.Mob {
	m := mobtypes.Mob{
		Kind: mobtypes.KindTrack,
		ID:   string(t.ID),
		URI:  string(t.URI),
		Name: t.Name,
	}
	for _, artist := range t.Artists {
		m.Artists = append(m.Artists, fromSimpleArtist(artist))
	}
	if t.Album.ID != "" {
		album := fromSimpleAlbum(t.Album)
		m.Album = &album
	}
	return m
}

// fromSimpleTrack converts an album listing entry. The containing album
// is passed in because the listing omits it.
func fromSimpleTrack(t spotify.SimpleTrack, album *mobtypes.Mob) mobtypes.Mob {
	m := mobtypes.Mob{
		Kind:  mobtypes.KindTrack,
		ID:    string(t.ID),
		URI:   string(t.URI),
		Name:  t.Name,
		Album: album,
	}
	for _, artist := range t.Artists {
		m.Artists = append(m.Artists, fromSimpleArtist(artist))
	}
	return m
}

func fromSimplePlaylist(p spotify.SimplePlaylist) mobtypes.Mob {
	return mobtypes.Mob{
		Kind:       mobtypes.KindPlaylist,
		ID:         string(p.ID),
		URI:        string(p.URI),
		Name:       p.Name,
		Owner:      p.Owner.DisplayName,
		TrackCount: int(p.Tracks.Total),
	}
}

func fromUser(u *spotify.User) mobtypes.Mob {
	name := u.DisplayName
	if name == "" {
		name = u.ID
	}
	return mobtypes.Mob{
		Kind: mobtypes.KindUser,
		ID:   u.ID,
		URI:  string(u.URI),
		Name: name,
	}
}
