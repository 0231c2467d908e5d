package sentences

import (
	"strings"

	"streamsort/internal/render"
	"streamsort/pkg/mobtypes"
)

const (
	uriPrefix = "spotify:"
	urlPrefix = "https://open.spotify.com/"

	// numSuggestions bounds how many times an ambiguous search may ask
	// the user before giving up on a tier.
	numSuggestions = 3
)

// searchOrder is the kind priority for untagged searches.
var searchOrder = []mobtypes.Kind{
	mobtypes.KindTrack,
	mobtypes.KindAlbum,
	mobtypes.KindArtist,
	mobtypes.KindPlaylist,
}

// Open returns the specified item as the new subject. A mob query is
// focused directly; a text query is resolved against Spotify: exact
// URIs and share URLs load directly, `track:`/`album:`/`artist:`/
// `playlist:` tags narrow the search, and results are tried in
// familiarity tiers: inside the current subject first, then the
// liked-songs library, then everything else. A lone confident hit is
// announced through Notify; ambiguity asks up to three confirmations.
func Open(opts Options) mobtypes.Sentence {
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		if m, ok := query.Mob(); ok {
			return subject.WithMob(m), nil
		}
		text, ok := query.Text()
		if !ok {
			return subject, mobtypes.ErrNoResults
		}
		mob, err := openText(subject, text, opts)
		if err != nil {
			return subject, err
		}
		return subject.WithMob(mob), nil
	}
}

func openText(subject mobtypes.State, text string, opts Options) (mobtypes.Mob, error) {
	if kind, id, ok := asURI(text); ok {
		return subject.API.Lookup(kind, id)
	}
	results, err := subject.API.Search(text, taggedKinds(text))
	if err != nil {
		return mobtypes.Mob{}, err
	}

	var candidates []mobtypes.Mob
	for _, kind := range searchOrder {
		if page := results[kind]; page != nil {
			candidates = append(candidates, page.Items...)
		}
	}
	if len(candidates) == 0 {
		return mobtypes.Mob{}, mobtypes.ErrNoResults
	}

	var library Library
	if opts.Library != nil {
		// Best effort: a broken cache only costs the familiarity tier.
		library, _ = opts.Library(subject.API.SavedTracks)
	}

	for tier := 0; tier < 3; tier++ {
		var hits []mobtypes.Mob
		for _, c := range candidates {
			switch tier {
			case 0:
				if within(subject.Mob, c) {
					hits = append(hits, c)
				}
			case 1:
				if library != nil && library.Contains(c) {
					hits = append(hits, c)
				}
			default:
				hits = append(hits, c)
			}
		}
		if len(hits) == 1 {
			opts.IO.Notify("Using " + render.Render(hits[0]))
			return materialize(subject.API, hits[0])
		}
		for i, c := range hits {
			if i >= numSuggestions {
				break
			}
			if opts.IO.Confirm("Continue with " + render.Render(c) + "?") {
				return materialize(subject.API, c)
			}
		}
	}
	return mobtypes.Mob{}, mobtypes.ErrNoResults
}

// materialize upgrades a search hit to its full object when the hit is
// a collection whose items were not part of the search payload.
func materialize(api mobtypes.Session, m mobtypes.Mob) (mobtypes.Mob, error) {
	switch m.Kind {
	case mobtypes.KindAlbum, mobtypes.KindPlaylist:
		if m.Items == nil && m.ID != "" && api != nil {
			return api.Lookup(m.Kind, m.ID)
		}
	}
	return m, nil
}

// taggedKinds narrows the search to the first recognized field tag;
// untagged queries search everything.
func taggedKinds(text string) []mobtypes.Kind {
	for _, kind := range []mobtypes.Kind{
		mobtypes.KindPlaylist,
		mobtypes.KindTrack,
		mobtypes.KindAlbum,
		mobtypes.KindArtist,
	} {
		if strings.Contains(text, string(kind)+":") {
			return []mobtypes.Kind{kind}
		}
	}
	return searchOrder
}

// asURI recognizes canonical `spotify:kind:id` URIs and open.spotify.com
// share links.
func asURI(text string) (mobtypes.Kind, string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, urlPrefix) {
		path := strings.SplitN(strings.TrimPrefix(text, urlPrefix), "?", 2)[0]
		parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
		if len(parts) >= 2 {
			return checkURIParts(parts[len(parts)-2], parts[len(parts)-1])
		}
		return "", "", false
	}
	parts := strings.Split(text, ":")
	if len(parts) == 3 && parts[0] == "spotify" {
		return checkURIParts(parts[1], parts[2])
	}
	return "", "", false
}

func checkURIParts(kind, id string) (mobtypes.Kind, string, bool) {
	switch mobtypes.Kind(kind) {
	case mobtypes.KindTrack, mobtypes.KindAlbum, mobtypes.KindArtist,
		mobtypes.KindPlaylist, mobtypes.KindUser:
	default:
		return "", "", false
	}
	if id == "" || !isAlphanumeric(id) {
		return "", "", false
	}
	return mobtypes.Kind(kind), id, true
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
