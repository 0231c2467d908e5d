package sentences

import (
	"fmt"

	"streamsort/pkg/mobtypes"
)

// Tracks flattens a mob into its track mobs: a track is itself, a
// collection is every track in its item pages, and aggregate members
// that are themselves collections contribute their own tracks.
func Tracks(m mobtypes.Mob) ([]mobtypes.Mob, error) {
	if m.Kind == mobtypes.KindTrack {
		return []mobtypes.Mob{m}, nil
	}
	if m.Items == nil {
		return nil, fmt.Errorf("'%s' does not contain tracks", m.Name)
	}
	var out []mobtypes.Mob
	page := m.Items
	for page != nil {
		for _, item := range page.Items {
			switch {
			case item.Kind == mobtypes.KindTrack:
				out = append(out, item)
			case item.Items != nil:
				sub, err := Tracks(item)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
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
	return out, nil
}

// TrackIDs maps Tracks to remote ids.
func TrackIDs(m mobtypes.Mob) ([]string, error) {
	tracks, err := Tracks(m)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids, nil
}

// TrackURIs maps Tracks to playback URIs.
func TrackURIs(m mobtypes.Mob) ([]string, error) {
	tracks, err := Tracks(m)
	if err != nil {
		return nil, err
	}
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return uris, nil
}

// within reports whether candidate is the subject itself or appears in
// the subject's already-materialized items, directly or as a credited
// album/artist of one. Only the materialized pages are consulted; the
// familiarity check must stay cheap.
func within(subject, candidate mobtypes.Mob) bool {
	if candidate.Same(subject) {
		return true
	}
	if subject.Items == nil {
		return false
	}
	for _, item := range subject.Items.Items {
		if candidate.Same(item) {
			return true
		}
		if item.Album != nil && candidate.Same(*item.Album) {
			return true
		}
		for _, a := range item.Artists {
			if candidate.Same(a) {
				return true
			}
		}
	}
	return false
}
