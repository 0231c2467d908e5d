// Package projects is the StreamSort projects extension: it regroups a
// flat track listing into its constituent albums, producing an
// aggregate mob whose members are one group per album in first-seen
// order.
package projects

import (
	"streamsort/internal/interaction"
	"streamsort/internal/sentences"
	"streamsort/pkg/mobtypes"
)

// New builds the projects sentence. The query (or, absent one, the
// subject itself) is resolved via open and its tracks are grouped by
// album.
func New(open mobtypes.Sentence, io interaction.IO) mobtypes.Sentence {
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		target := subject.Mob
		if !query.IsEmpty() {
			opened, err := open(subject, query)
			if err != nil {
				return subject, err
			}
			target = opened.Mob
		}
		io.Notify(`    NOTE: "projects" may take a while`)

		tracks, err := sentences.Tracks(target)
		if err != nil {
			return subject, err
		}
		groups := divide(tracks)
		return subject.WithMob(mobtypes.Mob{
			Kind:       mobtypes.KindSet,
			Name:       "Projects: " + target.Name,
			TrackCount: len(groups),
			Items:      mobtypes.NewItemPage(groups, len(groups), nil),
		}), nil
	}
}

// divide groups tracks by album, keeping albums in first-seen order and
// tracks in listing order. Tracks without album credit form singleton
// groups.
func divide(tracks []mobtypes.Mob) []mobtypes.Mob {
	var order []string
	grouped := map[string][]mobtypes.Mob{}
	names := map[string]string{}

	for _, t := range tracks {
		key, name := t.ID, t.Name
		if t.Album != nil {
			key, name = t.Album.ID, t.Album.Name
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
			names[key] = name
		}
		grouped[key] = append(grouped[key], t)
	}

	groups := make([]mobtypes.Mob, 0, len(order))
	for _, key := range order {
		members := grouped[key]
		groups = append(groups, mobtypes.Mob{
			Kind:       mobtypes.KindSet,
			Name:       names[key],
			TrackCount: len(members),
			Items:      mobtypes.NewItemPage(members, len(members), nil),
		})
	}
	return groups
}
