package sentences

import (
	"streamsort/pkg/mobtypes"
)

// Play starts playback of the resolved query, or of the subject itself
// when the query is absent. A track that lives inside the subject's
// collection plays in that context so playback continues through the
// rest of the collection; anything else plays its own tracks directly.
func Play(opts Options) mobtypes.Sentence {
	open := Open(opts)
	return func(subject mobtypes.State, query mobtypes.Query) (mobtypes.State, error) {
		target := subject.Mob
		if !query.IsEmpty() {
			opened, err := open(subject, query)
			if err != nil {
				return subject, err
			}
			target = opened.Mob
		}
		if playableContext(subject.Mob) && inContext(subject.Mob, target) {
			return subject, subject.API.Play(subject.Mob.URI, target.URI, nil)
		}
		uris, err := TrackURIs(target)
		if err != nil {
			return subject, err
		}
		return subject, subject.API.Play("", "", uris)
	}
}

func playableContext(m mobtypes.Mob) bool {
	return m.Kind != mobtypes.KindTrack && m.Kind != mobtypes.KindArtist
}

// inContext reports whether target is a track somewhere in the
// subject's item collection, paging as far as needed.
func inContext(subject, target mobtypes.Mob) bool {
	if target.Kind != mobtypes.KindTrack || subject.Items == nil {
		return false
	}
	page := subject.Items
	for page != nil {
		for _, item := range page.Items {
			if target.Same(item) {
				return true
			}
		}
		if !page.HasNext() {
			return false
		}
		next, err := page.NextPage()
		if err != nil {
			return false
		}
		page = next
	}
	return false
}
