package player

import (
	"slices"
	"strings"

	"musicify/pkg/models"

	"github.com/samber/lo"
)

// UnknownArtist is the bucket for names without an artist prefix.
const UnknownArtist = "Unknown"

// GridSize is how many entries the "mix" grid shows before the rest spill
// into the "recent" grid.
const GridSize = 4

// ArtistGroup is one artist section of the artist view.
type ArtistGroup struct {
	Artist string
	Tracks []models.TrackRef
}

// Filter returns the tracks whose name contains query, ignoring case, in
// their original order. A blank query returns the full list.
func Filter(tracks []models.TrackRef, query string) []models.TrackRef {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(tracks)
	}
	return lo.Filter(tracks, func(t models.TrackRef, _ int) bool {
		return matches(t.Name, query)
	})
}

func matches(name, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return q == "" || strings.Contains(strings.ToLower(name), q)
}

// ArtistOf derives the artist key from a display name: the text before the
// first "-", trimmed.
func ArtistOf(name string) string {
	before, _, found := strings.Cut(name, "-")
	if !found {
		return UnknownArtist
	}
	if artist := strings.TrimSpace(before); artist != "" {
		return artist
	}
	return UnknownArtist
}

// GroupByArtist buckets tracks by ArtistOf. Groups appear in the order their
// artist is first seen.
func GroupByArtist(tracks []models.TrackRef) []ArtistGroup {
	var groups []ArtistGroup
	index := make(map[string]int)
	for _, t := range tracks {
		artist := ArtistOf(t.Name)
		i, ok := index[artist]
		if !ok {
			i = len(groups)
			index[artist] = i
			groups = append(groups, ArtistGroup{Artist: artist})
		}
		groups[i].Tracks = append(groups[i].Tracks, t)
	}
	return groups
}

// SplitGrid splits entries into the "mix" grid and the "recent" grid.
func SplitGrid(entries []Entry) (mix, recent []Entry) {
	if len(entries) <= GridSize {
		return entries, nil
	}
	return entries[:GridSize], entries[GridSize:]
}
