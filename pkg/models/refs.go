package models

import "github.com/samber/lo"

// Ref converts the row into a playable reference, mapping NULL to "".
func (f Favorite) Ref() TrackRef {
	return TrackRef{Name: lo.FromPtr(f.Name), Path: lo.FromPtr(f.Path)}
}

// Ref converts the row into a playable reference, mapping NULL to "".
func (s PlaylistSong) Ref() TrackRef {
	return TrackRef{Name: lo.FromPtr(s.Name), Path: lo.FromPtr(s.Path)}
}

// DisplayName returns the playlist name or an empty string for NULL names.
func (p Playlist) DisplayName() string {
	return lo.FromPtr(p.Name)
}
