package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTargetKind = errors.New("invalid target kind")

// TargetKind names the catalog entity a rating or comment is attached to.
type TargetKind string

const (
	TargetSong  TargetKind = "song"
	TargetAlbum TargetKind = "album"
)

// ParseTargetKind accepts singular or plural forms ("song", "songs").
func ParseTargetKind(s string) (TargetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song", "songs":
		return TargetSong, nil
	case "album", "albums":
		return TargetAlbum, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTargetKind, s)
}
