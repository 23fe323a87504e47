package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTargetKind(t *testing.T) {
	for in, want := range map[string]TargetKind{
		"song":    TargetSong,
		"Songs":   TargetSong,
		" album ": TargetAlbum,
		"ALBUMS":  TargetAlbum,
	} {
		got, err := ParseTargetKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTargetKind("playlist")
	assert.ErrorIs(t, err, ErrInvalidTargetKind)
}
