package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		pattern string
		layout  string
	}{
		{DefaultDatePattern, "2006-01-02 15:04:05"},
		{"yyyy-MM-dd", "2006-01-02"},
		{"dd/MM/yy", "02/01/06"},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSXXX", "2006-01-02T15:04:05.000-07:00"},
		{"hh:mm a", "03:04 PM"},
		{"EEE, d MMM yyyy", "Mon, 2 Jan 2006"},
		{"HH 'o''clock'", "15 o'clock"},
		{"yyyyMMddHHmmss", "20060102150405"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.layout, Layout(tt.pattern))
		})
	}
}

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout(DefaultDatePattern)
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02 15:04:05", layout)

	// quoted letters are literals, not pattern letters
	layout, err = ParseLayout("yyyy'W'ww")
	assert.ErrorIs(t, err, ErrUnsupportedPattern, "w is not supported")
	assert.Equal(t, "2006Www", layout)

	tests := []string{
		"yyyy-DDD",
		"kk:mm",
		"KK:mm a",
		"HH:mm z",
		"u",
	}
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			_, err := ParseLayout(pattern)
			assert.ErrorIs(t, err, ErrUnsupportedPattern)
		})
	}

	// cached results keep the error
	_, err = ParseLayout("yyyy-DDD")
	assert.ErrorIs(t, err, ErrUnsupportedPattern)
	assert.Equal(t, "2006-DDD", Layout("yyyy-DDD"))
}
