package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Contains(t, info.String(), "streamsort "+Version)
}

func TestCurrentVersionIsValid(t *testing.T) {
	assert.True(t, IsValid(Version))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"1.0.0", true},
		{"0.2.1", true},
		{"1.2.3-rc.1", true},
		{"", false},
		{"not-a-version", false},
		{"1.2.3.4.5", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValid(tt.version), tt.version)
	}
}

func TestCompare(t *testing.T) {
	got, err := Compare("1.0.0", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, -1, got)

	got, err = Compare("1.1.0", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = Compare("2.0.0", "1.9.9")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = Compare("bogus", "1.0.0")
	assert.Error(t, err)
}
