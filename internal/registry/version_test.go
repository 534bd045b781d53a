package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionConstraint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"greater than or equal", ">=1.0.0", false},
		{"space separated range", ">=1.0.0 <2.0.0", false},
		{"tilde", "~1.2.3", false},
		{"caret", "^1.2.3", false},
		{"x range", "1.x", false},
		{"prerelease", "^18.0.0-beta.0", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"invalid", "not-a-version", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVersionConstraint(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version string
		rng     string
		want    bool
	}{
		{"2.1.0", "^2.0.0", true},
		{"1.5.0", "^2.0.0", false},
		{"2.0.0", "^2.0.0", true},
		{"3.0.0", "^2.0.0", false},
		{"0.2.5", "^0.2.3", true},
		{"0.3.0", "^0.2.3", false},
		{"1.2.9", "~1.2.3", true},
		{"1.3.0", "~1.2.3", false},
		{"v1.9.9", ">=1.0.0 <2.0.0", true},
		{"18.0.0-beta.1", "^18.0.0-beta.0", true},
		{"18.0.0-beta.1", "^18.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.version+" in "+tt.rng, func(t *testing.T) {
			got, err := Satisfies(tt.version, tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSatisfiesConstraintInvalidVersion(t *testing.T) {
	constraint, err := ParseVersionConstraint(">=1.0.0")
	require.NoError(t, err)

	for _, v := range []string{"invalid", "1.2", "", "file:../local", ">=1.0.0"} {
		_, err = SatisfiesConstraint(v, constraint)
		require.Error(t, err, "version %q", v)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1   string
		v2   string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "1.0.0", 1},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0-alpha", "1.0.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.v1+" vs "+tt.v2, func(t *testing.T) {
			got, err := CompareVersions(tt.v1, tt.v2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CompareVersions("invalid", "1.0.0")
	require.Error(t, err)
}

func TestIsNewer(t *testing.T) {
	newer, err := IsNewer("2.1.0", "2.0.0")
	require.NoError(t, err)
	assert.True(t, newer)

	newer, err = IsNewer("2.0.0", "2.0.0")
	require.NoError(t, err)
	assert.False(t, newer)
}

func TestIsValidVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0.0", true},
		{"v1.0.0", true},
		{"1.2.3-beta.1", true},
		{"invalid", false},
		{"", false},
		{"1.2", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidVersion(tt.version))
		})
	}
}
