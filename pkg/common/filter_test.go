package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByWildcard(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		pattern  string
		expected []string
	}{
		{
			name:     "prefix star",
			names:    []string{"a-1", "a-2", "b-1"},
			pattern:  "a-*",
			expected: []string{"a-1", "a-2"},
		},
		{
			name:     "anchored at both ends",
			names:    []string{"prod-logs", "xprod-logs", "prod", "prod-"},
			pattern:  "prod-*",
			expected: []string{"prod-logs", "prod-"},
		},
		{
			name:     "single character",
			names:    []string{"app-1", "app-22", "app-x"},
			pattern:  "app-?",
			expected: []string{"app-1", "app-x"},
		},
		{
			name:     "character class",
			names:    []string{"app-1", "app-2", "app-3", "app-a"},
			pattern:  "app-[12]",
			expected: []string{"app-1", "app-2"},
		},
		{
			name:     "negated character class",
			names:    []string{"app-1", "app-2", "app-a"},
			pattern:  "app-[!0-9]",
			expected: []string{"app-a"},
		},
		{
			name:     "case sensitive",
			names:    []string{"Prod-logs", "prod-logs"},
			pattern:  "prod-*",
			expected: []string{"prod-logs"},
		},
		{
			name:     "literal name",
			names:    []string{"demo", "demo-2"},
			pattern:  "demo",
			expected: []string{"demo"},
		},
		{
			name:     "no match",
			names:    []string{"a-1"},
			pattern:  "z*",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := FilterByWildcard(tt.names, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filtered)
		})
	}
}

func TestFilterByWildcardIsIdempotent(t *testing.T) {
	names := []string{"prod-logs", "prod-data", "staging-logs", "prod", "logs-prod"}

	for _, pattern := range []string{"prod-*", "*-logs", "*", "?????", "[ps]*"} {
		once, err := FilterByWildcard(names, pattern)
		require.NoError(t, err)

		twice, err := FilterByWildcard(once, pattern)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "pattern %s", pattern)
	}
}

func TestFilterByWildcardRejectsMalformedPattern(t *testing.T) {
	_, err := FilterByWildcard([]string{"a-1"}, "a-[")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserInput)

	// an empty listing still reports the bad pattern
	_, err = FilterByWildcard(nil, "[")
	assert.ErrorIs(t, err, ErrUserInput)
}

func TestMatchWildcard(t *testing.T) {
	matched, err := MatchWildcard("prod-logs", "prod-*")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = MatchWildcard("prod", "prod-*")
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = MatchWildcard("prod", "prod*")
	require.NoError(t, err)
	assert.True(t, matched)
}
