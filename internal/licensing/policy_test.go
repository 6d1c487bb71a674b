package licensing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeletePolicy(t *testing.T) {
	cases := []struct {
		in   string
		want DeletePolicy
	}{
		{"", StopOnFirstMiss},
		{"stop", StopOnFirstMiss},
		{" STOP ", StopOnFirstMiss},
		{"all", DeleteEach},
	}
	for _, tc := range cases {
		got, err := ParseDeletePolicy(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, got.String(), mustRoundTrip(t, got))
	}

	_, err := ParseDeletePolicy("some")
	assert.ErrorContains(t, err, `"some"`)
}

func mustRoundTrip(t *testing.T, p DeletePolicy) string {
	t.Helper()
	q, err := ParseDeletePolicy(p.String())
	require.NoError(t, err)
	return q.String()
}
