package ulid

import (
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseRunID(t *testing.T, id string) ulid.ULID {
	t.Helper()
	require.True(t, strings.HasPrefix(id, PrefixRun+PrefixSeparator), "missing run prefix: %s", id)
	parsed, err := ulid.Parse(strings.TrimPrefix(id, PrefixRun+PrefixSeparator))
	require.NoError(t, err)
	return parsed
}

func TestRunID(t *testing.T) {
	id := parseRunID(t, RunID())
	assert.Less(t, time.Since(ulid.Time(id.Time())).Seconds(), 1.0, "ULID timestamp should be close to now")
}

func TestRunIDsAreMonotonic(t *testing.T) {
	first := parseRunID(t, RunID())
	second := parseRunID(t, RunID())

	assert.Equal(t, -1, first.Compare(second))
}

func TestWithPrefixOrdersByTime(t *testing.T) {
	earlier := withPrefix("x", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	later := withPrefix("x", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Less(t, earlier, later)
	assert.True(t, strings.HasPrefix(earlier, "x-"))
}
