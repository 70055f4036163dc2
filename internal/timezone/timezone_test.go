package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSameInstantAcrossZones(t *testing.T) {
	instant := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	utc := Project(instant, "UTC")
	kolkata := Project(instant, "Asia/Kolkata")

	// Same absolute instant, different local representations.
	assert.True(t, utc.Equal(kolkata))
	assert.True(t, instant.Equal(kolkata))
	assert.Equal(t, "UTC", utc.Location().String())
	assert.Equal(t, "Asia/Kolkata", kolkata.Location().String())

	// IST is UTC+05:30.
	_, offset := kolkata.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
	assert.Equal(t, 15, kolkata.Hour())
}

func TestProjectUnknownZoneFallsBack(t *testing.T) {
	instant := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	got := Project(instant, "Not/AZone")

	require.True(t, got.Equal(instant))
	assert.Equal(t, instant, got, "fallback must return the original value unchanged")
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	instant := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	_ = Project(instant, "America/New_York")

	assert.Equal(t, time.UTC, instant.Location())
	assert.Equal(t, 9, instant.Hour())
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("UTC"))
	assert.True(t, Valid("Asia/Kolkata"))
	assert.True(t, Valid("America/New_York"))
	assert.False(t, Valid("Not/AZone"))
	assert.False(t, Valid("kolkata"))
}
