package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := time.Date(2026, time.March, 14, 23, 59, 58, 12345, loc)
	midnight := startOfDay(at)

	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, loc), midnight)
	assert.Equal(t, loc, midnight.Location(), "cap resets on the user's local midnight")
	assert.True(t, midnight.Before(at))
}

func TestStartOfDay_AlreadyMidnight(t *testing.T) {
	at := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, at, startOfDay(at))
}
