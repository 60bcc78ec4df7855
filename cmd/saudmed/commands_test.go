package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseFilter(t *testing.T) {
	now := time.Date(2024, 3, 15, 17, 30, 0, 0, time.Local)

	f, err := purchaseFilter("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-14", f.Start.Format(dateLayout))
	assert.Equal(t, "2024-03-16", f.End.Format(dateLayout))

	f, err = purchaseFilter("2024-01-01", "2024-01-31", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", f.Start.Format(dateLayout))
	assert.Equal(t, "2024-02-01", f.End.Format(dateLayout))

	_, err = purchaseFilter("2024-02-01", "2024-01-01", now)
	assert.Error(t, err)

	_, err = purchaseFilter("01/01/2024", "", now)
	assert.Error(t, err)
}

func TestOptionalDate(t *testing.T) {
	d, err := optionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = optionalDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())
}
