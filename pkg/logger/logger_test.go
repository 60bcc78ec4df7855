package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.DebugLevel, Log.GetLevel())

	SetLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
