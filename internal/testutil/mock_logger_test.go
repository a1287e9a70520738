package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
)

func TestMockLogger_RecordsLevels(t *testing.T) {
	l := NewMockLogger()
	l.Debug("d")
	l.Info("refresh ok", logging.Int("vessels", 3))
	l.Warn("w")
	l.Error("e")

	assert.Len(t, l.GetMessages(), 4)
	assert.True(t, l.HasMessage("info", "refresh ok"))
	assert.False(t, l.HasMessage("error", "refresh ok"))
	assert.Equal(t, 1, l.Count("warn"))

	msg, ok := l.Find("info", "refresh")
	require.True(t, ok)
	v, ok := msg.Field("vessels")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	l.Clear()
	assert.Empty(t, l.GetMessages())
}

func TestMockLogger_DerivedLoggersShareBuffer(t *testing.T) {
	root := NewMockLogger()
	child := root.Named("composer").Named("refresh").With(logging.RefreshID("r-1"))
	child.WithError(errors.New("boom")).Error("load failed")

	msgs := root.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "composer.refresh", msgs[0].Logger)
	id, ok := msgs[0].Field(logging.KeyRefreshID)
	require.True(t, ok)
	assert.Equal(t, "r-1", id)
	_, ok = msgs[0].Field("error")
	assert.True(t, ok)
}

//Personal.AI order the ending
