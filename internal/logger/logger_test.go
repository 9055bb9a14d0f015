package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithFields(logrus.Fields{"championship_id": 3, "added": 12}).Info("swimmers added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "swimmers added", entry["msg"])
	assert.EqualValues(t, 12, entry["added"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLogger_TextAndFallbackLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "loud", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'loud'")

	buf.Reset()
	log.Debug("hidden")
	assert.Empty(t, buf.String())
	log.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}
