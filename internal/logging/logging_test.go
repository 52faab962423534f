package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSONWithService(t *testing.T) {
	logger := New("debug", "production")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.WithFields(logrus.Fields{"userId": "u1"}).Info("user logged in")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user logged in", entry["msg"])
	assert.Equal(t, "u1", entry["userId"])
	assert.Equal(t, serviceName, entry["service"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNew_TestEnvironmentIsSilent(t *testing.T) {
	logger := New("info", "test")
	assert.Equal(t, io.Discard, logger.Out)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := New("loud", "development")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
