package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerAndLevelMutation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "app.log")
	f, logger, err := FileLogger(logrus.ErrorLevel, logPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	require.Equal(t, logrus.ErrorLevel, Level())

	SetLevel(logrus.DebugLevel)
	require.Equal(t, logrus.DebugLevel, Level())
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in    string
		level logrus.Level
		ok    bool
	}{
		{"debug", logrus.DebugLevel, true},
		{"INFO", logrus.InfoLevel, true},
		{"warning", logrus.WarnLevel, true},
		{"silent", logrus.PanicLevel, true},
		{"bogus", logrus.ErrorLevel, false},
	}
	for _, tc := range cases {
		level, ok := ParseLevel(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.level, level, tc.in)
	}
}

func TestLevelNameRoundTrip(t *testing.T) {
	for _, name := range []string{"silent", "error", "warn", "info", "debug"} {
		level, ok := ParseLevel(name)
		require.True(t, ok)
		require.Equal(t, name, LevelName(level))
	}
}
