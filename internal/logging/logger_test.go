package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.FatalLevel, GetLevel("fatal"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("info"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.TraceLevel, GetLevel("whatever"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(" info "))
}

func TestSetup_LogFileName(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	Setup(LoggerSetupParams{
		LogFileName: filepath.Join(t.TempDir(), "service"),
		LogToStdout: true,
		LogLevel:    "warn",
	})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	logrus.SetLevel(logrus.TraceLevel)
}

func TestSentryHook(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))

	// no client bound, must not fail
	assert.NoError(t, hook.Fire(logrus.NewEntry(logrus.StandardLogger())))
}

func TestOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, output("", true))

	fileOnly := output(filepath.Join(t.TempDir(), "gymflow"), false)
	rotated, ok := fileOnly.(*lumberjack.Logger)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(rotated.Filename, "gymflow.log"))

	mirrored := output(filepath.Join(t.TempDir(), "gymflow.log"), true)
	_, ok = mirrored.(*lumberjack.Logger)
	assert.False(t, ok)
}
