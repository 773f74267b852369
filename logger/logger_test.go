package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(str, "")
}

func TestInitialize(t *testing.T) {
	for _, jsonOutput := range []bool{true, false} {
		Logger = nil
		require.NoError(t, Initialize(jsonOutput, VerbosityInfo))
		require.NotNil(t, Logger)
		assert.Equal(t, jsonOutput, JSONOutput)
		Logger = zap.NewNop().Sugar()
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
}

// TestMinimalEncoderNeverDiscardsFields ensures every structured field reaches the output.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "render.loop",
		Message:    "Transition applied",
	}

	fields := []zapcore.Field{
		zap.String(FieldX, "age"),
		zap.String(FieldY, "smokes"),
		zap.Uint64(FieldSeq, 3),
		zap.Float64(FieldR2, 0.25),
		zap.Bool("changed", true),
		zap.Error(nil),
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	out := stripANSI(buf.String())

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "r.loop")
	assert.Contains(t, out, "Transition applied")
	for _, want := range []string{"x=age", "y=smokes", "seq=3", "r2=0.25", "changed=true"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "WARN")
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()
	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "slow"}, nil)
	require.NoError(t, err)
	assert.Contains(t, stripANSI(buf.String()), "WARN  slow")
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	assert.Equal(t, gruvbox, colors())

	SetTheme("solarized")
	assert.Equal(t, gruvbox, colors(), "unknown theme is ignored")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "r.loop", abbreviateName("render.loop"))
	assert.Equal(t, "census", abbreviateName("census"))
	assert.Equal(t, "a.watch.data", abbreviateName("am.watch.data"))
}
