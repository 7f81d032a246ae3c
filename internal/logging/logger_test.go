package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{"default is warn", Options{}, zapcore.WarnLevel},
		{"explicit level", Options{Level: "info"}, zapcore.InfoLevel},
		{"verbose wins", Options{Level: "error", Verbose: true}, zapcore.DebugLevel},
		{"json encoder", Options{JSON: true}, zapcore.WarnLevel},
	} {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.opts)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.want))
			if tc.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tc.want-1))
			}
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
