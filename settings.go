package inkwell

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the process-level knobs read from INKWELL_* environment
// variables.
type Settings struct {
	TapSlop          float64       `envconfig:"TAP_SLOP" default:"10"`
	TapTimeout       time.Duration `envconfig:"TAP_TIMEOUT" default:"300ms"`
	DoubleTapTimeout time.Duration `envconfig:"DOUBLE_TAP_TIMEOUT" default:"300ms"`
	DoubleTapSlop    float64       `envconfig:"DOUBLE_TAP_SLOP" default:"40"`
	LongPress        time.Duration `envconfig:"LONG_PRESS" default:"500ms"`
	RotateSlop       float64       `envconfig:"ROTATE_SLOP" default:"5"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" default:"0"`
	InputBuffer      int           `envconfig:"INPUT_BUFFER" default:"256"`
	ToolOptions      string        `envconfig:"TOOL_OPTIONS"`
	Document         string        `envconfig:"DOCUMENT" default:"drawing.yaml"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("inkwell", &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Recognizer returns the recognizer thresholds.
func (s Settings) Recognizer() RecognizerConfig {
	return RecognizerConfig{
		TapSlop:          s.TapSlop,
		TapTimeout:       s.TapTimeout,
		DoubleTapTimeout: s.DoubleTapTimeout,
		DoubleTapSlop:    s.DoubleTapSlop,
		LongPressTimeout: s.LongPress,
		RotateSlop:       s.RotateSlop,
	}
}

// Level returns the configured log level; unknown names mean info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
