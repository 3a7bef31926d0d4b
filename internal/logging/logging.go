package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Adapters take a *logrus.Logger so tests can
// swap in their own.
var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// ParseLevel maps the level names accepted on the command line. Trace and
// panic are not used.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warning", "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "fatal":
		return logrus.FatalLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("bad log level %q", level)
	}
}

// SetLevel applies level to Log. debug forces DebugLevel regardless.
func SetLevel(level string, debug bool) error {
	if debug {
		Log.SetLevel(logrus.DebugLevel)
		return nil
	}
	lvl, err := ParseLevel(level)
	Log.SetLevel(lvl)
	return err
}

// Discard returns a logger that writes nowhere, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
