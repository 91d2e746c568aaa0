package gltfext

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

var (
	loggerOnce sync.Once
	loggerMu   sync.RWMutex
	logger     *log.Logger
)

func defaultLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "gltfext",
	})
	l.SetLevel(log.WarnLevel)
	return l
}

// Logger returns the logger used by the loader and its plugins. Plugins derive their own loggers from it through With().
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		if logger == nil {
			logger = defaultLogger()
		}
		loggerMu.Unlock()
	})
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the logger used by the loader and its plugins.
func SetLogger(l *log.Logger) {
	loggerOnce.Do(func() {})
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// SetLogLevel sets the level of the current logger from its name ("debug", "info", "warn", "error", "fatal").
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	Logger().SetLevel(lvl)
	return nil
}

func LogDebug(msg string, keyvals ...interface{}) {
	Logger().Debug(msg, keyvals...)
}

func LogInfo(msg string, keyvals ...interface{}) {
	Logger().Info(msg, keyvals...)
}

func LogWarn(msg string, keyvals ...interface{}) {
	Logger().Warn(msg, keyvals...)
}

func LogError(msg string, keyvals ...interface{}) {
	Logger().Error(msg, keyvals...)
}
