package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Bootstrap runs.
var Log = logrus.New()

// Bootstrap configures Log from the configured level name.
func Bootstrap(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log = &logrus.Logger{
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		Level:    lvl,
		ExitFunc: os.Exit,
	}
	Log.SetReportCaller(lvl >= logrus.DebugLevel)
	if err != nil && level != "" {
		Log.Warnf("unknown log level %q, using info", level)
	}
}
