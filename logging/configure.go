package logging

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Configure sets the level and formatter of the standard logrus logger.
// format is "text" or "json"; an empty format keeps the current formatter.
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	switch strings.ToLower(format) {
	case "":
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	logrus.SetLevel(lvl)
	return nil
}
