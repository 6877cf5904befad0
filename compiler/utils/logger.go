//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package utils

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new logger outputting to the argument
// io.Writer. Verbose loggers log at the debug level.
func NewLogger(out io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Errorf logs an error message and returns the first line of the
// message as an error.
func Errorf(log logrus.FieldLogger, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	log.Error(strings.TrimRight(msg, "\n"))

	idx := strings.IndexRune(msg, '\n')
	if idx > 0 {
		msg = msg[:idx]
	}
	return errors.New(msg)
}

// Warningf logs a warning message.
func Warningf(log logrus.FieldLogger, format string, a ...interface{}) {
	log.Warn(strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}
