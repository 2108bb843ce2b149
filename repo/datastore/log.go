// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package datastore

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/pterm/pterm"
)

var log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger *pterm.Logger) {
	log = logger
}

// badgerLogger routes badger's printf style logging into the package
// logger. Badger is chatty at info so that is demoted to debug.
type badgerLogger struct {
	logger *pterm.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(badgerMsg(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(badgerMsg(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(badgerMsg(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace(badgerMsg(format, args...))
}

func badgerMsg(format string, args ...interface{}) string {
	return "badger: " + strings.TrimSpace(fmt.Sprintf(format, args...))
}
