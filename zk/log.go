// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"io"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

var log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)

func init() {
	gnarklogger.Disable()
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger *pterm.Logger) {
	log = logger
}

// SetCircuitLogger routes the constraint compiler and prover logs to w.
// A nil writer silences them, which is the default.
func SetCircuitLogger(w io.Writer) {
	if w == nil {
		gnarklogger.Disable()
		return
	}
	gnarklogger.Set(zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger())
}
