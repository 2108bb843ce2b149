// Copyright (c) 2022 Project Illium
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/project-illium/shielded/blockchain"
	"github.com/project-illium/shielded/mempool"
	"github.com/project-illium/shielded/repo"
	"github.com/project-illium/shielded/repo/datastore"
	"github.com/project-illium/shielded/zk"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	black color = iota + 30
	red
	green
	yellow
	blue
	magenta
	cyan
	white
)

// color represents a text color.
type color uint8

// Add adds the coloring to the given string.
func (c color) Add(s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", uint8(c), s)
}

var log = zap.S()

var LogLevelMap = map[string]zapcore.Level{
	"debug":   zap.DebugLevel,
	"info":    zap.InfoLevel,
	"warning": zap.WarnLevel,
	"error":   zap.ErrorLevel,
	"fatal":   zap.FatalLevel,
}

var logLevelSeverity = map[zapcore.Level]string{
	zapcore.DebugLevel: "DEBUG",
	zapcore.InfoLevel:  "INFO",
	zapcore.WarnLevel:  "WARNING",
	zapcore.ErrorLevel: "ERROR",
	zapcore.FatalLevel: "FATAL",
}

var ptermLevelMap = map[zapcore.Level]pterm.LogLevel{
	zap.DebugLevel: pterm.LogLevelDebug,
	zap.InfoLevel:  pterm.LogLevelInfo,
	zap.WarnLevel:  pterm.LogLevelWarn,
	zap.ErrorLevel: pterm.LogLevelError,
	zap.FatalLevel: pterm.LogLevelFatal,
}

// setupLogging builds the zap logger used by the binary and hands a pterm
// logger at the same level to the library packages. Both write to the
// rotating log file when logDir is set.
func setupLogging(logDir, level string) error {
	cfg := zap.NewProductionConfig()

	logLevel, ok := LogLevelMap[strings.ToLower(level)]
	if !ok {
		return errors.New("invalid log level")
	}
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.OutputPaths = []string{"stderr"}

	levelToColor := map[zapcore.Level]color{
		zapcore.DebugLevel: magenta,
		zapcore.InfoLevel:  blue,
		zapcore.WarnLevel:  yellow,
		zapcore.ErrorLevel: red,
		zapcore.FatalLevel: red,
	}
	customLevelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + levelToColor[level].Add(logLevelSeverity[level]) + "]")
	}
	cfg.EncoderConfig.EncodeLevel = customLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableCaller = true
	cfg.EncoderConfig.ConsoleSeparator = "  "

	var (
		logger    *zap.Logger
		pkgWriter io.Writer = os.Stderr
		err       error
	)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return err
		}
		logRotator := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, repo.DefaultLogFilename),
			MaxSize:    10, // Megabytes
			MaxBackups: 3,
			MaxAge:     30, // Days
		}

		lumberjackZapHook := func(e zapcore.Entry) error {
			logRotator.Write([]byte(fmt.Sprintf("%+v\n", e)))
			return nil
		}

		logger, err = cfg.Build(zap.Hooks(lumberjackZapHook))
		if err != nil {
			return err
		}
		pkgWriter = io.MultiWriter(os.Stderr, logRotator)
	} else {
		logger, err = cfg.Build()
		if err != nil {
			return err
		}
	}
	zap.ReplaceGlobals(logger)
	log = zap.S()

	pkgLogger := pterm.DefaultLogger.
		WithLevel(ptermLevelMap[logLevel]).
		WithWriter(pkgWriter)
	repo.UseLogger(pkgLogger)
	datastore.UseLogger(pkgLogger)
	blockchain.UseLogger(pkgLogger)
	mempool.UseLogger(pkgLogger)
	zk.UseLogger(pkgLogger)
	return nil
}
