package main

import (
	"errors"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger writes text logs to the log file and, when configured, JSON
// records to the audit file. The terminal belongs to the UI.
func newLogger(conf *Config) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(conf.LogLevel)); err != nil {
		return nil, nil, err
	}

	var handlers []slog.Handler
	var files []*os.File
	closeAll := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Close())
		}
		return errors.Join(errs...)
	}

	logFile, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	files = append(files, logFile)
	handlers = append(handlers, slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: level,
	}))

	if conf.AuditFile != "" {
		auditFile, err := os.OpenFile(conf.AuditFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		files = append(files, auditFile)
		handlers = append(handlers, slog.NewJSONHandler(auditFile, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeAll, nil
}
