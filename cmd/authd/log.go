package main

import (
	"os"

	"github.com/decred/slog"
)

var (
	backendLog = slog.NewBackend(os.Stdout)

	authLog = backendLog.Logger("AUTH")
	srvrLog = backendLog.Logger("SRVR")
)

// slogAdapter exposes a slog subsystem logger through the authkit Logger
// interface.
type slogAdapter struct {
	log slog.Logger
}

func (s slogAdapter) Debug(format string, args ...any) { s.log.Debugf(format, args...) }
func (s slogAdapter) Info(format string, args ...any)  { s.log.Infof(format, args...) }
func (s slogAdapter) Warn(format string, args ...any)  { s.log.Warnf(format, args...) }
func (s slogAdapter) Error(format string, args ...any) { s.log.Errorf(format, args...) }

// setLogLevels applies the configured level to all subsystems.
func setLogLevels(level string) {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		lvl = slog.LevelInfo
	}
	authLog.SetLevel(lvl)
	srvrLog.SetLevel(lvl)
}
