//go:build !linux && !windows

package platform

import (
	"context"
	"log/slog"
)

type unsupportedSessionMonitor struct{}

func newSessionMonitor(*slog.Logger) SessionMonitor {
	return unsupportedSessionMonitor{}
}

func (unsupportedSessionMonitor) Run(context.Context, SessionObserver) error {
	return ErrSessionUnsupported
}
