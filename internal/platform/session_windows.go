//go:build windows

package platform

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sys/windows"
)

const desktopSwitchDesktop = 0x0100

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procOpenInputDesktop   = user32.NewProc("OpenInputDesktop")
	procCloseDesktop       = user32.NewProc("CloseDesktop")
	inputDesktopPollPeriod = time.Second
)

type inputDesktopMonitor struct {
	logger *slog.Logger
}

func newSessionMonitor(logger *slog.Logger) SessionMonitor {
	return &inputDesktopMonitor{logger: logger}
}

// Run polls the input desktop; it cannot be opened while the workstation is locked.
func (monitor *inputDesktopMonitor) Run(ctx context.Context, observer SessionObserver) error {
	if err := procOpenInputDesktop.Find(); err != nil {
		return ErrSessionUnsupported
	}

	tracker := newLockTracker(observer)
	tracker.set(workstationLocked())

	ticker := time.NewTicker(inputDesktopPollPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tracker.set(workstationLocked())
		}
	}
}

func workstationLocked() bool {
	handle, _, _ := procOpenInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if handle == 0 {
		return true
	}
	procCloseDesktop.Call(handle)
	return false
}
