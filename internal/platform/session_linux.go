//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	login1Service      = "org.freedesktop.login1"
	login1ManagerPath  = dbus.ObjectPath("/org/freedesktop/login1")
	login1ManagerIface = "org.freedesktop.login1.Manager"
	login1SessionIface = "org.freedesktop.login1.Session"
	propertiesIface    = "org.freedesktop.DBus.Properties"
)

type login1Monitor struct {
	logger *slog.Logger
}

func newSessionMonitor(logger *slog.Logger) SessionMonitor {
	return &login1Monitor{logger: logger}
}

// Run subscribes to Lock/Unlock and LockedHint changes of the caller's logind session.
func (monitor *login1Monitor) Run(ctx context.Context, observer SessionObserver) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("%w: connect system bus: %v", ErrSessionUnsupported, err)
	}
	defer conn.Close()

	sessionPath, err := resolveSessionPath(ctx, conn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionUnsupported, err)
	}
	monitor.logger.Debug("watching logind session", "path", sessionPath)

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(sessionPath),
		dbus.WithMatchInterface(login1SessionIface),
	); err != nil {
		return fmt.Errorf("match session signals: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(sessionPath),
		dbus.WithMatchInterface(propertiesIface),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("match session properties: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	tracker := newLockTracker(observer)
	if locked, err := lockedHint(conn, sessionPath); err != nil {
		monitor.logger.Warn("read LockedHint", "error", err)
	} else {
		tracker.set(locked)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case signal, ok := <-signals:
			if !ok {
				return errors.New("system bus connection closed")
			}
			if locked, ok := lockStateFromSignal(signal, sessionPath); ok {
				tracker.set(locked)
			}
		}
	}
}

func resolveSessionPath(ctx context.Context, conn *dbus.Conn) (dbus.ObjectPath, error) {
	manager := conn.Object(login1Service, login1ManagerPath)

	var path dbus.ObjectPath
	err := manager.CallWithContext(ctx, login1ManagerIface+".GetSessionByPID", 0, uint32(os.Getpid())).Store(&path)
	if err == nil && path.IsValid() {
		return path, nil
	}

	if fallbackErr := manager.CallWithContext(ctx, login1ManagerIface+".GetSession", 0, "auto").Store(&path); fallbackErr != nil {
		return "", fmt.Errorf("resolve logind session: %v; %w", err, fallbackErr)
	}
	return path, nil
}

func lockedHint(conn *dbus.Conn, sessionPath dbus.ObjectPath) (bool, error) {
	variant, err := conn.Object(login1Service, sessionPath).GetProperty(login1SessionIface + ".LockedHint")
	if err != nil {
		return false, err
	}
	locked, ok := variant.Value().(bool)
	if !ok {
		return false, fmt.Errorf("LockedHint has type %s", variant.Signature())
	}
	return locked, nil
}

// lockStateFromSignal extracts a lock state from a logind signal.
func lockStateFromSignal(signal *dbus.Signal, sessionPath dbus.ObjectPath) (bool, bool) {
	if signal == nil || signal.Path != sessionPath {
		return false, false
	}

	switch signal.Name {
	case login1SessionIface + ".Lock":
		return true, true
	case login1SessionIface + ".Unlock":
		return false, true
	case propertiesIface + ".PropertiesChanged":
		if len(signal.Body) < 2 {
			return false, false
		}
		iface, ok := signal.Body[0].(string)
		if !ok || iface != login1SessionIface {
			return false, false
		}
		changed, ok := signal.Body[1].(map[string]dbus.Variant)
		if !ok {
			return false, false
		}
		hint, ok := changed["LockedHint"]
		if !ok {
			return false, false
		}
		locked, ok := hint.Value().(bool)
		return locked, ok
	}
	return false, false
}
