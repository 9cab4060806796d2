//go:build !windows

package overlay

// applyNativeOpacity is a no-op where the background alpha already dims the screen.
func (overlay *Window) applyNativeOpacity(alpha uint8) {}
