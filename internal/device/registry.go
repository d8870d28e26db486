// Package device implements device selection, authorization waiting, and
// clock/timezone readout over the adb bridge.
package device

import (
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/osa030/toadb/internal/adb"
)

const unknownModel = "unknown-model"

// Registry resolves which attached device the orchestrator should track.
type Registry struct {
	bridge adb.Bridge
	models *xsync.MapOf[string, string]
}

// NewRegistry returns a Registry backed by the given bridge.
func NewRegistry(bridge adb.Bridge) *Registry {
	return &Registry{
		bridge: bridge,
		models: xsync.NewMapOf[string, string](),
	}
}

// ResolveSerial picks the target serial, in priority order: an explicit
// preference is returned unchecked; a saved selection wins if it is still
// listed; then the first authorized device; then the first listed serial of
// any state; then none (empty string).
func (r *Registry) ResolveSerial(preferred, saved string) (string, error) {
	if preferred != "" {
		return preferred, nil
	}

	devices, err := r.bridge.Devices()
	if err != nil {
		return "", err
	}

	if saved != "" {
		for _, d := range devices {
			if d.Serial == saved {
				return saved, nil
			}
		}
	}

	for _, d := range devices {
		if d.Online() {
			return d.Serial, nil
		}
	}

	if len(devices) > 0 {
		return devices[0].Serial, nil
	}
	return "", nil
}

// Model reads the device's product model, caching the result per serial.
// Readout failures yield a placeholder rather than an error.
func (r *Registry) Model(serial string) string {
	if model, ok := r.models.Load(serial); ok {
		return model
	}

	if res, err := r.bridge.Shell(serial, "getprop", "ro.product.model"); err == nil && res.OK() {
		if s := strings.TrimSpace(res.Stdout); s != "" {
			r.models.Store(serial, s)
			return s
		}
	}
	return unknownModel
}
