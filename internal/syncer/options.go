// Package syncer contains the sync policy and the boot-cycle scheduler that
// keep the host clock and timezone aligned with a tethered phone.
package syncer

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Options configures one daemon or one-shot invocation.
type Options struct {
	// ConnectTarget, when set, is a host:port handed to `adb connect`
	// before each poll. Best-effort and idempotent.
	ConnectTarget string

	// PreferredSerial is the explicit CLI device override. Returned by the
	// registry unchecked.
	PreferredSerial string

	// DiscoveryInterval is the poll period before the first successful sync.
	DiscoveryInterval time.Duration `validate:"gt=0"`

	// StartupWindow bounds how long the daemon keeps discovering before
	// giving up until the next boot.
	StartupWindow time.Duration `validate:"gt=0"`

	// RefreshInterval is the steady-state period once a sync has succeeded.
	RefreshInterval time.Duration `validate:"gt=0"`

	// DriftThresholdSeconds gates the time change: the clock is only set
	// when |phone - host| reaches it. Timezone changes are not gated.
	DriftThresholdSeconds int64 `validate:"gte=0"`

	// Oneshot makes Run perform at most one full iteration.
	Oneshot bool
}

// Validate validates the configuration.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	return nil
}
