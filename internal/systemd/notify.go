// Package systemd reports daemon lifecycle to the service manager. The
// notifications only have effect when the process runs as a Type=notify
// unit; outside systemd every call is a silent no-op.
package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/lednode/lednode/internal/logging"
)

// NotifyReady signals that startup is complete and the daemon is serving.
func NotifyReady() {
	notify(daemon.SdNotifyReady)
}

// NotifyStopping signals that shutdown has begun.
func NotifyStopping() {
	notify(daemon.SdNotifyStopping)
}

func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.GetLogger("systemd").Warn("Service manager notification failed", "state", state, "error", err)
		return
	}
	if sent {
		logging.GetLogger("systemd").Debug("Notified service manager", "state", state)
	}
}
