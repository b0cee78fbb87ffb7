package updater

import (
	"context"
	"time"
)

// State represents the current state of the update process.
type State string

// Update states.
const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAvailable   State = "available"
	StateDownloading State = "downloading"
	StateApplying    State = "applying"
	StateRestarting  State = "restarting"
	StateError       State = "error"
)

// Service defines the interface for update operations.
type Service interface {
	// CheckForUpdate checks for available updates without downloading.
	CheckForUpdate(ctx context.Context) (*UpdateInfo, error)

	// ApplyUpdate downloads and applies an update, then triggers restart.
	ApplyUpdate(ctx context.Context) error

	// IsEnabled returns whether the update service is enabled.
	// Returns false if permission check failed on startup.
	IsEnabled() bool

	// DisabledReason returns why the service is disabled, empty if enabled.
	DisabledReason() string
}

// UpdateInfo contains information about an available update.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Options contains configuration for the updater service.
type Options struct {
	Repository string // GitHub repo slug (e.g., "lednode/lednode")
	Prerelease bool   // Whether to include prereleases
}
