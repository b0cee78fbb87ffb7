// Package updater replaces the running binary with the latest GitHub
// release. The service probes write permission on the executable directory
// at startup and stays registered in a disabled state when the probe fails,
// so surfaces can report why updating is unavailable.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/version"
)

type service struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater

	mu            sync.RWMutex
	state         State
	latestRelease *selfupdate.Release

	enabled        bool
	disabledReason string

	logger *slog.Logger
}

// NewService creates the updater service. A failed write-permission probe
// yields a disabled service rather than an error, so the rest of the daemon
// keeps running.
func NewService(opts *Options) (Service, error) {
	logger := logging.GetLogger("updater")

	canWrite, reason := checkWritePermission()
	if !canWrite {
		logger.Warn("Update service disabled", "reason", reason)
		return &service{
			enabled:        false,
			disabledReason: reason,
			state:          StateIdle,
			logger:         logger,
		}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	upd, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &service{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    upd,
		state:      StateIdle,
		enabled:    true,
		logger:     logger,
	}, nil
}

func checkWritePermission() (bool, string) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)

	// Try creating a temp file next to the binary
	tmp := filepath.Join(dir, ".lednode.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return true, ""
}

// IsEnabled returns whether the update service is operational.
func (s *service) IsEnabled() bool {
	return s.enabled
}

// DisabledReason returns why the update service is disabled.
// Returns empty string if the service is enabled.
func (s *service) DisabledReason() string {
	return s.disabledReason
}

// CheckForUpdate queries GitHub for the latest release and compares it
// against the current version without downloading anything.
func (s *service) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if !s.enabled {
		return nil, newError(ErrCodeDisabled, s.disabledReason, nil)
	}

	if !s.transitionTo(StateChecking, StateIdle, StateAvailable, StateError) {
		return nil, newError(ErrCodeInvalidState,
			fmt.Sprintf("cannot check for updates in state %s", s.getState()), nil)
	}

	currentVersion := version.Version

	release, found, err := s.updater.DetectLatest(ctx, s.repository)
	if err != nil {
		s.setError(err)
		return nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}
	if !found {
		s.setError(fmt.Errorf("repository not found or has no releases"))
		return nil, newError(ErrCodeNotFound, "repository not found or has no releases", nil)
	}

	// Dev builds are always considered outdated
	isNewer := currentVersion == "dev" || release.GreaterThan(currentVersion)
	if !isNewer {
		s.transitionTo(StateIdle)
		return &UpdateInfo{
			CurrentVersion:  currentVersion,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	s.mu.Lock()
	s.latestRelease = release
	s.mu.Unlock()
	s.transitionTo(StateAvailable)

	return &UpdateInfo{
		CurrentVersion:  currentVersion,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: true,
	}, nil
}

// ApplyUpdate downloads the latest release over the running binary and
// sends SIGTERM so the service manager restarts the daemon on the new
// version.
func (s *service) ApplyUpdate(ctx context.Context) error {
	if !s.enabled {
		return newError(ErrCodeDisabled, s.disabledReason, nil)
	}

	// When nothing was checked yet, check first
	if s.getState() == StateIdle {
		info, err := s.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return newError(ErrCodeNoUpdate, "no update available", nil)
		}
	}

	if !s.transitionTo(StateDownloading, StateAvailable) {
		return newError(ErrCodeInvalidState,
			fmt.Sprintf("cannot apply update in state %s", s.getState()), nil)
	}

	s.transitionTo(StateApplying)

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		s.setError(err)
		return newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}

	s.mu.RLock()
	release := s.latestRelease
	s.mu.RUnlock()

	if err := s.updater.UpdateTo(ctx, release, exe); err != nil {
		s.setError(err)
		return newError(ErrCodeApplyFailed, "failed to apply update", err)
	}

	s.transitionTo(StateRestarting)
	s.logger.Info("Update applied successfully, triggering restart",
		"version", release.Version())

	// Restart after a short delay so the response still goes out
	go func() {
		time.Sleep(500 * time.Millisecond)
		s.triggerRestart()
	}()

	return nil
}

func (s *service) transitionTo(newState State, validFromStates ...State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(validFromStates) > 0 && !slices.Contains(validFromStates, s.state) {
		return false
	}

	s.logger.Debug("State transition", "from", s.state, "to", newState)
	s.state = newState
	return true
}

func (s *service) getState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *service) setError(err error) {
	s.mu.Lock()
	s.state = StateError
	s.mu.Unlock()
	s.logger.Warn("Update failed", "error", err)
}

func (s *service) triggerRestart() {
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		s.logger.Error("Failed to find own process", "error", err)
		return
	}

	s.logger.Info("Sending SIGTERM to trigger restart")
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		s.logger.Error("Failed to send SIGTERM", "error", err)
	}
}
