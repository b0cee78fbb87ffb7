package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lednode/lednode/internal/updater"
)

// UpdateCheckResponse reports whether a newer release exists.
type UpdateCheckResponse struct {
	Body updater.UpdateInfo
}

// UpdateApplyResponse acknowledges a started update.
type UpdateApplyResponse struct {
	Body struct {
		Message string `json:"message" example:"Update applied, restarting..." doc:"Status message"`
	}
}

// registerUpdateRoutes registers the self-update endpoints.
func (s *Server) registerUpdateRoutes() {
	svc := s.options.UpdateService
	if svc == nil {
		return
	}

	if !svc.IsEnabled() {
		s.registerDisabledUpdateRoutes(svc.DisabledReason())
		return
	}

	// Check for updates
	huma.Register(s.api, huma.Operation{
		OperationID: "check-update",
		Method:      http.MethodGet,
		Path:        "/api/update",
		Summary:     "Check for Update",
		Description: "Check if a newer version is available without downloading",
		Tags:        []string{"update"},
		Errors:      []int{401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*UpdateCheckResponse, error) {
		info, err := svc.CheckForUpdate(ctx)
		if err != nil {
			return nil, mapUpdateError(err)
		}
		return &UpdateCheckResponse{Body: *info}, nil
	})

	// Apply update
	huma.Register(s.api, huma.Operation{
		OperationID: "apply-update",
		Method:      http.MethodPost,
		Path:        "/api/update",
		Summary:     "Apply Update",
		Description: "Download and apply the available update. Will trigger a restart.",
		Tags:        []string{"update"},
		Errors:      []int{400, 401, 409, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*UpdateApplyResponse, error) {
		if err := svc.ApplyUpdate(ctx); err != nil {
			return nil, mapUpdateError(err)
		}
		resp := &UpdateApplyResponse{}
		resp.Body.Message = "Update applied, restarting..."
		return resp, nil
	})
}

// registerDisabledUpdateRoutes answers update endpoints with 503 when the
// write-permission probe failed.
func (s *Server) registerDisabledUpdateRoutes(reason string) {
	disabledHandler := func(_ context.Context, _ *struct{}) (*struct{}, error) {
		return nil, huma.Error503ServiceUnavailable("Update service disabled: " + reason)
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "check-update",
		Method:      http.MethodGet,
		Path:        "/api/update",
		Summary:     "Check for Update",
		Description: "Check if a newer version is available (disabled)",
		Tags:        []string{"update"},
		Errors:      []int{503},
		Security:    withAuth(),
	}, disabledHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "apply-update",
		Method:      http.MethodPost,
		Path:        "/api/update",
		Summary:     "Apply Update",
		Description: "Apply update (disabled)",
		Tags:        []string{"update"},
		Errors:      []int{503},
		Security:    withAuth(),
	}, disabledHandler)
}

// mapUpdateError converts updater errors to Huma HTTP errors.
func mapUpdateError(err error) error {
	var updateErr *updater.Error
	if errors.As(err, &updateErr) {
		switch updateErr.Code {
		case updater.ErrCodeInvalidState:
			return huma.Error409Conflict(updateErr.Message)
		case updater.ErrCodeNoUpdate:
			return huma.Error400BadRequest(updateErr.Message)
		case updater.ErrCodeNotFound:
			return huma.Error404NotFound(updateErr.Message)
		case updater.ErrCodeDisabled:
			return huma.Error503ServiceUnavailable(updateErr.Message)
		default:
			return huma.Error500InternalServerError(updateErr.Message)
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
