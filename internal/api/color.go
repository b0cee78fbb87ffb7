package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/loop"
)

// sourceAPI tags loop requests and broadcast events from this surface.
const sourceAPI = "api"

// ColorRequest selects or saves a color.
type ColorRequest struct {
	Body struct {
		Color      string `json:"color" example:"FF8800" doc:"Hex color without leading #"`
		Brightness int    `json:"brightness" example:"80" doc:"Brightness 0-100"`
	}
}

// EffectRequest selects an animation effect by name.
type EffectRequest struct {
	Body struct {
		Effect string `json:"effect" example:"rainbow" doc:"Effect name"`
	}
}

// CommandResponse wraps the shared command envelope. Failed commands keep
// the envelope in the body; Status carries the mapped HTTP code.
type CommandResponse struct {
	Status int
	Body   command.Response
}

// commandResult shapes a command outcome into the shared envelope.
func commandResult[T any](kind string, value T, err error) (*CommandResponse, error) {
	if err != nil {
		return &CommandResponse{
			Status: statusForCode(command.ErrorCode(err)),
			Body:   command.Response{Kind: kind, Error: err.Error()},
		}, nil
	}
	return &CommandResponse{
		Status: http.StatusOK,
		Body:   command.Response{Kind: kind, Value: value},
	}, nil
}

// statusForCode maps command error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case command.ErrCodeInvalidColor, command.ErrCodeUnknownEffect:
		return http.StatusBadRequest
	case command.ErrCodeColorNotFound:
		return http.StatusNotFound
	case command.ErrCodePaletteFull, command.ErrCodeDuplicateColor:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// registerColorRoutes registers the mode-changing endpoints.
func (s *Server) registerColorRoutes() {
	// Show a color
	huma.Register(s.api, huma.Operation{
		OperationID: "set-color",
		Method:      http.MethodPut,
		Path:        "/api/color",
		Summary:     "Set Color",
		Description: "Show a flat color on the strip. Unsaved colors go to the scratch slot; nothing is persisted.",
		Tags:        []string{"control"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ColorRequest) (*CommandResponse, error) {
		view, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) (command.StateView, error) {
			return p.SetColor(input.Body.Color, input.Body.Brightness)
		})
		return commandResult(command.KindSetColor, view, err)
	})

	// Turn the strip off
	huma.Register(s.api, huma.Operation{
		OperationID: "set-off",
		Method:      http.MethodPost,
		Path:        "/api/off",
		Summary:     "Turn Off",
		Description: "Blank the strip. Always succeeds regardless of the current mode.",
		Tags:        []string{"control"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*CommandResponse, error) {
		view, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) (command.StateView, error) {
			return p.SetOff(), nil
		})
		return commandResult(command.KindSetOff, view, err)
	})

	// Run an effect
	huma.Register(s.api, huma.Operation{
		OperationID: "set-effect",
		Method:      http.MethodPut,
		Path:        "/api/effect",
		Summary:     "Set Effect",
		Description: "Run an animation effect. Names are case sensitive; see GET /api/effects.",
		Tags:        []string{"control"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}, func(ctx context.Context, input *EffectRequest) (*CommandResponse, error) {
		view, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) (command.StateView, error) {
			return p.SetEffect(input.Body.Effect)
		})
		return commandResult(command.KindSetEffect, view, err)
	})
}
