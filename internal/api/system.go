package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/loop"
)

// StateResponse is the current device state.
type StateResponse struct {
	Body command.StateView
}

// EffectInfo describes one animation effect.
type EffectInfo struct {
	Index  int    `json:"index" example:"0" doc:"Position in the effect cycle"`
	Name   string `json:"name" example:"rainbow" doc:"Effect name as accepted by PUT /api/effect"`
	Frames int    `json:"frames" example:"256" doc:"Frames before the animation repeats"`
}

// EffectsData lists the available effects in cycle order.
type EffectsData struct {
	Effects []EffectInfo `json:"effects" doc:"Available effects"`
	Count   int          `json:"count" example:"12" doc:"Number of effects"`
}

// EffectsResponse wraps EffectsData for Huma.
type EffectsResponse struct {
	Body EffectsData
}

// registerSystemRoutes registers the read-only device endpoints.
func (s *Server) registerSystemRoutes() {
	// Current device state
	huma.Register(s.api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/api/state",
		Summary:     "Get State",
		Description: "Get the current mode and, depending on it, the active color or effect.",
		Tags:        []string{"control"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*StateResponse, error) {
		view, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) (command.StateView, error) {
			return p.StateView(), nil
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("state unavailable", err)
		}
		return &StateResponse{Body: view}, nil
	})

	// Available effects
	huma.Register(s.api, huma.Operation{
		OperationID: "list-effects",
		Method:      http.MethodGet,
		Path:        "/api/effects",
		Summary:     "List Effects",
		Description: "Get the available animation effects in the order the button cycles them.",
		Tags:        []string{"control"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*EffectsResponse, error) {
		reg := s.options.Effects
		infos := make([]EffectInfo, reg.Len())
		for i := range infos {
			e := reg.At(i)
			infos[i] = EffectInfo{Index: i, Name: e.Name(), Frames: e.LoopLength()}
		}
		return &EffectsResponse{
			Body: EffectsData{Effects: infos, Count: len(infos)},
		}, nil
	})
}
