package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/loop"
)

// registerPaletteRoutes registers the saved-color endpoints.
func (s *Server) registerPaletteRoutes() {
	// List saved colors
	huma.Register(s.api, huma.Operation{
		OperationID: "list-palette",
		Method:      http.MethodGet,
		Path:        "/api/palette",
		Summary:     "List Palette",
		Description: "Get all saved colors in palette order. The scratch slot is never listed.",
		Tags:        []string{"palette"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, _ *struct{}) (*CommandResponse, error) {
		list, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) ([]command.SavedColor, error) {
			return p.ListSaved(), nil
		})
		return commandResult(command.KindListSaved, list, err)
	})

	// Save a color
	huma.Register(s.api, huma.Operation{
		OperationID: "save-color",
		Method:      http.MethodPost,
		Path:        "/api/palette",
		Summary:     "Save Color",
		Description: "Append a color to the palette and persist it. Does not change what the strip shows.",
		Tags:        []string{"palette"},
		Errors:      []int{400, 401, 409, 422, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ColorRequest) (*CommandResponse, error) {
		saved, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) (command.SavedColor, error) {
			return p.Save(input.Body.Color, input.Body.Brightness)
		})
		return commandResult(command.KindSaveColor, saved, err)
	})

	// Delete a saved color
	huma.Register(s.api, huma.Operation{
		OperationID: "delete-color",
		Method:      http.MethodDelete,
		Path:        "/api/palette/{color}/{brightness}",
		Summary:     "Delete Color",
		Description: "Remove the saved color matching both hex value and brightness. Later entries shift down.",
		Tags:        []string{"palette"},
		Errors:      []int{400, 401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Color      string `path:"color" example:"FF8800" doc:"Hex color without leading #"`
		Brightness int    `path:"brightness" example:"80" doc:"Brightness 0-100"`
	}) (*CommandResponse, error) {
		remaining, err := loop.Do(ctx, s.loop, sourceAPI, func(p *command.Processor) ([]command.SavedColor, error) {
			return p.Delete(input.Color, input.Brightness)
		})
		return commandResult(command.KindDeleteColor, remaining, err)
	})
}
