package command

import "fmt"

// Command kinds shared across surfaces. The pub/sub surface uses them as
// subject suffixes.
const (
	KindSetColor    = "set_color"
	KindSetOff      = "set_off"
	KindSetEffect   = "set_effect"
	KindListSaved   = "list_saved"
	KindSaveColor   = "save_color"
	KindDeleteColor = "delete_color"
)

// Request is a surface-agnostic command. Which fields matter depends on
// Kind.
type Request struct {
	Kind       string `json:"kind"`
	Color      string `json:"color,omitempty"`
	Brightness int    `json:"brightness,omitempty"`
	Effect     string `json:"effect,omitempty"`
}

// Response is the reply envelope shared by the HTTP and NATS surfaces.
// Error is empty on success.
type Response struct {
	Kind  string `json:"kind" example:"set_color" doc:"Command kind this response answers"`
	Error string `json:"error" example:"" doc:"Error code and message, empty on success"`
	Value any    `json:"value,omitempty" doc:"Command-specific payload"`
}

// SavedColor is one palette entry as shown on the wire.
type SavedColor struct {
	Index      int    `json:"index" example:"0" doc:"Position in the palette"`
	Color      string `json:"color" example:"FF8800" doc:"Hex color without leading #"`
	Brightness uint8  `json:"brightness" example:"80" doc:"Brightness 0-100"`
}

// StateView is a snapshot of the device state for responses and queries.
type StateView struct {
	Mode       string `json:"mode" example:"color" doc:"Device mode: off, color or effect"`
	Color      string `json:"color,omitempty" example:"FF8800" doc:"Active color when mode is color"`
	Brightness uint8  `json:"brightness,omitempty" example:"80" doc:"Active color brightness 0-100"`
	Scratch    bool   `json:"scratch,omitempty" doc:"Whether the active color is unsaved"`
	Effect     string `json:"effect,omitempty" example:"rainbow" doc:"Active effect when mode is effect"`
	Count      int    `json:"count" example:"3" doc:"Number of saved palette entries"`
}

// Do executes a request against the typed operations and wraps the result
// in the shared envelope.
func (p *Processor) Do(req Request) Response {
	resp := Response{Kind: req.Kind}

	switch req.Kind {
	case KindSetColor:
		state, err := p.SetColor(req.Color, req.Brightness)
		return envelope(resp, state, err)
	case KindSetOff:
		resp.Value = p.SetOff()
	case KindSetEffect:
		state, err := p.SetEffect(req.Effect)
		return envelope(resp, state, err)
	case KindListSaved:
		resp.Value = p.ListSaved()
	case KindSaveColor:
		saved, err := p.Save(req.Color, req.Brightness)
		return envelope(resp, saved, err)
	case KindDeleteColor:
		remaining, err := p.Delete(req.Color, req.Brightness)
		return envelope(resp, remaining, err)
	default:
		resp.Error = fmt.Sprintf("unknown command %q", truncate(req.Kind))
	}
	return resp
}

func envelope[T any](resp Response, value T, err error) Response {
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Value = value
	return resp
}
