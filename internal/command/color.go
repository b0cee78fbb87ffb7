package command

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lednode/lednode/internal/palette"
)

// maxFieldLength bounds incoming strings before they are parsed or echoed
// back in error messages.
const maxFieldLength = 32

// ParseEntry validates a hex color and brightness pair and converts them
// into a palette entry. The all-zero color is rejected; off is a mode, not
// a color.
func ParseEntry(hex string, brightness int) (palette.Entry, error) {
	if len(hex) > maxFieldLength {
		return palette.Entry{}, NewCommandError(ErrCodeInvalidColor,
			fmt.Sprintf("color %q exceeds %d characters", truncate(hex), maxFieldLength), nil)
	}
	if len(hex) != 6 {
		return palette.Entry{}, NewCommandError(ErrCodeInvalidColor,
			fmt.Sprintf("color %q must be 6 hex digits", hex), nil)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return palette.Entry{}, NewCommandError(ErrCodeInvalidColor,
			fmt.Sprintf("color %q is not valid hex", hex), err)
	}
	r, g, b := c.RGB255()
	if r == 0 && g == 0 && b == 0 {
		return palette.Entry{}, NewCommandError(ErrCodeInvalidColor,
			"color 000000 is reserved, use the off command", nil)
	}

	if brightness < 0 || brightness > 100 {
		return palette.Entry{}, NewCommandError(ErrCodeInvalidColor,
			fmt.Sprintf("brightness %d out of range 0-100", brightness), nil)
	}

	return palette.Entry{R: r, G: g, B: b, Brightness: uint8(brightness)}, nil
}

func truncate(s string) string {
	if len(s) > maxFieldLength {
		return s[:maxFieldLength] + "..."
	}
	return s
}
