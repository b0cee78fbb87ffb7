package strip

import (
	"os"
	"strings"

	"github.com/lednode/lednode/internal/logging"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Config selects and configures the strip driver.
type Config struct {
	// Driver is "auto", "ws281x" or "noop".
	Driver string
	// GpioPin is the data pin for the ws281x driver.
	GpioPin int
	// Count is the number of pixels on the strip.
	Count int
}

// New creates a strip driver based on configuration and board detection.
// Falls back to the no-op driver when the hardware is not available.
func New(cfg Config, logger logging.Logger) Driver {
	switch cfg.Driver {
	case "noop":
		return newNoop(cfg.Count, logger)

	case "ws281x":
		drv, err := newWS281x(cfg)
		if err != nil {
			if logger != nil {
				logger.Warn("ws281x driver unavailable, using no-op driver", "error", err)
			}
			return newNoop(cfg.Count, logger)
		}
		return drv

	default: // auto
		board := detectBoard()
		if logger != nil {
			logger.Info("Detecting board for strip driver", "board_model", board)
		}
		if strings.Contains(board, "Raspberry Pi") {
			drv, err := newWS281x(cfg)
			if err == nil {
				if logger != nil {
					logger.Info("Using ws281x strip driver", "gpio_pin", cfg.GpioPin, "count", cfg.Count)
				}
				return drv
			}
			if logger != nil {
				logger.Warn("ws281x driver failed, using no-op driver", "error", err)
			}
		}
		return newNoop(cfg.Count, logger)
	}
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
