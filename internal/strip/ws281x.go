//go:build pi

package strip

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// ws281xDriver drives WS281x strips through the rpi-ws281x PWM engine.
type ws281xDriver struct {
	dev   *ws2811.WS2811
	count int
}

func newWS281x(cfg Config) (Driver, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = cfg.GpioPin
	opt.Channels[0].LedCount = cfg.Count
	// Brightness scaling happens in software before Render, so the
	// hardware channel stays at full range.
	opt.Channels[0].Brightness = 255

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws281x setup failed: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws281x init failed: %w", err)
	}

	return &ws281xDriver{dev: dev, count: cfg.Count}, nil
}

// Render packs the buffer into the channel registers and pushes it out.
func (w *ws281xDriver) Render(buf Buffer) error {
	leds := w.dev.Leds(0)
	for i := 0; i < len(leds) && i < len(buf); i++ {
		leds[i] = uint32(buf[i].R)<<16 | uint32(buf[i].G)<<8 | uint32(buf[i].B)
	}
	if err := w.dev.Render(); err != nil {
		return err
	}
	return w.dev.Wait()
}

// Count returns the configured pixel count.
func (w *ws281xDriver) Count() int {
	return w.count
}

// Close blanks the strip and releases the PWM engine.
func (w *ws281xDriver) Close() error {
	leds := w.dev.Leds(0)
	for i := range leds {
		leds[i] = 0
	}
	_ = w.dev.Render()
	w.dev.Fini()
	return nil
}
