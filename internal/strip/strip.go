package strip

// Color is one pixel in 8-bit RGB.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Scaled returns the color with all channels scaled by factor/255.
func (c Color) Scaled(factor uint8) Color {
	return Color{
		R: uint8(uint16(c.R) * uint16(factor) / 255),
		G: uint8(uint16(c.G) * uint16(factor) / 255),
		B: uint8(uint16(c.B) * uint16(factor) / 255),
	}
}

// Buffer is the flat pixel buffer shared between the renderer and the driver.
type Buffer []Color

// NewBuffer allocates a zeroed buffer for count pixels.
func NewBuffer(count int) Buffer {
	return make(Buffer, count)
}

// Fill sets every pixel to the given color.
func (b Buffer) Fill(c Color) {
	for i := range b {
		b[i] = c
	}
}

// Clear sets every pixel to black.
func (b Buffer) Clear() {
	b.Fill(Color{})
}

// Driver pushes a finished pixel buffer to the physical strip.
// Implementations own the wire protocol; callers only ever hand over
// a flat RGB buffer.
type Driver interface {
	// Render pushes the buffer to the strip.
	Render(buf Buffer) error

	// Count returns the number of pixels the driver was configured for.
	Count() int

	// Close releases the hardware.
	Close() error
}
