package world

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is an RGBA color with float channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// HSV builds an opaque sRGB color. Hue is in degrees and wraps; saturation
// and value are clamped to [0, 1].
func HSV(hue, saturation, value float64) Color {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	s := clamp01(saturation)
	v := clamp01(value)

	sector := h / 60
	i := math.Floor(sector)
	f := sector - i
	dark := v * (1 - s)
	fall := v * (1 - s*f)
	rise := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, rise, dark
	case 1:
		r, g, b = fall, v, dark
	case 2:
		r, g, b = dark, v, rise
	case 3:
		r, g, b = dark, fall, v
	case 4:
		r, g, b = rise, dark, v
	default:
		r, g, b = v, dark, fall
	}
	return Color{R: float32(r), G: float32(g), B: float32(b), A: 1}
}

// Linear converts sRGB channels to linear light. Alpha is unchanged.
func (c Color) Linear() Color {
	return Color{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

// SRGB converts linear channels back to sRGB.
func (c Color) SRGB() Color {
	return Color{R: linearToSRGB(c.R), G: linearToSRGB(c.G), B: linearToSRGB(c.B), A: c.A}
}

func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// NRGBA quantizes the color to 8 bits per channel without conversion.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
		A: quantize(c.A),
	}
}

func srgbToLinear(x float32) float32 {
	v := float64(x)
	if v < 0.04045 {
		return float32(v / 12.92)
	}
	return float32(math.Pow((v+0.055)/1.055, 2.4))
}

func linearToSRGB(x float32) float32 {
	v := float64(x)
	if v < 0.0031308 {
		return float32(v * 12.92)
	}
	return float32(1.055*math.Pow(v, 1/2.4) - 0.055)
}

func quantize(v float32) uint8 {
	return uint8(math.Round(clamp01(float64(v)) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
