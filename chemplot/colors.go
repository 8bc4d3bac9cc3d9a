package chemplot

import "image/color"

// palette goes from red to violet. Yellows are left out, as they are hard to see on white.
var palette = []color.RGBA{
	{R: 255, G: 0, B: 0, A: 255},
	{R: 155, G: 255, B: 0, A: 255},
	{R: 0, G: 255, B: 28, A: 255},
	{R: 0, G: 255, B: 212, A: 255},
	{R: 0, G: 113, B: 255, A: 255},
	{R: 70, G: 0, B: 255, A: 255},
}

// colors returns the color number key of the palette. Keys beyond the palette wrap around.
func colors(key int) color.RGBA {
	if key < 0 {
		key = -key
	}
	return palette[key%len(palette)]
}
