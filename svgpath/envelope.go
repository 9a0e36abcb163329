package svgpath

import (
	"fmt"
	"io"
)

// Envelope describes the outer SVG document a path is wrapped in: the
// viewBox/width/height, an optional background rect, and the visual
// attributes applied to the single <path> element.
type Envelope struct {
	Width, Height float64
	Background    string // empty means no background rect
	Fill          string
	Stroke        string
	StrokeWidth   float64
	Linejoin      string
	Linecap       string
}

// Write renders a complete standalone SVG document to w, embedding
// pathData as the single path's "d" attribute.
func (env Envelope) Write(w io.Writer, pathData string) error {
	if _, err := fmt.Fprintf(w, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %g %g\" width=\"%g\" height=\"%g\">\n",
		env.Width, env.Height, env.Width, env.Height); err != nil {
		return err
	}
	if env.Background != "" {
		if _, err := fmt.Fprintf(w, "  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n",
			env.Width, env.Height, env.Background); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  <path d=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\" stroke-linejoin=\"%s\" stroke-linecap=\"%s\"/>\n</svg>\n",
		pathData, env.Fill, env.Stroke, env.StrokeWidth, env.Linejoin, env.Linecap)
	return err
}
