package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoConverter is returned by [ToPDF] and [ToPNG] when rsvg-convert is
// not installed.
var ErrNoConverter = errors.New("PDF and PNG export requires librsvg (brew install librsvg, apt install librsvg2-bin)")

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG with rsvg-convert. A scale of 2.0
// doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, ErrNoConverter
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert %s: %w: %s", format, err, stderr.String())
	}
	return out.Bytes(), nil
}
