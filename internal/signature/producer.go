package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	canvasWidth  = 500
	canvasHeight = 200

	// Glyphs are rasterized at basicfont scale and upscaled so the name reads
	// as a large handwritten-style mark rather than 13px text.
	glyphScale = 4

	rulePadding   = 6
	ruleThickness = 2
)

// Producer renders signature images for purchase order approval blocks.
type Producer struct {
	ink color.Color
}

// NewProducer constructs a signature producer drawing with near-black ink.
func NewProducer() *Producer {
	return &Producer{ink: color.RGBA{R: 16, G: 24, B: 96, A: 255}}
}

// Render produces a 500x200 PNG: the name drawn over a white background at
// one sixth of the width and half the height, with a rule underneath sized to
// the text width.
func (p *Producer) Render(name string) ([]byte, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("signature name is required")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	text := rasterizeText(trimmed, p.ink)
	scaledW := text.Bounds().Dx() * glyphScale
	scaledH := text.Bounds().Dy() * glyphScale
	if scaledW > canvasWidth-canvasWidth/6 {
		scaledW = canvasWidth - canvasWidth/6
	}

	originX := canvasWidth / 6
	originY := canvasHeight / 2

	target := image.Rect(originX, originY-scaledH, originX+scaledW, originY)
	xdraw.CatmullRom.Scale(canvas, target, text, text.Bounds(), xdraw.Over, nil)

	rule := image.Rect(originX, originY+rulePadding, originX+scaledW, originY+rulePadding+ruleThickness)
	draw.Draw(canvas, rule, image.NewUniform(p.ink), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode signature png: %w", err)
	}
	return buf.Bytes(), nil
}

// rasterizeText draws the name at basicfont resolution onto a transparent
// image tightly cropped to the glyph extents.
func rasterizeText(text string, ink color.Color) *image.RGBA {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width < 1 {
		width = 1
	}
	height := face.Metrics().Ascent.Ceil() + face.Metrics().Descent.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return img
}
