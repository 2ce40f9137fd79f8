package signature

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestRenderProducesExpectedCanvas(t *testing.T) {
	producer := NewProducer()

	data, err := producer.Render("Jane Reviewer")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != canvasWidth || bounds.Dy() != canvasHeight {
		t.Fatalf("expected %dx%d canvas, got %dx%d", canvasWidth, canvasHeight, bounds.Dx(), bounds.Dy())
	}

	// Corners stay white; the mark sits in the middle of the canvas.
	if !isWhite(img.At(0, 0)) || !isWhite(img.At(canvasWidth-1, canvasHeight-1)) {
		t.Fatal("expected white background at corners")
	}

	inked := 0
	for y := 0; y < canvasHeight; y++ {
		for x := 0; x < canvasWidth; x++ {
			if !isWhite(img.At(x, y)) {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Fatal("expected the rendered name to leave ink on the canvas")
	}
}

func TestRenderRejectsBlankName(t *testing.T) {
	producer := NewProducer()
	if _, err := producer.Render("   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestRenderLongerNameDrawsWiderRule(t *testing.T) {
	producer := NewProducer()

	short, err := producer.Render("Al")
	if err != nil {
		t.Fatalf("render short: %v", err)
	}
	long, err := producer.Render("Alexandra Vandenberg")
	if err != nil {
		t.Fatalf("render long: %v", err)
	}

	if rowInkWidth(t, short, canvasHeight/2+rulePadding) >= rowInkWidth(t, long, canvasHeight/2+rulePadding) {
		t.Fatal("expected the rule to widen with the name")
	}
}

func rowInkWidth(t *testing.T, data []byte, y int) int {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	count := 0
	for x := 0; x < canvasWidth; x++ {
		if !isWhite(img.At(x, y)) {
			count++
		}
	}
	return count
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}
