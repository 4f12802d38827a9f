// Package qrcode renders connect URLs as inline QR images.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// ModulePixels is the edge length of one QR module in the PNG.
	ModulePixels = 6

	// QuietZone is the border width in modules.
	QuietZone = 2
)

// PNG encodes content as a QR code PNG with ModulePixels-wide modules and a
// QuietZone-module border.
func PNG(content string) ([]byte, error) {
	code, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qrcode: %w", err)
	}
	// go-qrcode's built-in border is four modules wide.
	code.DisableBorder = true

	// Negative size means pixels per module.
	symbol := code.Image(-ModulePixels)

	pad := QuietZone * ModulePixels
	b := symbol.Bounds()
	canvas := image.NewPaletted(
		image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad),
		[]color.Color{code.BackgroundColor, code.ForegroundColor},
	)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(code.BackgroundColor), image.Point{}, draw.Src)
	draw.Draw(canvas, b.Add(image.Pt(pad, pad)), symbol, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("qrcode: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns content as a data:image/png;base64 URI for <img src>.
func DataURI(content string) (string, error) {
	data, err := PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
