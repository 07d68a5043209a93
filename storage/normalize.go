package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"
)

// Границы нормализации соответствуют трансформации, применявшейся к
// изображениям при загрузке: не больше 1920x1080, умеренное качество.
const (
	maxImageWidth  = 1920
	maxImageHeight = 1080
	jpegQuality    = 85
)

type NormalizedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// NormalizeImage декодирует изображение, при необходимости уменьшает его до
// границ maxImageWidth x maxImageHeight с сохранением пропорций и
// перекодирует в JPEG.
func NormalizeImage(data []byte) (*NormalizedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxImageWidth || height > maxImageHeight {
		scaleW := float64(maxImageWidth) / float64(width)
		scaleH := float64(maxImageHeight) / float64(height)
		scale := scaleW
		if scaleH < scale {
			scale = scaleH
		}
		newWidth := int(float64(width) * scale)
		newHeight := int(float64(height) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		img = resizeNearest(img, newWidth, newHeight)
		width, height = newWidth, newHeight
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &NormalizedImage{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       width,
		Height:      height,
	}, nil
}

func resizeNearest(src image.Image, width, height int) image.Image {
	srcBounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := srcBounds.Min.Y + y*srcBounds.Dy()/height
		for x := 0; x < width; x++ {
			srcX := srcBounds.Min.X + x*srcBounds.Dx()/width
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}
