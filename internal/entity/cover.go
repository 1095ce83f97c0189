package entity

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"sync"
)

// ErrUnsupportedImage is returned for cover bytes that are neither PNG nor JPEG.
var ErrUnsupportedImage = errors.New("entity: unsupported cover image")

var coverExtensions = []string{".png", ".jpg"}

// ImageInfo describes a decoded cover header.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Ext returns the file extension covers of this format are stored under.
func (i ImageInfo) Ext() string {
	if i.Format == "jpeg" {
		return ".jpg"
	}
	return ".png"
}

// InspectImage decodes only the image header of r.
func InspectImage(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	if format != "png" && format != "jpeg" {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Cover is the resolved cover of a listed entity.
type Cover struct {
	// Path is empty when the placeholder stands in.
	Path        string
	Placeholder bool
	ImageInfo
}

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
	profileOnce     sync.Once
	profilePNG      []byte
)

// PlaceholderImage returns the PNG shown for entities without a readable cover.
func PlaceholderImage() []byte {
	placeholderOnce.Do(func() {
		placeholderPNG = solidPNG(64, 96, color.RGBA{R: 0xd9, G: 0xd4, B: 0xc7, A: 0xff})
	})
	return placeholderPNG
}

// DefaultProfileImage returns the PNG written for a new profile.
func DefaultProfileImage() []byte {
	profileOnce.Do(func() {
		profilePNG = solidPNG(128, 128, color.RGBA{R: 0x6b, G: 0x8e, B: 0xad, A: 0xff})
	})
	return profilePNG
}

func solidPNG(width, height int, fill color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(fmt.Sprintf("encode placeholder: %v", err))
	}
	return buf.Bytes()
}
