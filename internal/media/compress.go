// Package media turns local attachments into upload payloads.
package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/maheshrc27/postbatch/internal/models"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultQuality  = 0.7
	DefaultMaxWidth = 1600
)

// Compress returns the base64 payload (no data-URI prefix) for f. Videos
// are encoded as is. Images wider than maxWidth are scaled down and every
// image is re-encoded as JPEG at quality (0..1). If the image cannot be
// decoded the original bytes are encoded instead, so Compress never fails.
// It holds no shared state and is safe for concurrent use.
func Compress(f models.MediaFile, quality float64, maxWidth int) string {
	if f.IsVideo() {
		return encodeRaw(f.Data)
	}

	out, err := reencode(f.Data, quality, maxWidth)
	if err != nil {
		slog.Info("image compression skipped", "name", f.Name, "error", err)
		return encodeRaw(f.Data)
	}
	return base64.StdEncoding.EncodeToString(out)
}

// ToUpload compresses f with the default settings and wraps it for upload.
func ToUpload(f models.MediaFile) models.UploadFile {
	data := Compress(f, DefaultQuality, DefaultMaxWidth)
	mimeType, name := f.MimeType, f.Name
	if !f.IsVideo() && isJPEGPayload(data) {
		mimeType = "image/jpeg"
		name = jpegName(name)
	}
	return models.UploadFile{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}
}

// jpegName swaps the extension of a re-encoded image for .jpg.
func jpegName(name string) string {
	ext := filepath.Ext(name)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return name
	}
	return strings.TrimSuffix(name, ext) + ".jpg"
}

func reencode(data []byte, quality float64, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := scaledSize(src.Bounds().Dx(), src.Bounds().Dy(), maxWidth)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scaledSize shrinks (never grows) width to maxWidth, keeping the aspect ratio.
func scaledSize(width, height, maxWidth int) (int, int) {
	if maxWidth <= 0 || width <= maxWidth {
		return width, height
	}
	h := (height*maxWidth + width/2) / width
	if h < 1 {
		h = 1
	}
	return maxWidth, h
}

func jpegQuality(q float64) int {
	n := int(q*100 + 0.5)
	switch {
	case n < 1:
		return 1
	case n > 100:
		return 100
	}
	return n
}

func encodeRaw(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// JPEG data always starts with FF D8 FF, which base64-encodes to "/9j/".
func isJPEGPayload(data string) bool {
	return len(data) >= 4 && data[:4] == "/9j/"
}
