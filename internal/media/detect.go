package media

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postbatch/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewFile builds a MediaFile, sniffing the content type when the declared
// one is missing or generic, and inventing a name when none is given.
func NewFile(name, declaredType string, data []byte) models.MediaFile {
	mimeType := declaredType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = sniff(data)
	}

	if strings.TrimSpace(name) == "" {
		name = generatedName(data)
	}

	return models.MediaFile{Name: filepath.Base(name), MimeType: mimeType, Data: data}
}

// Supported reports whether the bytes look like an image or a video.
func Supported(data []byte) bool {
	return filetype.IsImage(data) || filetype.IsVideo(data)
}

func sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}

func generatedName(data []byte) string {
	id, err := gonanoid.New()
	if err != nil {
		id = "upload"
	}
	if kind, err := filetype.Match(data); err == nil && kind != types.Unknown {
		return id + "." + kind.Extension
	}
	return id
}
