package models

import "strings"

// MediaFile is a local attachment held by the draft until submission.
type MediaFile struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

func (f MediaFile) IsVideo() bool {
	return strings.HasPrefix(f.MimeType, "video")
}

func (f MediaFile) IsImage() bool {
	return strings.HasPrefix(f.MimeType, "image/")
}

// UploadFile is the transport payload of an upload call.
type UploadFile struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
}

type UploadResult struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}
