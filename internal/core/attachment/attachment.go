package attachment

import (
	"io"
	"mime"
	"strings"
	"time"
)

// Kind is the post slot an upload lands in.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Classify maps a declared media type to a slot. Parameters such as charset are ignored.
func Classify(contentType string) (Kind, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return KindImage, true
	case strings.HasPrefix(mediaType, "video/"):
		return KindVideo, true
	}
	return "", false
}

// Upload is a single file received with a create or update request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stored is the outcome of a successful ingestion.
type Stored struct {
	Kind Kind
	Ref  string
}

// Object is a file as listed by a storage backend.
type Object struct {
	Ref     string
	ModTime time.Time
}
