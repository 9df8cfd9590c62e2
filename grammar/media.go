package grammar

import (
	"path/filepath"
	"strings"
)

// MediaKind classifies an embed target by its file extension.
type MediaKind int

const (
	// MediaNone marks a document target.
	MediaNone MediaKind = iota
	MediaAudio
	MediaImage
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaAudio:
		return "audio"
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "none"
	}
}

// Extension groups, lower-case with the leading dot. Audio is checked first,
// so an extension listed twice classifies as audio.
var (
	AudioExts = map[string]struct{}{
		".mp3":  {},
		".flac": {},
		".m4a":  {},
		".ogg":  {},
		".wav":  {},
	}
	ImageExts = map[string]struct{}{
		".png":  {},
		".jpg":  {},
		".jpeg": {},
		".gif":  {},
		".svg":  {},
		".webp": {},
		".bmp":  {},
		".ico":  {},
		".tif":  {},
		".tiff": {},
	}
	VideoExts = map[string]struct{}{
		".mp4":  {},
		".webm": {},
		".ogv":  {},
		".mov":  {},
		".mkv":  {},
	}
)

// Ext returns the lower-cased extension of filename, including the dot.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ClassifyMedia returns the media group of filename.
func ClassifyMedia(filename string) MediaKind {
	ext := Ext(filename)
	if _, ok := AudioExts[ext]; ok {
		return MediaAudio
	}
	if _, ok := ImageExts[ext]; ok {
		return MediaImage
	}
	if _, ok := VideoExts[ext]; ok {
		return MediaVideo
	}
	return MediaNone
}

// IsMedia reports whether filename names an audio, image or video file.
func IsMedia(filename string) bool {
	return ClassifyMedia(filename) != MediaNone
}

// MIMESubtype is the extension without its dot, as used in `type="audio/mp3"`.
func MIMESubtype(filename string) string {
	return strings.TrimPrefix(Ext(filename), ".")
}
