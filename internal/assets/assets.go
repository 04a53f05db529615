package assets

import (
	"path/filepath"
	"strings"
)

// Kind represents the classification of an asset file.
type Kind string

const (
	// KindImage represents an image decodable by the still-image path.
	KindImage Kind = "image"
	// KindRawImage represents a raw camera file. Raw files are treated
	// as images by the scanner but cannot be decoded by the standard
	// still-image libraries; they go through the frame-decoder path.
	KindRawImage Kind = "raw"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindUnsupported represents an unrecognized file type.
	KindUnsupported Kind = "unsupported"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
	".ico":  true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// RawExtensions maps file extensions to whether they are raw camera formats.
var RawExtensions = map[string]bool{
	".raw": true,
	".cr2": true,
	".nef": true,
	".arw": true,
	".dng": true,
	".orf": true,
	".rw2": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// Classify returns the Kind for a filename. The extension comparison is
// case-insensitive; anything outside the three extension sets is
// KindUnsupported.
func Classify(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ImageExtensions[ext]:
		return KindImage
	case RawExtensions[ext]:
		return KindRawImage
	case VideoExtensions[ext]:
		return KindVideo
	default:
		return KindUnsupported
	}
}

// StillDecodable reports whether the kind can be decoded by the
// still-image libraries. Raw and video files need the frame-decoder
// path instead.
func StillDecodable(kind Kind) bool {
	return kind == KindImage
}

// IsMedia reports whether the filename is any recognized asset type.
func IsMedia(filename string) bool {
	return Classify(filename) != KindUnsupported
}

// MimeType returns the MIME type for a filename based on its extension.
// Returns "application/octet-stream" if the extension is not recognized.
func MimeType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// DefaultScanExtensions returns the union of image, raw, and video
// extensions: the set the scanner filters by when the caller supplies
// none of its own.
func DefaultScanExtensions() map[string]bool {
	out := make(map[string]bool, len(ImageExtensions)+len(RawExtensions)+len(VideoExtensions))
	for ext := range ImageExtensions {
		out[ext] = true
	}
	for ext := range RawExtensions {
		out[ext] = true
	}
	for ext := range VideoExtensions {
		out[ext] = true
	}
	return out
}
