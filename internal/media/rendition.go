package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"time"

	"sortir/internal/assets"
	"sortir/internal/logging"
	"sortir/internal/metrics"

	// Still-image format decoders
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

// Profile is the size/quality preset governing a rendition.
type Profile string

const (
	// ProfileThumbnail is a 150x150 bounding box at higher compression,
	// sized for grid cells.
	ProfileThumbnail Profile = "thumbnail"
	// ProfilePreview is a 1920x1080 bounding box at lower compression,
	// sized for full-screen viewing.
	ProfilePreview Profile = "preview"
)

const (
	thumbnailBox     = 150
	previewBoxWidth  = 1920
	previewBoxHeight = 1080

	thumbnailQuality = 70
	previewQuality   = 85
)

// box returns the profile's bounding box.
func (p Profile) box() (w, h int) {
	if p == ProfilePreview {
		return previewBoxWidth, previewBoxHeight
	}
	return thumbnailBox, thumbnailBox
}

// quality returns the profile's JPEG quality.
func (p Profile) quality() int {
	if p == ProfilePreview {
		return previewQuality
	}
	return thumbnailQuality
}

// Renderer produces normalized JPEG renditions of arbitrary image and
// video sources. The frame decoder is an optional capability: when it
// is absent, video and raw sources render as the drawn placeholder.
type Renderer struct {
	frames FrameDecoder
}

// NewRenderer creates a Renderer. frames may be nil when no video
// decoding capability is available.
func NewRenderer(frames FrameDecoder) *Renderer {
	return &Renderer{frames: frames}
}

// Render produces the JPEG rendition of path at the given profile.
//
// Still images are decoded, orientation-corrected, alpha-flattened,
// and resized to fit the profile box without upscaling. Raw and video
// sources go through the frame decoder; on any frame decode failure a
// drawn placeholder stands in so the pipeline always has something to
// encode. A still image that cannot be decoded at all returns
// ErrDecodeFailed.
func (r *Renderer) Render(path string, profile Profile) ([]byte, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			metrics.RenditionsTotal.WithLabelValues(string(profile), "error").Inc()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		metrics.RenditionsTotal.WithLabelValues(string(profile), "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	kind := assets.Classify(path)

	var img image.Image
	var err error
	if assets.StillDecodable(kind) {
		img, err = r.decodeStill(path, profile)
		if err != nil {
			metrics.RenditionsTotal.WithLabelValues(string(profile), "error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
	} else {
		// Raw and video sources: extract a representative frame, or
		// fall back to the placeholder so the UI never waits on an
		// unrenderable file.
		img = r.extractOrPlaceholder(path)
	}

	data, err := encodeJPEG(img, profile)
	if err != nil {
		metrics.RenditionsTotal.WithLabelValues(string(profile), "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	metrics.RenditionsTotal.WithLabelValues(string(profile), "success").Inc()
	metrics.RenditionDuration.WithLabelValues(string(profile)).Observe(time.Since(start).Seconds())
	metrics.RenditionBytes.WithLabelValues(string(profile)).Observe(float64(len(data)))

	return data, nil
}

// decodeStill decodes a still image with orientation correction.
// The vips fast path shrinks during decode, which matters for very
// large sources; imaging is the portable fallback.
func (r *Renderer) decodeStill(path string, profile Profile) (image.Image, error) {
	if IsVipsAvailable() {
		w, h := profile.box()
		img, err := loadImageWithVips(path, w, h)
		if err == nil {
			return img, nil
		}
		logging.Debug("vips decode failed for %s: %v, falling back to imaging", path, err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v", path, err)

	// Last resort: some files carry a lying extension (HEIC in a .jpg,
	// say); ffmpeg decodes more formats than the Go libraries do.
	if r.frames != nil {
		img, ferr := r.frames.ExtractFrame(path)
		if ferr == nil {
			return img, nil
		}
		logging.Debug("frame decoder fallback failed for %s: %v", path, ferr)
	}

	return nil, err
}

// extractOrPlaceholder returns a decoded frame for the source, or the
// deterministic placeholder if no frame can be had.
func (r *Renderer) extractOrPlaceholder(path string) image.Image {
	if r.frames != nil {
		img, err := r.frames.ExtractFrame(path)
		if err == nil {
			return img
		}
		logging.Debug("frame extraction failed for %s: %v, using placeholder", path, err)
	}
	metrics.FramePlaceholdersTotal.Inc()
	return PlaceholderFrame()
}

// encodeJPEG flattens, resizes, and encodes an image per the profile.
func encodeJPEG(img image.Image, profile Profile) ([]byte, error) {
	img = flatten(img)

	// Fit never upscales: a box larger than the source leaves it
	// unchanged.
	w, h := profile.box()
	img = imaging.Fit(img, w, h, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: profile.quality()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites alpha or palette images onto a solid white
// background. JPEG has no alpha channel, and converting before the
// resize avoids doing the composite twice.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK:
		// Fully opaque already.
		return img
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)
	return flat
}

// DataURI wraps JPEG rendition bytes as a base64 data: URI for the
// control channel. The streaming server carries the same payload raw.
func DataURI(rendition []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(rendition)
}
