package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os/exec"

	"sortir/internal/logging"
)

// FrameDecoder extracts a representative still frame from a container
// the still-image path cannot decode. It is a capability: callers hold
// nil when no decoder is available and fall back to the placeholder.
type FrameDecoder interface {
	ExtractFrame(path string) (image.Image, error)
}

// ffmpegDecoder shells out to ffmpeg for frame extraction.
type ffmpegDecoder struct {
	bin string
}

// NewFFmpegDecoder returns a FrameDecoder backed by the ffmpeg binary,
// or an error when ffmpeg is not on PATH.
func NewFFmpegDecoder() (FrameDecoder, error) {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logging.Debug("frame decoder using ffmpeg at %s", bin)
	return &ffmpegDecoder{bin: bin}, nil
}

// ExtractFrame decodes one frame from path. The first attempt seeks a
// second in to skip black or fade-in opening frames; short clips that
// cannot satisfy the seek get a second attempt from frame zero.
func (d *ffmpegDecoder) ExtractFrame(path string) (image.Image, error) {
	out, err := d.run(path, true)
	if err != nil {
		logging.Debug("ffmpeg seeked extraction failed for %s: %v, retrying from start", path, err)
		out, err = d.run(path, false)
		if err != nil {
			return nil, err
		}
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

func (d *ffmpegDecoder) run(path string, seek bool) ([]byte, error) {
	args := []string{"-i", path}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", path}
	}
	args = append(args,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command(d.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}
	return stdout.Bytes(), nil
}

// placeholderSize matches the thumbnail bounding box so the placeholder
// never needs resizing.
const placeholderSize = 150

var (
	placeholderBackground = color.RGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}
	placeholderGlyph      = color.RGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
)

// PlaceholderFrame draws the deterministic stand-in for an
// unrenderable video: a flat slate canvas with a play-icon triangle.
// Output is identical across calls, which keeps cached placeholder
// thumbnails byte-stable.
func PlaceholderFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	// Right-pointing triangle centered on the canvas.
	left := placeholderSize * 2 / 5
	right := placeholderSize * 7 / 10
	top := placeholderSize * 3 / 10
	bottom := placeholderSize * 7 / 10

	for x := left; x < right; x++ {
		// Inset grows as x approaches the tip.
		progress := float64(x-left) / float64(right-left)
		inset := int(progress * float64(bottom-top) / 2)
		for y := top + inset; y < bottom-inset; y++ {
			img.Set(x, y, placeholderGlyph)
		}
	}

	return img
}
