package media

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"sortir/internal/assets"
	"sortir/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/rwcarlsen/goexif/exif"
)

// Unknown is the sentinel for metadata fields that could not be read.
// Absent values are represented, never fabricated.
const Unknown = "Unknown"

// DescribeStatus tells callers how much of the record was actually
// extracted, so "no data" is distinguishable from "not attempted".
type DescribeStatus string

const (
	// DescribeFull means dimensions and camera tags were both read.
	DescribeFull DescribeStatus = "full"
	// DescribePartial means the file opened but some extraction failed;
	// the remaining fields are populated.
	DescribePartial DescribeStatus = "partial"
	// DescribeStatOnly means only filesystem attributes are available.
	DescribeStatOnly DescribeStatus = "stat-only"
)

// AssetMetadata is the best-effort metadata record for a single asset.
// Field names follow what the detail panel displays.
type AssetMetadata struct {
	Filename   string         `json:"filename"`
	Resolution string         `json:"resolution"`
	Size       string         `json:"size"`
	Format     string         `json:"format"`
	Date       string         `json:"date"`
	Camera     string         `json:"camera"`
	ISO        string         `json:"iso"`
	Aperture   string         `json:"aperture"`
	Shutter    string         `json:"shutter"`
	Status     DescribeStatus `json:"status"`
}

// Describe builds the metadata record for path. It never returns an
// error: extraction failures degrade the Status and leave the affected
// fields at Unknown, with the rest populated from the filesystem stat.
func Describe(path string) AssetMetadata {
	meta := AssetMetadata{
		Filename:   filepath.Base(path),
		Resolution: Unknown,
		Size:       Unknown,
		Format:     Unknown,
		Date:       Unknown,
		Camera:     Unknown,
		ISO:        Unknown,
		Aperture:   Unknown,
		Shutter:    Unknown,
		Status:     DescribeStatOnly,
	}

	info, err := os.Stat(path)
	if err != nil {
		logging.Debug("describe: stat failed for %s: %v", path, err)
		return meta
	}
	meta.Size = humanize.Bytes(uint64(info.Size()))

	ext := strings.ToLower(filepath.Ext(path))
	kind := assets.Classify(path)

	switch kind {
	case assets.KindVideo:
		// Dimensions deliberately not probed for videos; that would pull
		// in a container-inspection dependency for one field.
		meta.Format = fmt.Sprintf("Video (%s)", strings.ToUpper(strings.TrimPrefix(ext, ".")))
		meta.Status = DescribePartial
		return meta
	case assets.KindUnsupported:
		return meta
	}

	meta.Format = strings.ToUpper(strings.TrimPrefix(ext, "."))

	full := true
	if dims, format, err := probeDimensions(path); err == nil {
		meta.Resolution = dims
		if format != "" {
			meta.Format = strings.ToUpper(format)
		}
	} else {
		logging.Debug("describe: dimension probe failed for %s: %v", path, err)
		full = false
	}

	if !readExif(path, &meta) {
		full = false
	}

	if full {
		meta.Status = DescribeFull
	} else {
		meta.Status = DescribePartial
	}
	return meta
}

// probeDimensions reads pixel dimensions without a full decode.
func probeDimensions(path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	config, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%dx%d", config.Width, config.Height), format, nil
}

// readExif fills the camera fields from embedded EXIF tags. Each tag's
// absence leaves its field at Unknown; the return value reports whether
// every tag was present.
func readExif(path string, meta *AssetMetadata) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// Non-JPEG formats and stripped files commonly carry no EXIF at
		// all; this is the expected path, not an error.
		logging.Debug("describe: no exif in %s: %v", path, err)
		return false
	}

	complete := true

	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if s, err := tag.StringVal(); err == nil {
			meta.Date = s
		}
	} else if tag, err := x.Get(exif.DateTime); err == nil {
		if s, err := tag.StringVal(); err == nil {
			meta.Date = s
		}
	}
	if meta.Date == Unknown {
		complete = false
	}

	maker := tagString(x, exif.Make)
	model := tagString(x, exif.Model)
	switch {
	case maker != "" && model != "":
		meta.Camera = maker + " " + model
	case model != "":
		meta.Camera = model
	case maker != "":
		meta.Camera = maker
	default:
		complete = false
	}

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			meta.ISO = fmt.Sprintf("%d", iso)
		}
	}
	if meta.ISO == Unknown {
		complete = false
	}

	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			meta.Aperture = fmt.Sprintf("f/%.1f", float64(num)/float64(den))
		}
	}
	if meta.Aperture == Unknown {
		complete = false
	}

	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && num != 0 {
			if num == 1 {
				meta.Shutter = fmt.Sprintf("1/%d", den)
			} else {
				meta.Shutter = fmt.Sprintf("%d/%d", num, den)
			}
		}
	}
	if meta.Shutter == Unknown {
		complete = false
	}

	return complete
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
