package internal

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifTimeLayout is the fixed timestamp format used by EXIF datetime tags
const exifTimeLayout = "2006:01:02 15:04:05"

// TagReader extracts embedded tags from a media file into a printable tag
// map. Unreadable files yield an empty map, never an error: missing metadata
// degrades fields to absent instead of rejecting the file.
type TagReader interface {
	ReadTags(path string) map[string]string
}

// Metadata holds the normalized tag values of one media file. Every field is
// individually present-or-absent.
type Metadata struct {
	Camera         *string
	CapturedAt     *time.Time
	Width          *int
	Height         *int
	ResolutionUnit *string
	ResolutionX    *int
	ResolutionY    *int
	Latitude       *float64
	Longitude      *float64
}

// ExtractMetadata normalizes a raw tag map into typed metadata. Each field
// follows a fallback chain; the first present tag wins.
func ExtractMetadata(tags map[string]string) Metadata {
	var meta Metadata

	if val, ok := firstTag(tags, "Model"); ok {
		meta.Camera = &val
	}

	if val, ok := firstTag(tags, "DateTimeOriginal", "DateTime"); ok {
		if ts, err := time.Parse(exifTimeLayout, val); err == nil {
			meta.CapturedAt = &ts
		}
	}

	if val, ok := firstTag(tags, "PixelXDimension", "ImageWidth"); ok {
		meta.Width = extractFirstInteger(val)
	}

	if val, ok := firstTag(tags, "PixelYDimension", "ImageLength"); ok {
		meta.Height = extractFirstInteger(val)
	}

	if val, ok := firstTag(tags, "ResolutionUnit"); ok {
		meta.ResolutionUnit = &val
	}

	if val, ok := firstTag(tags, "XResolution"); ok {
		meta.ResolutionX = extractFirstInteger(val)
	}

	if val, ok := firstTag(tags, "YResolution"); ok {
		meta.ResolutionY = extractFirstInteger(val)
	}

	meta.Latitude, meta.Longitude = gpsFromTags(tags)

	return meta
}

func firstTag(tags map[string]string, names ...string) (string, bool) {
	for _, name := range names {
		if val, ok := tags[name]; ok && val != "" {
			return val, true
		}
	}
	return "", false
}

var (
	integerPattern   = regexp.MustCompile(`^(\d+)`)
	bracketedPattern = regexp.MustCompile(`^\[(\d+),`)
	fractionPattern  = regexp.MustCompile(`^(\d+)(?:/(\d+))?`)
)

// extractFirstInteger parses a numeric tag token: a plain integer like
// "3434", a fraction like "72/1" or a bracketed pair like "[123, 0]". The
// numerator is used; unparsable tokens yield nil.
func extractFirstInteger(s string) *int {
	var digits string
	if m := integerPattern.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else if m := bracketedPattern.FindStringSubmatch(s); m != nil {
		digits = m[1]
	} else {
		return nil
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// extractFraction parses a "n/d" or plain "n" token into a float.
func extractFraction(s string) (float64, error) {
	m := fractionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("not a fraction: %q", s)
	}

	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}

	den := 1.0
	if m[2] != "" {
		den, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, err
		}
	}

	if den == 0 {
		if num == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("zero denominator in %q", s)
	}

	return num / den, nil
}

// parseCoordinate converts an EXIF coordinate token into decimal degrees.
// Accepts either a plain decimal value or a "[deg, min, sec]" triple of
// fraction-or-integer sub-tokens.
func parseCoordinate(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v, nil
	}

	parts := strings.Split(strings.Trim(trimmed, "[]"), ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed coordinate: %q", s)
	}

	deg, err := extractFraction(parts[0])
	if err != nil {
		return 0, err
	}
	min, err := extractFraction(parts[1])
	if err != nil {
		return 0, err
	}
	sec, err := extractFraction(parts[2])
	if err != nil {
		return 0, err
	}

	return deg + min/60 + sec/3600, nil
}

// gpsFromTags derives decimal coordinates from the four GPS tags. All four
// of latitude, longitude and their reference tags must be present; otherwise
// both results are absent.
func gpsFromTags(tags map[string]string) (lat, lon *float64) {
	latStr, ok := firstTag(tags, "GPSLatitude")
	if !ok {
		return nil, nil
	}
	lonStr, ok := firstTag(tags, "GPSLongitude")
	if !ok {
		return nil, nil
	}
	latRef, ok := firstTag(tags, "GPSLatitudeRef")
	if !ok {
		return nil, nil
	}
	lonRef, ok := firstTag(tags, "GPSLongitudeRef")
	if !ok {
		return nil, nil
	}

	latVal, err := parseCoordinate(latStr)
	if err != nil {
		return nil, nil
	}
	lonVal, err := parseCoordinate(lonStr)
	if err != nil {
		return nil, nil
	}

	if strings.EqualFold(latRef, "S") {
		latVal = -latVal
	}
	if strings.EqualFold(lonRef, "W") {
		lonVal = -lonVal
	}

	return &latVal, &lonVal
}

// exifFields are the tags the extractor consumes, in goexif field naming.
var exifFields = []exif.FieldName{
	exif.Model,
	exif.DateTimeOriginal,
	exif.DateTime,
	exif.PixelXDimension,
	exif.PixelYDimension,
	exif.ImageWidth,
	exif.ImageLength,
	exif.ResolutionUnit,
	exif.XResolution,
	exif.YResolution,
	exif.GPSLatitude,
	exif.GPSLatitudeRef,
	exif.GPSLongitude,
	exif.GPSLongitudeRef,
}

// GoexifReader reads tags with the pure-Go goexif decoder.
type GoexifReader struct{}

func NewGoexifReader() *GoexifReader {
	return &GoexifReader{}
}

func (r *GoexifReader) ReadTags(path string) map[string]string {
	tags := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		return tags
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return tags
	}

	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if val := printableTag(tag); val != "" {
			tags[string(field)] = val
		}
	}

	return tags
}

// printableTag renders a tiff tag value the way the extractor expects:
// strings verbatim, rationals as "n/d", multi-value tags bracketed.
func printableTag(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		val, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(val)

	case tiff.RatVal:
		vals := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return ""
			}
			vals = append(vals, fmt.Sprintf("%d/%d", num, den))
		}
		return joinTagValues(vals)

	case tiff.IntVal:
		vals := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int64(i)
			if err != nil {
				return ""
			}
			vals = append(vals, strconv.FormatInt(v, 10))
		}
		return joinTagValues(vals)

	case tiff.FloatVal:
		v, err := tag.Float(0)
		if err != nil {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return strings.Trim(tag.String(), `"`)
	}
}

func joinTagValues(vals []string) string {
	if len(vals) == 1 {
		return vals[0]
	}
	return "[" + strings.Join(vals, ", ") + "]"
}

// exiftoolFieldMap translates exiftool output keys to the extractor's tag
// names.
var exiftoolFieldMap = map[string]string{
	"Model":            "Model",
	"DateTimeOriginal": "DateTimeOriginal",
	"ModifyDate":       "DateTime",
	"ExifImageWidth":   "PixelXDimension",
	"ExifImageHeight":  "PixelYDimension",
	"ImageWidth":       "ImageWidth",
	"ImageHeight":      "ImageLength",
	"ResolutionUnit":   "ResolutionUnit",
	"XResolution":      "XResolution",
	"YResolution":      "YResolution",
	"GPSLatitude":      "GPSLatitude",
	"GPSLatitudeRef":   "GPSLatitudeRef",
	"GPSLongitude":     "GPSLongitude",
	"GPSLongitudeRef":  "GPSLongitudeRef",
}

// ExiftoolReader reads tags through an external exiftool binary. It handles
// formats goexif cannot decode (HEIC, RAW variants).
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

func NewExiftoolReader() (*ExiftoolReader, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

func (r *ExiftoolReader) ReadTags(path string) map[string]string {
	tags := make(map[string]string)

	metas := r.et.ExtractMetadata(path)
	if len(metas) == 0 || metas[0].Err != nil {
		return tags
	}

	for src, dst := range exiftoolFieldMap {
		if val, ok := metas[0].Fields[src]; ok {
			if s := strings.TrimSpace(fmt.Sprint(val)); s != "" {
				tags[dst] = s
			}
		}
	}

	return tags
}

func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}
