package internal

import (
	"testing"
	"time"
)

func TestExtractFirstInteger(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		absent   bool
	}{
		{"3434", 3434, false},
		{"72/1", 72, false},
		{"[123, 0]", 123, false},
		{"[4032, 1]", 4032, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
		{"[x, 1]", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := extractFirstInteger(tc.input)

			if tc.absent {
				if result != nil {
					t.Errorf("Expected absent for %q, got %d", tc.input, *result)
				}
				return
			}

			if result == nil {
				t.Fatalf("Expected %d for %q, got absent", tc.expected, tc.input)
			}
			if *result != tc.expected {
				t.Errorf("Expected %d for %q, got %d", tc.expected, tc.input, *result)
			}
		})
	}
}

func TestExtractFraction(t *testing.T) {
	testCases := []struct {
		input      string
		expected   float64
		shouldFail bool
	}{
		{"45/1", 45, false},
		{"1056/100", 10.56, false},
		{"30", 30, false},
		{"0/0", 0, false},
		{"5/0", 0, true},
		{"abc", 0, true},
	}

	for _, tc := range testCases {
		result, err := extractFraction(tc.input)

		if tc.shouldFail {
			if err == nil {
				t.Errorf("Expected error for %q, got %f", tc.input, result)
			}
			continue
		}

		if err != nil {
			t.Errorf("extractFraction(%q) failed: %v", tc.input, err)
			continue
		}
		if result != tc.expected {
			t.Errorf("Expected %f for %q, got %f", tc.expected, tc.input, result)
		}
	}
}

func TestParseCoordinate(t *testing.T) {
	testCases := []struct {
		input      string
		expected   float64
		shouldFail bool
	}{
		{"[45/1, 30/1, 0/1]", 45.5, false},
		{"[48/1, 8/1, 4920/100]", 48.147, false},
		{"43.467438", 43.467438, false},
		{"[45/1, 30/1]", 0, true},
		{"not a coordinate", 0, true},
	}

	for _, tc := range testCases {
		result, err := parseCoordinate(tc.input)

		if tc.shouldFail {
			if err == nil {
				t.Errorf("Expected error for %q, got %f", tc.input, result)
			}
			continue
		}

		if err != nil {
			t.Errorf("parseCoordinate(%q) failed: %v", tc.input, err)
			continue
		}

		if diff := result - tc.expected; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Expected %f for %q, got %f", tc.expected, tc.input, result)
		}
	}
}

func fullGPSTags() map[string]string {
	return map[string]string{
		"GPSLatitude":     "[45/1, 30/1, 0/1]",
		"GPSLongitude":    "[9/1, 15/1, 0/1]",
		"GPSLatitudeRef":  "N",
		"GPSLongitudeRef": "E",
	}
}

func TestGPSFromTags(t *testing.T) {
	lat, lon := gpsFromTags(fullGPSTags())
	if lat == nil || lon == nil {
		t.Fatal("Expected coordinates, got absent")
	}
	if *lat != 45.5 {
		t.Errorf("Expected latitude 45.5, got %f", *lat)
	}
	if *lon != 9.25 {
		t.Errorf("Expected longitude 9.25, got %f", *lon)
	}
}

func TestGPSFromTags_SignFlip(t *testing.T) {
	tags := fullGPSTags()
	tags["GPSLatitudeRef"] = "S"
	tags["GPSLongitudeRef"] = "W"

	lat, lon := gpsFromTags(tags)
	if lat == nil || lon == nil {
		t.Fatal("Expected coordinates, got absent")
	}
	if *lat != -45.5 {
		t.Errorf("Expected latitude -45.5, got %f", *lat)
	}
	if *lon != -9.25 {
		t.Errorf("Expected longitude -9.25, got %f", *lon)
	}
}

func TestGPSFromTags_MissingSubTag(t *testing.T) {
	// Any one missing sub-tag makes both coordinates absent
	for _, missing := range []string{"GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef"} {
		tags := fullGPSTags()
		delete(tags, missing)

		lat, lon := gpsFromTags(tags)
		if lat != nil || lon != nil {
			t.Errorf("Expected absent coordinates without %s", missing)
		}
	}
}

func TestGPSFromTags_Malformed(t *testing.T) {
	tags := fullGPSTags()
	tags["GPSLatitude"] = "garbage"

	lat, lon := gpsFromTags(tags)
	if lat != nil || lon != nil {
		t.Error("Expected absent coordinates for malformed latitude")
	}
}

func TestExtractMetadata_FallbackChains(t *testing.T) {
	tags := map[string]string{
		"Model":            "Canon EOS 5D",
		"DateTimeOriginal": "2023:05:20 14:30:22",
		"DateTime":         "2024:01:01 00:00:00",
		"PixelXDimension":  "4032",
		"ImageWidth":       "1000",
		"ImageLength":      "3024",
		"ResolutionUnit":   "2",
		"XResolution":      "72/1",
		"YResolution":      "72/1",
	}

	meta := ExtractMetadata(tags)

	if meta.Camera == nil || *meta.Camera != "Canon EOS 5D" {
		t.Errorf("Expected camera 'Canon EOS 5D', got %v", meta.Camera)
	}

	// Detailed tag wins over the generic one
	expected := time.Date(2023, 5, 20, 14, 30, 22, 0, time.UTC)
	if meta.CapturedAt == nil || !meta.CapturedAt.Equal(expected) {
		t.Errorf("Expected capture time %v, got %v", expected, meta.CapturedAt)
	}

	if meta.Width == nil || *meta.Width != 4032 {
		t.Errorf("Expected width 4032, got %v", meta.Width)
	}

	// Height falls back to the generic tag
	if meta.Height == nil || *meta.Height != 3024 {
		t.Errorf("Expected height 3024, got %v", meta.Height)
	}

	if meta.ResolutionX == nil || *meta.ResolutionX != 72 {
		t.Errorf("Expected resolution x 72, got %v", meta.ResolutionX)
	}

	if meta.Latitude != nil || meta.Longitude != nil {
		t.Error("Expected absent coordinates without GPS tags")
	}
}

func TestExtractMetadata_DateTimeFallback(t *testing.T) {
	meta := ExtractMetadata(map[string]string{
		"DateTime": "2022:12:31 23:59:59",
	})

	expected := time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC)
	if meta.CapturedAt == nil || !meta.CapturedAt.Equal(expected) {
		t.Errorf("Expected capture time %v, got %v", expected, meta.CapturedAt)
	}
}

func TestExtractMetadata_UnparsableTimestamp(t *testing.T) {
	meta := ExtractMetadata(map[string]string{
		"DateTimeOriginal": "not a timestamp",
	})

	if meta.CapturedAt != nil {
		t.Errorf("Expected absent capture time, got %v", meta.CapturedAt)
	}
}

func TestExtractMetadata_EmptyTags(t *testing.T) {
	meta := ExtractMetadata(map[string]string{})

	if meta.Camera != nil || meta.CapturedAt != nil || meta.Width != nil ||
		meta.Height != nil || meta.ResolutionUnit != nil ||
		meta.ResolutionX != nil || meta.ResolutionY != nil ||
		meta.Latitude != nil || meta.Longitude != nil {
		t.Error("Expected fully-absent metadata for an empty tag map")
	}
}

func TestGoexifReader_UnreadableFile(t *testing.T) {
	reader := NewGoexifReader()

	tags := reader.ReadTags("/nonexistent/file.jpg")
	if len(tags) != 0 {
		t.Errorf("Expected empty tag map for unreadable file, got %v", tags)
	}
}
