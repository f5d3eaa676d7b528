package internal

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// createTestImage creates a test image with a simple gradient pattern
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8((x + y) % 255),
				A: 255,
			}
			img.Set(x, y, c)
		}
	}

	return img
}

// saveTestImage saves an image to a file with the given JPEG quality
func saveTestImage(img image.Image, path string, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	options := &jpeg.Options{Quality: quality}
	return jpeg.Encode(file, img, options)
}

func TestCryptoHash(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "content.bin")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	hash, err := CryptoHash(path, "sha256")
	if err != nil {
		t.Fatalf("CryptoHash failed: %v", err)
	}

	// sha256("hello")
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if hash != expected {
		t.Errorf("Expected %s, got %s", expected, hash)
	}
}

func TestCryptoHash_IdenticalBytes(t *testing.T) {
	tempDir := t.TempDir()

	path1 := filepath.Join(tempDir, "a.bin")
	path2 := filepath.Join(tempDir, "b.bin")
	os.WriteFile(path1, []byte("same bytes"), 0644)
	os.WriteFile(path2, []byte("same bytes"), 0644)

	hash1, err := CryptoHash(path1, "sha256")
	if err != nil {
		t.Fatal(err)
	}
	hash2, err := CryptoHash(path2, "sha256")
	if err != nil {
		t.Fatal(err)
	}

	if hash1 != hash2 {
		t.Errorf("Identical bytes produced different hashes: %s vs %s", hash1, hash2)
	}
}

func TestCryptoHash_UnsupportedAlgorithm(t *testing.T) {
	if _, err := CryptoHash("irrelevant", "crc32"); err == nil {
		t.Error("Expected error for unsupported algorithm")
	}
}

func TestPerceptualHash(t *testing.T) {
	tempDir := t.TempDir()

	img := createTestImage(200, 150)
	path := filepath.Join(tempDir, "test.jpg")
	if err := saveTestImage(img, path, 90); err != nil {
		t.Fatal(err)
	}

	for _, method := range []string{"average", "phash", "dhash"} {
		t.Run(method, func(t *testing.T) {
			hash1, err := PerceptualHash(path, method)
			if err != nil {
				t.Fatalf("PerceptualHash failed: %v", err)
			}

			if !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(hash1) {
				t.Errorf("Expected 16 hex digits, got %q", hash1)
			}

			// Deterministic for identical bytes
			hash2, err := PerceptualHash(path, method)
			if err != nil {
				t.Fatal(err)
			}
			if hash1 != hash2 {
				t.Errorf("Hash not deterministic: %s vs %s", hash1, hash2)
			}
		})
	}
}

func TestPerceptualHash_UnsupportedMethod(t *testing.T) {
	for _, method := range []string{"whash", "md5", ""} {
		if _, err := PerceptualHash("irrelevant", method); err == nil {
			t.Errorf("Expected error for unsupported method %q", method)
		}
	}
}

func TestPerceptualHash_NotAnImage(t *testing.T) {
	tempDir := t.TempDir()

	path := filepath.Join(tempDir, "not_an_image.jpg")
	os.WriteFile(path, []byte("plain text"), 0644)

	if _, err := PerceptualHash(path, "phash"); err == nil {
		t.Error("Expected error for undecodable image")
	}
}
