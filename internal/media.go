package internal

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// MediaRecord is one row of the catalog: one unique file ever successfully
// ingested, with its extracted metadata, geolocation and hash identifiers.
type MediaRecord struct {
    ID             uint   `gorm:"primaryKey"`
    OriginalPath   string `gorm:"not null"`
    Camera         *string
    CapturedAt     *time.Time
    FileType       *string
    SizeBytes      int64
    Width          *int
    Height         *int
    ResolutionUnit *string
    ResolutionX    *int
    ResolutionY    *int
    Longitude      *float64
    Latitude       *float64
    Country        string `gorm:"default:unknown"`
    Region         string `gorm:"default:unknown"`
    City           string `gorm:"default:unknown"`
    PerceptualHash string `gorm:"not null"`
    CryptoHash     string `gorm:"not null;uniqueIndex"`
    NewPath        string `gorm:"default:''"`
    DuplicateRank  int    `gorm:"not null;default:0"`
}

func (MediaRecord) TableName() string {
    return "media"
}

// ScanMediaFiles scans a directory recursively for media files based on the
// recognized extensions
func ScanMediaFiles(inputDir string, exts []string) ([]string, error) {
    var files []string
    err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
        if err != nil {
            return err
        }
        if info.IsDir() {
            return nil
        }

        ext := strings.ToLower(filepath.Ext(info.Name()))
        for _, e := range exts {
            if ext == e {
                files = append(files, path)
                return nil
            }
        }
        return nil
    })
    if err != nil {
        return nil, fmt.Errorf("error scanning files: %w", err)
    }
    return files, nil
}

// BuildRecord assembles the in-memory catalog entity for one candidate
// file: file attributes, extracted metadata, geolocation and both hashes.
// Metadata and geolocation failures degrade to absent values; only stat and
// hashing errors fail the build, since both hashes are required fields.
func BuildRecord(ctx context.Context, path string, cfg *Config, reader TagReader, geocoder Geocoder, hasher Hasher) (*MediaRecord, error) {
    absPath, err := filepath.Abs(path)
    if err != nil {
        return nil, err
    }

    info, err := os.Stat(absPath)
    if err != nil {
        return nil, err
    }

    perceptual, err := hasher.Perceptual(absPath)
    if err != nil {
        return nil, fmt.Errorf("perceptual hash failed: %w", err)
    }
    crypto, err := hasher.Crypto(absPath)
    if err != nil {
        return nil, fmt.Errorf("crypto hash failed: %w", err)
    }

    meta := ExtractMetadata(reader.ReadTags(absPath))
    loc := ResolveLocation(ctx, geocoder, meta.Latitude, meta.Longitude)

    rec := &MediaRecord{
        OriginalPath:   absPath,
        Camera:         meta.Camera,
        CapturedAt:     meta.CapturedAt,
        SizeBytes:      info.Size(),
        Width:          meta.Width,
        Height:         meta.Height,
        ResolutionUnit: meta.ResolutionUnit,
        ResolutionX:    meta.ResolutionX,
        ResolutionY:    meta.ResolutionY,
        Longitude:      meta.Longitude,
        Latitude:       meta.Latitude,
        Country:        loc.Country,
        Region:         loc.Region,
        City:           loc.City,
        PerceptualHash: perceptual,
        CryptoHash:     crypto,
    }

    // Type is descriptive, not gating: unrecognized extensions stay absent.
    if fileType, ok := cfg.TypeForExt(filepath.Ext(absPath)); ok {
        rec.FileType = &fileType
    }

    return rec, nil
}
