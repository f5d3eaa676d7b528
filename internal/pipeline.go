package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileStatus is the terminal outcome of one candidate file.
type FileStatus int

const (
	StatusAdded   FileStatus = iota // inserted, copied and recorded
	StatusIgnored                   // duplicate content, left untouched
	StatusFailed                    // failed at some stage, original left in place
)

// FileResult is the per-file outcome of the ingestion pipeline.
type FileResult struct {
	Path     string
	Status   FileStatus
	DestPath string
	Err      *ImportError
}

// BatchResult aggregates the outcomes of one AddFolders run.
type BatchResult struct {
	Added          []FileResult
	Ignored        []FileResult
	Failed         []FileResult
	IgnoredFolders []string
	Stats          *ErrorStats
}

func (b *BatchResult) Total() int {
	return len(b.Added) + len(b.Ignored) + len(b.Failed)
}

// RepositoryInfo summarizes the catalog for the info command.
type RepositoryInfo struct {
	TotalRecords int
	TotalSize    int64
	FilesExist   int
}

// Organizer owns the ingestion pipeline of one repository: it builds a
// catalog entity per candidate file, inserts it, relocates the file into
// the date-organized tree and records the final path.
type Organizer struct {
	root     string
	cfg      *Config
	store    *Store
	reader   TagReader
	geocoder Geocoder
	hasher   Hasher
	log      *slog.Logger
}

func NewOrganizer(root string, cfg *Config, store *Store, reader TagReader, geocoder Geocoder, hasher Hasher, log *slog.Logger) *Organizer {
	return &Organizer{
		root:     root,
		cfg:      cfg,
		store:    store,
		reader:   reader,
		geocoder: geocoder,
		hasher:   hasher,
		log:      log,
	}
}

// Config returns the configuration the repository was opened with.
func (o *Organizer) Config() *Config {
	return o.cfg
}

// CatalogPath returns the sidecar catalog file location for a repository
// root under the given configuration.
func CatalogPath(root string, cfg *Config) string {
	return filepath.Join(root, cfg.CatalogFolder, cfg.CatalogFile)
}

// LogPath returns the repository logfile location.
func LogPath(root string, cfg *Config) string {
	return filepath.Join(root, cfg.CatalogFolder, cfg.LogFile)
}

// CreateRepository creates the repository folder tree and its catalog at
// root. Creating over an existing valid repository is allowed and leaves it
// untouched.
func CreateRepository(root string, cfg *Config) (*Store, *slog.Logger, error) {
	if err := os.MkdirAll(filepath.Join(root, cfg.CatalogFolder), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create repository folders: %w", err)
	}

	log := NewLogger(LogPath(root, cfg))
	store, err := OpenStore(CatalogPath(root, cfg), log)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}

// OpenRepository opens an existing repository, validating the catalog. A
// missing or structurally invalid catalog surfaces ErrInvalidCatalog and
// stops the requested operation.
func OpenRepository(root string, cfg *Config) (*Store, *slog.Logger, error) {
	catalogPath := CatalogPath(root, cfg)
	if _, err := os.Stat(catalogPath); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, root)
	}

	log := NewLogger(LogPath(root, cfg))
	store, err := OpenStore(catalogPath, log)
	if err != nil {
		return nil, nil, err
	}
	return store, log, nil
}

// destinationDir picks the repository subfolder for a record: capture
// year/month, or unknown/unknown when capture time is absent. The month is
// not zero-padded.
func (o *Organizer) destinationDir(rec *MediaRecord) string {
	if rec.CapturedAt == nil {
		return filepath.Join(o.root, "unknown", "unknown")
	}
	return filepath.Join(o.root,
		strconv.Itoa(rec.CapturedAt.Year()),
		strconv.Itoa(int(rec.CapturedAt.Month())))
}

// destinationName builds the collision-free repository filename
// <perceptual_hash>_<rank> with the uppercased original extension.
func destinationName(rec *MediaRecord, rank int) string {
	ext := strings.TrimPrefix(filepath.Ext(rec.OriginalPath), ".")
	return fmt.Sprintf("%s_%d.%s", rec.PerceptualHash, rank, strings.ToUpper(ext))
}

// ProcessFile runs one candidate file through the pipeline:
// extract -> hash -> insert -> copy -> record. Duplicates halt with no side
// effects; the insert-before-copy ordering means an interruption leaves a
// record with an empty new path, which the consistency checker recovers.
func (o *Organizer) ProcessFile(ctx context.Context, path string) FileResult {
	rec, err := BuildRecord(ctx, path, o.cfg, o.reader, o.geocoder, o.hasher)
	if err != nil {
		o.log.Error("failed to analyze file", "path", path, "error", err)
		return FileResult{Path: path, Status: StatusFailed, Err: Categorize(path, err)}
	}

	rank, err := o.store.Insert(rec)
	if errors.Is(err, ErrDuplicate) {
		o.log.Debug("duplicate content ignored", "path", path, "crypto_hash", rec.CryptoHash)
		return FileResult{Path: path, Status: StatusIgnored}
	}
	if err != nil {
		o.log.Error("failed to insert record", "path", path, "error", err)
		return FileResult{Path: path, Status: StatusFailed, Err: Categorize(path, err)}
	}

	destDir := o.destinationDir(rec)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		o.log.Error("failed to create destination folder", "path", destDir, "error", err)
		return FileResult{Path: path, Status: StatusFailed, Err: Categorize(path, err)}
	}

	destPath := filepath.Join(destDir, destinationName(rec, rank))

	if _, err := os.Stat(destPath); err == nil {
		// Same hash+rank already on disk: an earlier run diverged.
		o.log.Error("destination collision", "path", path, "dest", destPath)
		return FileResult{
			Path:   path,
			Status: StatusFailed,
			Err:    Categorize(path, fmt.Errorf("%w: %s", ErrDestinationExists, destPath)),
		}
	}

	if err := copyFileAtomic(rec.OriginalPath, destPath); err != nil {
		// The record stays with an empty new path; the checker reports it
		// under exist_db_not_copied.
		o.log.Error("failed to copy file", "path", path, "dest", destPath, "error", err)
		return FileResult{Path: path, Status: StatusFailed, Err: Categorize(path, err)}
	}

	if err := o.store.UpdateNewPath(rec.CryptoHash, destPath); err != nil {
		o.log.Error("failed to record new path", "path", path, "dest", destPath, "error", err)
		return FileResult{Path: path, Status: StatusFailed, Err: Categorize(path, err)}
	}

	o.log.Info("file added", "path", path, "dest", destPath)
	return FileResult{Path: path, Status: StatusAdded, DestPath: destPath}
}

// AddFolders ingests every eligible file under the given source folders.
// Nonexistent folders are collected, per-file failures never abort the
// batch, and failures are aggregated for a single end-of-batch report.
func (o *Organizer) AddFolders(ctx context.Context, folders []string) (*BatchResult, error) {
	batch := &BatchResult{Stats: NewErrorStats()}
	exts := o.cfg.Extensions()

	for _, folder := range folders {
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			batch.IgnoredFolders = append(batch.IgnoredFolders, folder)
			continue
		}

		files, err := ScanMediaFiles(folder, exts)
		if err != nil {
			return nil, err
		}

		for _, f := range files {
			result := o.ProcessFile(ctx, f)
			switch result.Status {
			case StatusAdded:
				batch.Added = append(batch.Added, result)
			case StatusIgnored:
				batch.Ignored = append(batch.Ignored, result)
			case StatusFailed:
				batch.Failed = append(batch.Failed, result)
				batch.Stats.Add(result.Err)
			}
		}
	}

	o.log.Info("batch finished",
		"added", len(batch.Added),
		"ignored", len(batch.Ignored),
		"failed", len(batch.Failed),
		"ignored_folders", len(batch.IgnoredFolders))

	return batch, nil
}

// Info summarizes the catalog against the filesystem.
func (o *Organizer) Info() (*RepositoryInfo, error) {
	records, err := o.store.GetAll()
	if err != nil {
		return nil, err
	}

	info := &RepositoryInfo{TotalRecords: len(records)}
	for i := range records {
		info.TotalSize += records[i].SizeBytes
		if records[i].NewPath != "" {
			if _, err := os.Stat(records[i].NewPath); err == nil {
				info.FilesExist++
			}
		}
	}
	return info, nil
}

// copyFileAtomic copies a file atomically (copy temp -> rename)
func copyFileAtomic(src, dest string) error {
	tmp := dest + ".tmp"
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	out.Close()

	return os.Rename(tmp, dest)
}
