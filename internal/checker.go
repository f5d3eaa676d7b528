package internal

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConsistencyReport classifies every discrepancy between the catalog and
// the physical repository tree. A fully consistent repository yields four
// empty sets.
type ConsistencyReport struct {
	DBNotCopied       []string // records with no repository copy yet
	DBNotRepo         []string // recorded copies missing from disk
	RepoNotDB         []string // physical files matched by no record
	RepoIncorrectName []string // copies whose name does not match their content
}

func (r *ConsistencyReport) Clean() bool {
	return len(r.DBNotCopied) == 0 &&
		len(r.DBNotRepo) == 0 &&
		len(r.RepoNotDB) == 0 &&
		len(r.RepoIncorrectName) == 0
}

// CheckConsistency cross-references catalog records against the repository
// tree. Every eligible physical file starts as an orphan candidate and is
// accounted for when a record points at it with a matching perceptual-hash
// filename stem.
func (o *Organizer) CheckConsistency() (*ConsistencyReport, error) {
	files, err := ScanMediaFiles(o.root, o.cfg.Extensions())
	if err != nil {
		return nil, err
	}

	orphans := make(map[string]bool, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			orphans[abs] = true
		}
	}

	records, err := o.store.GetAll()
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{}

	for i := range records {
		rec := &records[i]

		if rec.NewPath == "" {
			report.DBNotCopied = append(report.DBNotCopied, rec.OriginalPath)
			continue
		}

		newPath, err := filepath.Abs(rec.NewPath)
		if err != nil {
			newPath = rec.NewPath
		}

		if _, err := os.Stat(newPath); err != nil {
			report.DBNotRepo = append(report.DBNotRepo, rec.NewPath)
			continue
		}

		// The record accounts for the file either way; a stem mismatch is
		// reported as a renaming problem, not as an orphan.
		delete(orphans, newPath)
		if !o.nameMatchesContent(newPath) {
			report.RepoIncorrectName = append(report.RepoIncorrectName, rec.NewPath)
		}
	}

	for path := range orphans {
		report.RepoNotDB = append(report.RepoNotDB, path)
	}
	sort.Strings(report.RepoNotDB)

	return report, nil
}

// nameMatchesContent recomputes a repository file's perceptual hash and
// compares it against the hash encoded in its filename stem. An unreadable
// file never matches.
func (o *Organizer) nameMatchesContent(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	encoded := strings.SplitN(stem, "_", 2)[0]

	actual, err := o.hasher.Perceptual(path)
	if err != nil {
		o.log.Error("failed to hash repository file", "path", path, "error", err)
		return false
	}
	return actual == encoded
}
