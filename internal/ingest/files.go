package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverPDFs returns the paths of all .pdf files inside dir, optionally
// descending into subdirectories. Matching is case-insensitive.
func DiscoverPDFs(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var paths []string
	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() && isPDF(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

// ValidatePDFPath checks that path exists, is a regular file, and carries a
// .pdf extension.
func ValidatePDFPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("path is not a file: %s", path)
	}
	if !isPDF(path) {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	return nil
}

func isPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// Duplicate pairs a local file with the bucket key sharing its basename.
type Duplicate struct {
	LocalPath string
	Key       string
}

// FindDuplicates compares local file basenames against every key in the
// bucket, regardless of folder. Two different folders can therefore not
// hold documents with the same filename; accepted limitation for a corpus
// where filenames identify documents.
func FindDuplicates(keys []string, localFiles []string) []Duplicate {
	var duplicates []Duplicate
	for _, f := range localFiles {
		base := filepath.Base(f)
		for _, key := range keys {
			if base == filepath.Base(key) {
				duplicates = append(duplicates, Duplicate{LocalPath: f, Key: key})
			}
		}
	}
	return duplicates
}
