package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthside/carekb/internal/log"
)

// ErrAllDuplicates is returned when every candidate file already exists in
// the bucket.
var ErrAllDuplicates = errors.New("every file already exists in the bucket")

// UploadReport summarizes one upload run.
type UploadReport struct {
	Uploaded []string
	Skipped  []Duplicate
	Failed   []string
	JobID    string
}

// Uploader pushes local PDFs into the bucket and triggers re-indexing.
type Uploader struct {
	bucket *Bucket
	syncer *Syncer
	logger log.Logger
}

// NewUploader creates an uploader.
func NewUploader(bucket *Bucket, syncer *Syncer, logger log.Logger) *Uploader {
	return &Uploader{bucket: bucket, syncer: syncer, logger: logger}
}

// UploadFiles validates and uploads the given local PDFs into folder,
// skipping files whose basenames already exist anywhere in the bucket,
// then triggers a knowledge-base sync. An error is returned only when the
// run cannot proceed at all; per-file failures land in the report.
func (u *Uploader) UploadFiles(ctx context.Context, paths []string, folder string) (UploadReport, error) {
	var report UploadReport

	if len(paths) == 0 {
		return report, errors.New("no files to upload")
	}
	for _, p := range paths {
		if err := ValidatePDFPath(p); err != nil {
			return report, err
		}
	}

	existing, err := u.bucket.ListKeys(ctx, "")
	if err != nil {
		return report, err
	}
	report.Skipped = FindDuplicates(existing, paths)
	if len(report.Skipped) == len(paths) {
		return report, ErrAllDuplicates
	}

	skip := make(map[string]bool, len(report.Skipped))
	for _, d := range report.Skipped {
		u.logger.Warn("skipping duplicate", "file", d.LocalPath, "existing_key", d.Key)
		skip[d.LocalPath] = true
	}

	if folder != "" {
		exists, err := u.bucket.FolderExists(ctx, folder)
		if err != nil {
			return report, err
		}
		if !exists {
			if err := u.bucket.CreateFolder(ctx, folder); err != nil {
				return report, err
			}
			u.logger.Info("created folder", "folder", folder)
		}
	}

	for _, p := range paths {
		if skip[p] {
			continue
		}
		key, err := u.bucket.Upload(ctx, p, folder)
		if err != nil {
			u.logger.Error("upload failed", "file", p, "error", err)
			report.Failed = append(report.Failed, p)
			continue
		}
		u.logger.Info("uploaded", "file", p, "key", key)
		report.Uploaded = append(report.Uploaded, key)
	}

	if len(report.Uploaded) == 0 {
		return report, errors.New("all uploads failed")
	}

	description := fmt.Sprintf("Sync after uploading %d of %d files", len(report.Uploaded), len(paths))
	jobID, err := u.syncer.Sync(ctx, description)
	if err != nil {
		return report, err
	}
	report.JobID = jobID
	return report, nil
}

// UploadFolder uploads every PDF found in a local directory.
func (u *Uploader) UploadFolder(ctx context.Context, dir string, recursive bool, folder string) (UploadReport, error) {
	paths, err := DiscoverPDFs(dir, recursive)
	if err != nil {
		return UploadReport{}, err
	}
	if len(paths) == 0 {
		return UploadReport{}, fmt.Errorf("no PDF files found in %s", dir)
	}
	return u.UploadFiles(ctx, paths, folder)
}
