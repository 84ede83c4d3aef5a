package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthside/carekb/internal/log"
)

// ErrNotFound is returned when a document name matches nothing in the bucket.
var ErrNotFound = errors.New("document not found in bucket")

// DeleteReport summarizes one delete run.
type DeleteReport struct {
	Deleted []string
	Failed  []string
	JobID   string
}

// Deleter removes documents from the bucket and triggers re-indexing.
type Deleter struct {
	bucket *Bucket
	syncer *Syncer
	logger log.Logger
}

// NewDeleter creates a deleter.
func NewDeleter(bucket *Bucket, syncer *Syncer, logger log.Logger) *Deleter {
	return &Deleter{bucket: bucket, syncer: syncer, logger: logger}
}

// FindKey resolves a bare document name to its full bucket key, searching
// every folder. Names without a .pdf suffix get one appended. A name that
// already contains a slash is treated as a full key and looked up directly.
func (d *Deleter) FindKey(ctx context.Context, name string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}

	keys, err := d.bucket.ListKeys(ctx, "")
	if err != nil {
		return "", err
	}
	for _, key := range keys {
		if key == name || strings.HasSuffix(key, "/"+name) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// DeleteDocuments resolves each name, deletes it, removes a parent folder
// placeholder once the folder is empty, then triggers a knowledge-base sync.
func (d *Deleter) DeleteDocuments(ctx context.Context, names []string) (DeleteReport, error) {
	var report DeleteReport

	if len(names) == 0 {
		return report, errors.New("no documents to delete")
	}

	for _, name := range names {
		key, err := d.FindKey(ctx, name)
		if err != nil {
			return report, err
		}
		if err := d.bucket.Delete(ctx, key); err != nil {
			d.logger.Error("delete failed", "key", key, "error", err)
			report.Failed = append(report.Failed, key)
			continue
		}
		d.logger.Info("deleted", "key", key)
		report.Deleted = append(report.Deleted, key)

		if err := d.cleanupFolder(ctx, key); err != nil {
			d.logger.Warn("folder cleanup failed", "key", key, "error", err)
		}
	}

	if len(report.Deleted) == 0 {
		return report, errors.New("all deletes failed")
	}

	description := fmt.Sprintf("Sync after deleting %d of %d documents", len(report.Deleted), len(names))
	jobID, err := d.syncer.Sync(ctx, description)
	if err != nil {
		return report, err
	}
	report.JobID = jobID
	return report, nil
}

// cleanupFolder deletes the parent folder placeholder when the deleted key
// was the folder's last real object.
func (d *Deleter) cleanupFolder(ctx context.Context, key string) error {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return nil
	}
	parent := key[:i]

	remaining, err := d.bucket.ListKeys(ctx, parent+"/")
	if err != nil {
		return err
	}
	for _, k := range remaining {
		if k != parent+"/" {
			return nil
		}
	}

	d.logger.Info("folder empty, removing placeholder", "folder", parent)
	return d.bucket.Delete(ctx, parent+"/")
}
