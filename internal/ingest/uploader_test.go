package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hearthside/carekb/internal/log"
)

func newTestUploader(s3 *fakeS3, agent *fakeBedrockAgent) *Uploader {
	logger := log.NewNop()
	bucket := NewBucket(s3, "care-docs", true, true, logger)
	syncer := NewSyncer(agent, "kb-1", "ds-1", true, logger)
	return NewUploader(bucket, syncer, logger)
}

func TestUploader_UploadFiles(t *testing.T) {
	s3 := &fakeS3{}
	agent := &fakeBedrockAgent{}
	u := newTestUploader(s3, agent)

	paths := []string{writeTempPDF(t, "guide.pdf"), writeTempPDF(t, "stages.pdf")}
	report, err := u.UploadFiles(context.Background(), paths, "docs")
	if err != nil {
		t.Fatalf("UploadFiles() error = %v", err)
	}

	if len(report.Uploaded) != 2 {
		t.Errorf("uploaded %d files, want 2: %v", len(report.Uploaded), report.Uploaded)
	}
	if report.JobID != "job-42" {
		t.Errorf("job id = %q, want job-42", report.JobID)
	}
	if agent.calls != 1 {
		t.Errorf("sync triggered %d times, want 1", agent.calls)
	}
	if !strings.Contains(agent.lastDescription, "2 of 2") {
		t.Errorf("sync description = %q, want file counts", agent.lastDescription)
	}

	// The missing folder gets its placeholder before any file upload.
	if len(s3.puts) == 0 || s3.puts[0] != "docs/" {
		t.Errorf("puts = %v, want folder placeholder first", s3.puts)
	}
}

func TestUploader_SkipsDuplicates(t *testing.T) {
	s3 := &fakeS3{keys: []string{"docs/", "docs/guide.pdf"}}
	agent := &fakeBedrockAgent{}
	u := newTestUploader(s3, agent)

	paths := []string{writeTempPDF(t, "guide.pdf"), writeTempPDF(t, "fresh.pdf")}
	report, err := u.UploadFiles(context.Background(), paths, "docs")
	if err != nil {
		t.Fatalf("UploadFiles() error = %v", err)
	}

	if len(report.Skipped) != 1 || report.Skipped[0].Key != "docs/guide.pdf" {
		t.Errorf("skipped = %v, want the existing guide.pdf", report.Skipped)
	}
	if len(report.Uploaded) != 1 || report.Uploaded[0] != "docs/fresh.pdf" {
		t.Errorf("uploaded = %v, want only fresh.pdf", report.Uploaded)
	}
}

func TestUploader_AllDuplicates(t *testing.T) {
	s3 := &fakeS3{keys: []string{"docs/guide.pdf"}}
	agent := &fakeBedrockAgent{}
	u := newTestUploader(s3, agent)

	_, err := u.UploadFiles(context.Background(), []string{writeTempPDF(t, "guide.pdf")}, "docs")
	if !errors.Is(err, ErrAllDuplicates) {
		t.Errorf("error = %v, want ErrAllDuplicates", err)
	}
	if agent.calls != 0 {
		t.Errorf("sync triggered %d times after rejected upload, want 0", agent.calls)
	}
}

func TestUploader_RejectsInvalidPath(t *testing.T) {
	u := newTestUploader(&fakeS3{}, &fakeBedrockAgent{})

	if _, err := u.UploadFiles(context.Background(), []string{"/nonexistent/x.pdf"}, ""); err == nil {
		t.Error("UploadFiles() error = nil, want validation error")
	}
}

func TestUploader_UploadFolder(t *testing.T) {
	s3 := &fakeS3{}
	agent := &fakeBedrockAgent{}
	u := newTestUploader(s3, agent)

	dir := t.TempDir()
	if _, err := u.UploadFolder(context.Background(), dir, false, "docs"); err == nil {
		t.Error("UploadFolder(empty dir) error = nil, want no-PDFs error")
	}
}
