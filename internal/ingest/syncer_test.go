package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"

	"github.com/hearthside/carekb/internal/log"
)

type fakeBedrockAgent struct {
	calls           int
	lastDescription string
	err             error
}

func (f *fakeBedrockAgent) StartIngestionJob(_ context.Context, params *bedrockagent.StartIngestionJobInput, _ ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error) {
	f.calls++
	f.lastDescription = aws.ToString(params.Description)
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockagent.StartIngestionJobOutput{
		IngestionJob: &types.IngestionJob{IngestionJobId: aws.String("job-42")},
	}, nil
}

func TestSyncer_Sync(t *testing.T) {
	client := &fakeBedrockAgent{}
	s := NewSyncer(client, "kb-1", "ds-1", true, log.NewNop())

	jobID, err := s.Sync(context.Background(), "Sync after test")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if jobID != "job-42" {
		t.Errorf("jobID = %q, want %q", jobID, "job-42")
	}
	if client.lastDescription != "Sync after test" {
		t.Errorf("description = %q", client.lastDescription)
	}
}

func TestSyncer_DryRun(t *testing.T) {
	client := &fakeBedrockAgent{}
	s := NewSyncer(client, "kb-1", "ds-1", false, log.NewNop())

	jobID, err := s.Sync(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if jobID != "" {
		t.Errorf("jobID = %q, want empty in dry run", jobID)
	}
	if client.calls != 0 {
		t.Errorf("StartIngestionJob called %d times in dry run, want 0", client.calls)
	}
}

func TestSyncer_Error(t *testing.T) {
	client := &fakeBedrockAgent{err: errors.New("throttled")}
	s := NewSyncer(client, "kb-1", "ds-1", true, log.NewNop())

	if _, err := s.Sync(context.Background(), "x"); err == nil {
		t.Error("Sync() error = nil, want error")
	}
}
