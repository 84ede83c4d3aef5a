package ingest

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"

	"github.com/hearthside/carekb/internal/log"
)

// BedrockAgentAPI is the subset of the Bedrock Agent client the syncer uses.
type BedrockAgentAPI interface {
	StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput, optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error)
}

// Syncer triggers knowledge-base re-indexing after document changes.
// enabled gates the real call; a dry run logs and reports success.
type Syncer struct {
	client          BedrockAgentAPI
	knowledgeBaseID string
	dataSourceID    string
	enabled         bool
	logger          log.Logger
}

// NewSyncer creates a syncer.
func NewSyncer(client BedrockAgentAPI, knowledgeBaseID, dataSourceID string, enabled bool, logger log.Logger) *Syncer {
	return &Syncer{
		client:          client,
		knowledgeBaseID: knowledgeBaseID,
		dataSourceID:    dataSourceID,
		enabled:         enabled,
		logger:          logger,
	}
}

// Sync starts an ingestion job with a human-readable description and
// returns the job ID. Dry runs return an empty ID.
//
// TODO: check for an already-running job before starting a new one.
func (s *Syncer) Sync(ctx context.Context, description string) (string, error) {
	if !s.enabled {
		s.logger.Info("sync disabled, dry run", "description", description)
		return "", nil
	}

	out, err := s.client.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.knowledgeBaseID),
		DataSourceId:    aws.String(s.dataSourceID),
		Description:     aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("start ingestion job: %w", err)
	}

	jobID := ""
	if out.IngestionJob != nil {
		jobID = aws.ToString(out.IngestionJob.IngestionJobId)
	}
	s.logger.Info("ingestion job started", "job_id", jobID, "description", description)
	return jobID, nil
}
