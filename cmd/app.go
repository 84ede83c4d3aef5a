package cmd

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hearthside/carekb/internal/awsclient"
	"github.com/hearthside/carekb/internal/chatbot"
	"github.com/hearthside/carekb/internal/config"
	"github.com/hearthside/carekb/internal/conversation"
	"github.com/hearthside/carekb/internal/humanize"
	"github.com/hearthside/carekb/internal/ingest"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/observability"
	"github.com/hearthside/carekb/internal/retrieval"
)

// newChatService wires the conversational pipeline. A failed AWS credential
// load degrades to a nil runtime client; the gateway then classifies every
// question as missing-config instead of the process refusing to start.
func newChatService(ctx context.Context, cfg *config.Config, logger log.Logger, metrics *observability.Metrics) *chatbot.Service {
	var client retrieval.RetrieveAndGenerateAPI
	awsCfg, err := awsclient.Load(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		logger.Warn("AWS configuration unavailable, answering in degraded mode", "error", err)
	} else {
		client = bedrockagentruntime.NewFromConfig(awsCfg)
	}

	gateway := retrieval.NewGateway(client, cfg.KnowledgeBaseID, cfg.ModelARN, logger, metrics)
	formatter := humanize.New(gateway, logger)
	store := conversation.NewStore(cfg.HistoryCapacity, cfg.ConversationTTL)
	return chatbot.New(gateway, store, formatter, logger, metrics, cfg.MaxContextChars)
}

// newIngestPipeline wires the document pipeline against S3 and Bedrock Agent.
func newIngestPipeline(ctx context.Context, cfg *config.Config, logger log.Logger) (*ingest.Uploader, *ingest.Deleter, *ingest.Bucket, *ingest.Syncer, error) {
	awsCfg, err := awsclient.Load(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	bucket := ingest.NewBucket(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.UploadEnabled, cfg.DeleteEnabled, logger)
	syncer := ingest.NewSyncer(bedrockagent.NewFromConfig(awsCfg), cfg.KnowledgeBaseID, cfg.DataSourceID, cfg.SyncEnabled, logger)
	uploader := ingest.NewUploader(bucket, syncer, logger)
	deleter := ingest.NewDeleter(bucket, syncer, logger)
	return uploader, deleter, bucket, syncer, nil
}
