// Package retrieval is the single choke point for the Bedrock knowledge
// base. Every retrieve-and-generate call the service makes goes through
// Gateway.Answer, which normalizes the provider's result and error shapes
// into a Result with a fixed Backend taxonomy.
package retrieval

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	smithydocument "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"

	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/observability"
)

// RetrieveAndGenerateAPI is the subset of the Bedrock agent runtime client
// the gateway uses. The concrete *bedrockagentruntime.Client satisfies it;
// tests substitute a fake.
type RetrieveAndGenerateAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// Gateway calls the knowledge retrieval-and-generation capability.
// It is stateless and safe for concurrent use.
type Gateway struct {
	client          RetrieveAndGenerateAPI
	knowledgeBaseID string
	modelARN        string
	logger          log.Logger
	metrics         *observability.Metrics
}

// NewGateway creates a gateway. client may be nil when the knowledge base
// is unconfigured; Answer then reports missing-config without calling AWS.
// metrics may be nil.
func NewGateway(client RetrieveAndGenerateAPI, knowledgeBaseID, modelARN string, logger log.Logger, metrics *observability.Metrics) *Gateway {
	return &Gateway{
		client:          client,
		knowledgeBaseID: knowledgeBaseID,
		modelARN:        modelARN,
		logger:          logger,
		metrics:         metrics,
	}
}

// Answer runs one retrieve-and-generate call for the trimmed question.
// It never returns a Go error: every outcome is a classified Result.
func (g *Gateway) Answer(ctx context.Context, question string) Result {
	question = strings.TrimSpace(question)

	if question == "" {
		return g.observe(Result{
			Sources: []Source{},
			Backend: BackendError,
			Error:   "Empty question. Please type something.",
		})
	}

	if g.client == nil || g.knowledgeBaseID == "" {
		return g.observe(Result{
			Sources: []Source{},
			Backend: BackendMissingConfig,
			Error:   "Bedrock client is not configured. Check AWS_REGION and BEDROCK_KB_ID.",
		})
	}

	if g.modelARN == "" {
		return g.observe(Result{
			Sources: []Source{},
			Backend: BackendError,
			Error:   "BEDROCK_MODEL_ARN is not set. Set it to the model ARN for this knowledge base.",
		})
	}

	start := time.Now()
	out, err := g.client.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{Text: aws.String(question)},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(g.knowledgeBaseID),
				ModelArn:        aws.String(g.modelARN),
			},
		},
	})
	if g.metrics != nil {
		g.metrics.GatewayLatency.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		g.logger.Error("retrieve-and-generate failed", "error", err)
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return g.observe(Result{
				Sources: []Source{},
				Backend: BackendError,
				Error:   "Bedrock ClientError: " + err.Error(),
			})
		}
		return g.observe(Result{
			Sources: []Source{},
			Backend: BackendError,
			Error:   "Unexpected error: " + err.Error(),
		})
	}

	var answer string
	if out.Output != nil {
		answer = strings.TrimSpace(aws.ToString(out.Output.Text))
	}
	sources := collectSources(out.Citations)

	// Citations can exist even when generation produced nothing usable,
	// so they are preserved on the empty path.
	if answer == "" {
		return g.observe(Result{
			Sources: sources,
			Backend: BackendEmpty,
			Error:   "Bedrock returned an empty answer.",
		})
	}

	return g.observe(Result{
		Answer:  answer,
		Sources: sources,
		Backend: BackendOK,
	})
}

// observe records the backend status of a finished call.
func (g *Gateway) observe(r Result) Result {
	if g.metrics != nil {
		g.metrics.GatewayCalls.WithLabelValues(string(r.Backend)).Inc()
	}
	return r
}

// collectSources flattens citation groups into the ordered source list.
func collectSources(citations []types.Citation) []Source {
	sources := []Source{}
	for _, citation := range citations {
		for _, ref := range citation.RetrievedReferences {
			sources = append(sources, Source{
				Location: convertLocation(ref.Location),
				Metadata: convertMetadata(ref.Metadata),
			})
		}
	}
	return sources
}

// convertLocation extracts a flat location from the provider's union type.
func convertLocation(loc *types.RetrievalResultLocation) SourceLocation {
	if loc == nil {
		return SourceLocation{}
	}
	out := SourceLocation{Type: string(loc.Type)}
	if loc.S3Location != nil {
		out.URI = aws.ToString(loc.S3Location.Uri)
	} else if loc.WebLocation != nil {
		out.URI = aws.ToString(loc.WebLocation.Url)
	}
	return out
}

// convertMetadata decodes the provider's opaque document values into plain
// Go values. Entries that fail to decode are dropped rather than failing
// the whole call; metadata is advisory.
func convertMetadata(meta map[string]smithydocument.Interface) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if v == nil {
			continue
		}
		var decoded any
		if err := v.UnmarshalSmithyDocument(&decoded); err != nil {
			continue
		}
		out[k] = decoded
	}
	return out
}
