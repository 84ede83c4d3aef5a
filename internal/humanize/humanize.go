// Package humanize rewrites a draft knowledge-base answer into a numbered
// tip list with rotated citation lines and a closing encouragement, via a
// second generation pass, with a deterministic local fallback.
package humanize

import (
	"context"
	"fmt"
	"strings"

	"github.com/hearthside/carekb/internal/citation"
	"github.com/hearthside/carekb/internal/log"
	"github.com/hearthside/carekb/internal/retrieval"
)

// EncouragementLine closes every formatted answer that has no model-written
// encouragement of its own.
const EncouragementLine = "You're doing a great job caring for your loved one. " +
	"Be kind to yourself, and reach out for support when you need it."

// Answerer is the generation dependency for the second pass. The retrieval
// gateway satisfies it.
type Answerer interface {
	Answer(ctx context.Context, question string) retrieval.Result
}

// Formatter performs the human-readability pass.
type Formatter struct {
	gateway Answerer
	logger  log.Logger
}

// New creates a formatter.
func New(gateway Answerer, logger log.Logger) *Formatter {
	return &Formatter{gateway: gateway, logger: logger}
}

// Humanize rewrites draft into the tip-list presentation.
//
// Without citations there is nothing to ground a second generation pass,
// so the draft is returned as-is with the encouragement appended and no
// model call is spent. When the second pass fails, a deterministic
// rendering guarantees the user still receives a citation-bearing answer.
func (f *Formatter) Humanize(ctx context.Context, draft string, sources []retrieval.Source) string {
	if strings.TrimSpace(draft) == "" {
		return ""
	}

	entries := citation.Normalize(sources, citation.DefaultMaxItems)
	if len(entries) == 0 {
		return draft + "\n\n" + EncouragementLine
	}

	result := f.gateway.Answer(ctx, formatPrompt(draft, entries))
	text := result.Answer
	if result.Backend != retrieval.BackendOK || strings.TrimSpace(text) == "" {
		f.logger.Warn("humanization pass failed, using deterministic fallback",
			"backend", result.Backend, "error", result.Error)
		text = fallbackRendering(draft, entries)
	}

	return Repair(text)
}

// CitationForTip returns the citation for the i-th tip (0-based): citations
// rotate in list order and only repeat once all have been used.
func CitationForTip(entries []citation.Entry, i int) citation.Entry {
	return entries[i%len(entries)]
}

// formatPrompt builds the second-pass instruction. The rotation is spelled
// out tip by tip so the model has no citation-assignment freedom.
func formatPrompt(draft string, entries []citation.Entry) string {
	var b strings.Builder

	b.WriteString("Rewrite the draft answer below for a family caregiver.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Produce 4 to 6 numbered practical tips, one paragraph each.\n")
	b.WriteString("- Immediately after each tip, add exactly one line of the exact form \"Source: <citation line>\", copied verbatim from the allowed citation lines.\n")
	b.WriteString("- Use the citation assignment below; never repeat a citation before every allowed line has been used once.\n")
	b.WriteString("- Never mention a citation that is not in the allowed list.\n")
	b.WriteString("- Close with \"Encouragement:\" followed by 1-2 supportive sentences.\n")
	b.WriteString("\nAllowed citation lines:\n")
	b.WriteString(citation.RenderBlock(entries))
	b.WriteString("\n\nCitation assignment:\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "Tip %d -> Source: %s\n", i+1, CitationForTip(entries, i).Line())
	}
	b.WriteString("\nDraft answer:\n")
	b.WriteString(draft)
	return b.String()
}

// fallbackRendering is the formatting-fallback path: the raw draft, the
// readable citation block, and the fixed encouragement.
func fallbackRendering(draft string, entries []citation.Entry) string {
	return draft + "\n\nSources (readable):\n" + citation.RenderBlock(entries) + "\n\n" + EncouragementLine
}
