// Package citation turns opaque retrieval metadata into a small ordered
// list of human-readable citation lines.
//
// The organization guess is a closed set of filename-substring rules. It
// must never name an individual or authority that the filename does not
// literally state: these lines are shown to end users as provenance.
package citation

import (
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/hearthside/carekb/internal/retrieval"
)

// DefaultMaxItems is the citation list cap after deduplication.
const DefaultMaxItems = 6

// Bedrock knowledge-base metadata keys, with generic fallbacks below.
const (
	metaSourceURI  = "x-amz-bedrock-kb-source-uri"
	metaPageNumber = "x-amz-bedrock-kb-document-page-number"
	metaChunkID    = "x-amz-bedrock-kb-chunk-id"
)

// Entry is one rendered citation. Derived, never stored.
type Entry struct {
	Document     string
	PageLabel    string
	Organization string
	Validity     string
}

type dedupKey struct {
	uri     string
	rawPage string
	chunkID string
}

// organizationRule maps a filename substring to a provenance label.
// Rules are evaluated top to bottom; first match wins.
type organizationRule struct {
	substring    string
	organization string
	validity     string
}

var organizationRules = []organizationRule{
	{
		substring:    "alzheimer",
		organization: "Alzheimer's Association caregiver material",
		validity:     "published caregiver guidance; confirm against the current edition",
	},
	{
		substring:    "caregiver",
		organization: "general caregiver resource",
		validity:     "caregiver-support document from the indexed collection",
	},
	{
		substring:    "care-partner",
		organization: "general caregiver resource",
		validity:     "caregiver-support document from the indexed collection",
	},
}

var defaultRule = organizationRule{
	organization: "knowledge base document",
	validity:     "retrieved from the indexed knowledge base",
}

// Normalize deduplicates sources by (uri, raw page, chunk id) and renders
// at most maxItems entries, preserving first-occurrence order.
func Normalize(sources []retrieval.Source, maxItems int) []Entry {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	seen := make(map[dedupKey]bool, len(sources))
	var entries []Entry
	for _, src := range sources {
		uri := src.Location.URI
		if uri == "" {
			uri = metaString(src.Metadata, metaSourceURI)
		}
		rawPage := rawValue(firstMeta(src.Metadata, metaPageNumber, "page_number", "page"))
		chunkID := metaString(src.Metadata, metaChunkID)

		k := dedupKey{uri: uri, rawPage: rawPage, chunkID: chunkID}
		if seen[k] {
			continue
		}
		seen[k] = true

		if len(entries) == maxItems {
			continue
		}

		name := documentName(uri, src.Metadata)
		rule := inferOrganization(name)
		entries = append(entries, Entry{
			Document:     name,
			PageLabel:    pageLabel(rawPage),
			Organization: rule.organization,
			Validity:     rule.validity,
		})
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

// RenderBlock renders entries as the numbered plain-text block embedded in
// the humanization prompt.
func RenderBlock(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s (%s) — %s. Validity: %s",
			i+1, e.Document, e.PageLabel, e.Organization, e.Validity)
	}
	return strings.Join(lines, "\n")
}

// Line renders one entry without its list index, for "Source:" markers.
func (e Entry) Line() string {
	return fmt.Sprintf("%s (%s) — %s. Validity: %s",
		e.Document, e.PageLabel, e.Organization, e.Validity)
}

// documentName resolves a display name: URI basename, then title, source
// and filename metadata, then a literal "document".
func documentName(uri string, meta map[string]any) string {
	if uri != "" {
		if base := path.Base(strings.TrimRight(uri, "/")); base != "" && base != "." && base != "/" {
			return base
		}
	}
	for _, k := range []string{"title", "source", "filename"} {
		if v := metaString(meta, k); v != "" {
			return v
		}
	}
	return "document"
}

// inferOrganization applies the substring rules to the lower-cased name.
func inferOrganization(documentName string) organizationRule {
	lower := strings.ToLower(documentName)
	for _, rule := range organizationRules {
		if strings.Contains(lower, rule.substring) {
			return rule
		}
	}
	return defaultRule
}

// pageLabel renders "p.<N>" for a numeric page, "p.?" otherwise.
func pageLabel(rawPage string) string {
	if f, err := strconv.ParseFloat(rawPage, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return "p." + strconv.Itoa(int(f))
	}
	return "p.?"
}

func firstMeta(meta map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := meta[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	return rawValue(v)
}

// rawValue flattens a metadata value to its raw string form. Retrieval
// metadata arrives as arbitrary decoded JSON, so numbers may be float64,
// json.Number, or already strings.
func rawValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
