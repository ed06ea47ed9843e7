package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
	"github.com/studydesk/studydesk-cli/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// RetrieverOptions holds the empirically chosen retrieval parameters.
// The zero value is replaced by defaults in NewRetriever.
type RetrieverOptions struct {
	// KeywordLimit caps keyword-search hits.
	KeywordLimit int

	// SemanticLimit caps similarity-search hits.
	SemanticLimit int

	// OverlapThreshold is the Jaccard similarity above which a chunk is
	// dropped as a near-duplicate of an earlier one.
	OverlapThreshold float64

	// FallbackDocs is how many documents feed the last-resort fallback
	// when neither search strategy returns anything.
	FallbackDocs int

	// PerChunkCap limits how much of one chunk may enter the context.
	PerChunkCap int
}

// DefaultRetrieverOptions returns the standard retrieval parameters.
func DefaultRetrieverOptions() RetrieverOptions {
	return RetrieverOptions{
		KeywordLimit:     10,
		SemanticLimit:    10,
		OverlapThreshold: DefaultOverlapThreshold,
		FallbackDocs:     3,
		PerChunkCap:      perChunkCap,
	}
}

// Retriever implements hybrid retrieval: exact keyword search merged
// with embedding-similarity search, deduplicated and packed into a
// bounded context.
type Retriever struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
	opts     RetrieverOptions
}

// NewRetriever creates a retrieval service. The embedder may be nil, in
// which case retrieval is keyword-only.
func NewRetriever(store driven.DocumentStore, embedder driven.EmbeddingService, opts RetrieverOptions) *Retriever {
	def := DefaultRetrieverOptions()
	if opts.KeywordLimit <= 0 {
		opts.KeywordLimit = def.KeywordLimit
	}
	if opts.SemanticLimit <= 0 {
		opts.SemanticLimit = def.SemanticLimit
	}
	if opts.OverlapThreshold <= 0 || opts.OverlapThreshold > 1 {
		opts.OverlapThreshold = def.OverlapThreshold
	}
	if opts.FallbackDocs <= 0 {
		opts.FallbackDocs = def.FallbackDocs
	}
	if opts.PerChunkCap <= 0 {
		opts.PerChunkCap = def.PerChunkCap
	}

	return &Retriever{
		store:    store,
		embedder: embedder,
		opts:     opts,
	}
}

// Retrieve returns the ranked, deduplicated chunks for a query.
//
// Keyword hits come first in the merge: exact matches are higher
// precision for specific lookups such as "exercise 0.3". Embedding hits
// follow, skipping ids already present. If both strategies come up
// empty the search falls back to whole documents, then to the first few
// documents in the bucket.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	enhanced := EnhanceQuery(query)
	logger.Debug("Enhanced query: %q -> %q", query, enhanced)

	keyword, err := r.keywordSearch(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	logger.Debug("Keyword search: %d hits", len(keyword))

	semantic, err := r.semanticSearch(ctx, enhanced)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	logger.Debug("Semantic search: %d hits", len(semantic))

	merged := mergeByID(keyword, semantic)

	if len(merged) == 0 {
		merged, err = r.documentFallback(ctx, enhanced)
		if err != nil {
			return nil, fmt.Errorf("document fallback: %w", err)
		}
		logger.Debug("Document fallback: %d entries", len(merged))
	}

	deduped := DeduplicateChunks(merged, r.opts.OverlapThreshold)
	logger.Debug("Content dedup: %d -> %d chunks", len(merged), len(deduped))

	return deduped, nil
}

// BuildContext retrieves chunks for the query and packs them into
// labeled context blocks within maxContextChars.
func (r *Retriever) BuildContext(ctx context.Context, query string, maxContextChars int) ([]domain.ContextBlock, error) {
	if maxContextChars <= 0 {
		maxContextChars = ChatContextChars
	}

	chunks, err := r.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	blocks := make([]domain.ContextBlock, 0, len(chunks))
	total := 0

	for _, c := range chunks {
		remaining := maxContextChars - total
		if remaining <= 0 {
			break
		}

		name, ok := names[c.DocumentID]
		if !ok {
			name = r.documentName(ctx, c.DocumentID)
			names[c.DocumentID] = name
		}

		block := domain.ContextBlock{DocumentName: name, Position: c.Position}
		overhead := len(renderLabel(block)) + len(blockSeparator)
		if remaining <= overhead {
			break
		}

		limit := r.opts.PerChunkCap
		if remaining-overhead < limit {
			limit = remaining - overhead
		}

		content := TruncateContent(c.Content, limit)
		if content == "" {
			continue
		}
		block.Content = content

		blocks = append(blocks, block)
		total += overhead + len(content)
	}

	return blocks, nil
}

const blockSeparator = "\n\n"

// renderLabel formats the source label for one context block.
func renderLabel(b domain.ContextBlock) string {
	if b.Position < 0 {
		return fmt.Sprintf("--- Document: %s ---\n", b.DocumentName)
	}
	return fmt.Sprintf("--- Document: %s (chunk %d) ---\n", b.DocumentName, b.Position)
}

// RenderContext concatenates context blocks into the single string
// handed to the chat collaborator.
func RenderContext(blocks []domain.ContextBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(renderLabel(b))
		sb.WriteString(b.Content)
		sb.WriteString(blockSeparator)
	}
	return sb.String()
}

// keywordSearch runs ranked full-text search over chunk content.
func (r *Retriever) keywordSearch(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	hits, err := r.store.SearchChunks(ctx, query, r.opts.KeywordLimit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedChunk, len(hits))
	for i, c := range hits {
		results[i] = domain.RetrievedChunk{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Position:   c.Position,
			Content:    c.Content,
			Score:      float64(len(hits) - i),
			Origin:     domain.OriginKeyword,
		}
	}
	return results, nil
}

// semanticSearch embeds the query and ranks all embedded chunks by
// cosine similarity. Embedding failure degrades silently to no semantic
// hits; it is never surfaced to the caller.
func (r *Retriever) semanticSearch(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	if r.embedder == nil {
		return nil, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed, degrading to keyword-only: %v", err)
		return nil, nil
	}

	chunks, err := r.store.ChunksWithEmbeddings(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptEmbedding) {
			logger.Warn("Corrupt embedding data, degrading to keyword-only: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	byID := make(map[string]domain.Chunk, len(chunks))
	candidates := make([]Candidate, len(chunks))
	for i, c := range chunks {
		byID[c.ID] = c
		candidates[i] = Candidate{ID: c.ID, Embedding: c.Embedding}
	}

	top := TopK(queryVec, candidates, r.opts.SemanticLimit)

	results := make([]domain.RetrievedChunk, 0, len(top))
	for _, s := range top {
		c := byID[s.ID]
		results = append(results, domain.RetrievedChunk{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Position:   c.Position,
			Content:    c.Content,
			Score:      s.Score,
			Origin:     domain.OriginSemantic,
		})
	}
	return results, nil
}

// mergeByID concatenates keyword hits then semantic hits, skipping any
// chunk id already present.
func mergeByID(keyword, semantic []domain.RetrievedChunk) []domain.RetrievedChunk {
	seen := make(map[string]bool, len(keyword)+len(semantic))
	merged := make([]domain.RetrievedChunk, 0, len(keyword)+len(semantic))

	for _, c := range keyword {
		if seen[c.ChunkID] {
			continue
		}
		seen[c.ChunkID] = true
		merged = append(merged, c)
	}
	for _, c := range semantic {
		if seen[c.ChunkID] {
			continue
		}
		seen[c.ChunkID] = true
		merged = append(merged, c)
	}

	return merged
}

// documentFallback searches whole documents, and failing that returns
// the first few documents in the bucket. Fallback entries carry
// Position -1 and no chunk id.
func (r *Retriever) documentFallback(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	docs, err := r.store.SearchDocuments(ctx, query, r.opts.FallbackDocs)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		docs, err = r.store.ListDocuments(ctx)
		if err != nil {
			return nil, err
		}
		if len(docs) > r.opts.FallbackDocs {
			docs = docs[:r.opts.FallbackDocs]
		}
	}

	results := make([]domain.RetrievedChunk, len(docs))
	for i, d := range docs {
		results[i] = domain.RetrievedChunk{
			DocumentID: d.ID,
			Position:   -1,
			Content:    d.Content,
			Origin:     domain.OriginDocument,
		}
	}
	return results, nil
}

// documentName resolves a document's display name, falling back to
// "Unknown" when the document has since been deleted.
func (r *Retriever) documentName(ctx context.Context, documentID string) string {
	doc, err := r.store.GetDocument(ctx, documentID)
	if err != nil {
		return "Unknown"
	}
	return doc.Filename
}
