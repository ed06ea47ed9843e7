package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studydesk/studydesk-cli/internal/chunker"
	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
	"github.com/studydesk/studydesk-cli/internal/logger"
)

// Ensure Ingester implements the interface.
var _ driving.IngestService = (*Ingester)(nil)

// Ingester turns raw sources into chunked, embedded, indexed documents.
type Ingester struct {
	store      driven.DocumentStore
	embedder   driven.EmbeddingService
	extractors []driven.Extractor
	splitter   *chunker.Splitter
	now        func() time.Time
}

// NewIngester creates an ingest service. The embedder may be nil;
// chunks are then stored without embeddings and participate in keyword
// search only.
func NewIngester(
	store driven.DocumentStore,
	embedder driven.EmbeddingService,
	extractors []driven.Extractor,
	splitter *chunker.Splitter,
) *Ingester {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &Ingester{
		store:      store,
		embedder:   embedder,
		extractors: extractors,
		splitter:   splitter,
		now:        time.Now,
	}
}

// Ingest extracts, chunks, embeds and stores one source. Re-ingesting a
// source that is already present is a detected no-op.
func (s *Ingester) Ingest(ctx context.Context, source string, tags string) (*driving.IngestResult, error) {
	extractor := s.extractorFor(source)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, source)
	}

	extraction, err := extractor.Extract(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", source, err)
	}

	return s.IngestText(ctx, extraction.SourcePath, extraction.Filename, extraction.Kind, extraction.Text, tags)
}

// IngestText stores already-extracted text, bypassing extraction.
func (s *Ingester) IngestText(
	ctx context.Context,
	sourcePath, filename string,
	kind domain.DocumentKind,
	text, tags string,
) (*driving.IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text extracted from %s", domain.ErrInvalidInput, sourcePath)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidInput, kind)
	}

	exists, err := s.store.ExistsBySourcePath(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("checking source path: %w", err)
	}
	if exists {
		logger.Debug("Source already ingested, skipping: %s", sourcePath)
		return &driving.IngestResult{Skipped: true}, nil
	}

	now := s.now().UTC()
	doc := &domain.Document{
		ID:         uuid.New().String(),
		SourcePath: sourcePath,
		Filename:   filename,
		Kind:       kind,
		Content:    text,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.InsertDocument(ctx, doc); err != nil {
		// A concurrent ingestion of the same source landed first.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return &driving.IngestResult{Skipped: true}, nil
		}
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	pieces := s.splitter.Split(text)
	chunks := make([]domain.Chunk, 0, len(pieces))
	embedded := 0

	for _, p := range pieces {
		chunk := domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Position:   p.Index,
			Content:    p.Text,
		}

		if s.embedder != nil {
			vec, err := s.embedder.Embed(ctx, p.Text)
			if err != nil {
				// Recoverable degradation: the chunk is indexed
				// without an embedding.
				logger.Warn("Embedding chunk %d of %s failed: %v", p.Index, filename, err)
			} else {
				chunk.Embedding = vec
				embedded++
			}
		}

		chunks = append(chunks, chunk)
	}

	if err := s.store.InsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("inserting chunks: %w", err)
	}

	logger.Info("Ingested %s: %d chunks (%d embedded)", filename, len(chunks), embedded)

	return &driving.IngestResult{
		Document: doc,
		Chunks:   len(chunks),
		Embedded: embedded,
	}, nil
}

// extractorFor returns the first extractor claiming the source.
func (s *Ingester) extractorFor(source string) driven.Extractor {
	for _, e := range s.extractors {
		if e.CanExtract(source) {
			return e
		}
	}
	return nil
}
