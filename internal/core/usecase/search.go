package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/YoanLn/Kiwi/internal/core/domain"
	"github.com/YoanLn/Kiwi/internal/core/ports"
)

const maxSearchLimit = 50

// SearchDocumentsUseCase serves lexical search over the transcripts of
// indexed verified documents.
type SearchDocumentsUseCase struct {
	index        ports.SearchIndex
	defaultLimit int
	logger       *slog.Logger
}

func NewSearchDocumentsUseCase(index ports.SearchIndex, defaultLimit int, logger *slog.Logger) *SearchDocumentsUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchDocumentsUseCase{
		index:        index,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func (uc *SearchDocumentsUseCase) Search(
	ctx context.Context,
	query string,
	limit int,
	filter domain.SearchFilter,
) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search documents", errors.New("empty query"))
	}
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	chunks, err := uc.index.SearchLexical(ctx, query, limit, filter)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("lexical search served",
		"query_len", len(query),
		"limit", limit,
		"category", filter.Category,
		"results", len(chunks),
	)
	return chunks, nil
}
