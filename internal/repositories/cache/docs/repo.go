package cachedocsrepo

import (
	"context"
	"docmanager/internal/models"
	cacherepo "docmanager/internal/repositories/cache"
	"encoding/json"
	"fmt"
	"time"
)

const (
	pkg       = "cachedocsrepo/"
	keyPrefix = "doc:"
)

// repository keeps document metadata as JSON under doc:<id>. Entries are
// dropped on every write to the document, so a hit never outlives a change.
type repository struct {
	cache cacherepo.KV
	ttl   time.Duration
}

func New(cache cacherepo.KV, ttl time.Duration) *repository {
	return &repository{
		cache: cache,
		ttl:   ttl,
	}
}

func key(docID string) string {
	return keyPrefix + docID
}

// Document returns nil, nil on a miss.
func (r *repository) Document(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "Document"

	raw, err := r.cache.Get(ctx, key(docID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if raw == "" {
		return nil, nil
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, key(docID), err)
	}

	return &doc, nil
}

func (r *repository) StoreDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "StoreDocument"

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.cache.Set(ctx, key(doc.ID), string(raw), r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Forget(ctx context.Context, docIDs ...string) error {
	op := pkg + "Forget"

	if len(docIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(docIDs))
	for _, id := range docIDs {
		keys = append(keys, key(id))
	}

	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
