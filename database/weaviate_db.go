package database

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"knowledge-rag-be/config"
	"knowledge-rag-be/types"
)

const BATCH_SIZE = 200

type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
		cfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     config.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}
	return &WeaviateStore{client: client}, nil
}

// classNameFor maps a knowledge base id to a GraphQL-safe Weaviate
// class name. Weaviate requires a capitalized first letter, so every
// collection lives under a "Kb_" prefix.
func classNameFor(collectionID string) string {
	var b strings.Builder
	b.WriteString("Kb_")
	for _, r := range collectionID {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// collectionClassObject builds the schema for one knowledge base
// collection. Vectors come from the embedding service, so the class
// carries no vectorizer module.
func collectionClassObject(className string) *models.Class {
	return &models.Class{
		Class: className,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "sourceFileId", DataType: []string{"text"}},
			{Name: "sourceKbId", DataType: []string{"text"}},
			{Name: "lineFrom", DataType: []string{"int"}},
			{Name: "lineTo", DataType: []string{"int"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
}

// WeaviateCollection is a handle over one class. The class may not
// exist yet; it is created on the first write.
type WeaviateCollection struct {
	store     *WeaviateStore
	className string
	ensured   bool
}

func (s *WeaviateStore) Open(ctx context.Context, collectionID string) (CollectionHandle, error) {
	collection := &WeaviateCollection{store: s, className: classNameFor(collectionID)}
	if _, err := s.client.Schema().ClassGetter().WithClassName(collection.className).Do(ctx); err != nil {
		// Absence (or an unreachable store) defers creation to the
		// first write. Open itself never fails for these reasons.
		log.Printf("collection %q not loaded, will create on first write: %v", collectionID, err)
	} else {
		collection.ensured = true
	}
	return collection, nil
}

func (c *WeaviateCollection) ensureClass(ctx context.Context) error {
	if c.ensured {
		return nil
	}
	err := c.store.client.Schema().ClassCreator().WithClass(collectionClassObject(c.className)).Do(ctx)
	if err != nil && !isAlreadyExistsError(err) {
		return fmt.Errorf("failed to create class %s: %w", c.className, err)
	}
	c.ensured = true
	return nil
}

func (c *WeaviateCollection) Upsert(ctx context.Context, records []types.VectorRecord) error {
	if err := c.ensureClass(ctx); err != nil {
		return err
	}
	total := len(records)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := c.store.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				ID:    strfmt.UUID(records[j].ID),
				Class: c.className,
				Properties: map[string]interface{}{
					"content":      records[j].Content,
					"sourceFileId": records[j].Metadata.SourceFileID,
					"sourceKbId":   records[j].Metadata.SourceKBID,
					"lineFrom":     records[j].Metadata.LineFrom,
					"lineTo":       records[j].Metadata.LineTo,
				},
				Vector: records[j].Embedding,
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert batch %d-%d: %v", i, end, err)
		}
		log.Printf("Inserted batch %d-%d of %d records into %s", i, end, total, c.className)
	}
	return nil
}

func (c *WeaviateCollection) Query(ctx context.Context, embedding []float32, limit int) ([]types.ScoredDocument, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceFileId"},
		{Name: "sourceKbId"},
		{Name: "lineFrom"},
		{Name: "lineTo"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearVector := c.store.client.GraphQL().NearVectorArgBuilder().WithVector(embedding)

	result, err := c.store.client.GraphQL().Get().
		WithClassName(c.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		if isAbsenceError(err) {
			log.Printf("collection %s has no queryable data yet: %v", c.className, err)
			return nil, nil
		}
		return nil, err
	}
	if len(result.Errors) > 0 {
		if isAbsenceMessage(result.Errors[0].Message) {
			return nil, nil
		}
		return nil, fmt.Errorf("query failed: %v", result.Errors[0].Message)
	}

	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	var docs []types.ScoredDocument
	if data, ok := get[c.className].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			document := types.Document{
				Content: stringProp(obj, "content"),
				Metadata: types.ChunkMetadata{
					SourceFileID: stringProp(obj, "sourceFileId"),
					SourceKBID:   stringProp(obj, "sourceKbId"),
					LineFrom:     intProp(obj, "lineFrom"),
					LineTo:       intProp(obj, "lineTo"),
				},
			}
			score := math.Inf(1)
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if distance, ok := additional["distance"].(float64); ok {
					score = distance
				}
			}
			docs = append(docs, types.ScoredDocument{Document: document, Score: score})
		}
	}
	return docs, nil
}

func (c *WeaviateCollection) DeleteByFilter(ctx context.Context, filter VectorFilter) error {
	var err error
	if filter == (VectorFilter{}) {
		err = c.store.client.Schema().ClassDeleter().WithClassName(c.className).Do(ctx)
		if err == nil {
			c.ensured = false
		}
	} else {
		where := filters.Where().
			WithPath([]string{"sourceFileId"}).
			WithOperator(filters.Equal).
			WithValueString(filter.SourceFileID)
		_, err = c.store.client.Batch().ObjectsBatchDeleter().
			WithClassName(c.className).
			WithWhere(where).
			Do(ctx)
	}
	if err != nil {
		if isAbsenceError(err) {
			log.Printf("nothing to delete in %s: %v", c.className, err)
			return nil
		}
		return fmt.Errorf("failed to delete from %s: %w", c.className, err)
	}
	return nil
}

// Helper functions
func stringProp(obj map[string]interface{}, name string) string {
	if v, ok := obj[name].(string); ok {
		return v
	}
	return ""
}

func intProp(obj map[string]interface{}, name string) int {
	if v, ok := obj[name].(float64); ok {
		return int(v)
	}
	return 0
}
