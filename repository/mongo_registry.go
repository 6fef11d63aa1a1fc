package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"knowledge-rag-be/types"
)

// MongoRegistry stores the registry in two collections with atomic
// per-record operations instead of whole-document rewrites, so
// concurrent mutating calls no longer lose updates.
type MongoRegistry struct {
	knowledgeBases *mongo.Collection
	files          *mongo.Collection
}

// NewMongoDatabase connects to MongoDB and returns a database handle.
func NewMongoDatabase(ctx context.Context, uri, name string) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetBSONOptions(
			&options.BSONOptions{
				ObjectIDAsHexString: true,
			},
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(name), nil
}

func NewMongoRegistry(ctx context.Context, db *mongo.Database) (*MongoRegistry, error) {
	r := &MongoRegistry{
		knowledgeBases: db.Collection("knowledge_bases"),
		files:          db.Collection("files"),
	}
	if err := r.seedDefault(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoRegistry) seedDefault(ctx context.Context) error {
	defaultKB := types.KnowledgeBase{
		ID:          DefaultKnowledgeBaseID,
		Name:        "Default knowledge base",
		Description: "System default knowledge base",
		CreatedAt:   time.Now().UTC(),
	}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.knowledgeBases.UpdateOne(ctx,
		bson.M{"_id": DefaultKnowledgeBaseID},
		bson.M{"$setOnInsert": defaultKB},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to seed default knowledge base: %w", err)
	}
	return nil
}

func (r *MongoRegistry) ListKnowledgeBases(ctx context.Context) ([]types.KnowledgeBase, error) {
	cursor, err := r.knowledgeBases.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var kbs []types.KnowledgeBase
	if err := cursor.All(ctx, &kbs); err != nil {
		return nil, err
	}
	return kbs, nil
}

func (r *MongoRegistry) GetKnowledgeBase(ctx context.Context, id string) (*types.KnowledgeBase, error) {
	var kb types.KnowledgeBase
	err := r.knowledgeBases.FindOne(ctx, bson.M{"_id": id}).Decode(&kb)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrKnowledgeBaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &kb, nil
}

func (r *MongoRegistry) CreateKnowledgeBase(ctx context.Context, name, description string) (*types.KnowledgeBase, error) {
	kb := types.KnowledgeBase{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.knowledgeBases.InsertOne(ctx, kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

func (r *MongoRegistry) DeleteKnowledgeBase(ctx context.Context, id string) error {
	// Collect the staged paths before the records disappear.
	files, err := r.ListFiles(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.knowledgeBases.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return types.ErrKnowledgeBaseNotFound
	}
	if _, err := r.files.DeleteMany(ctx, bson.M{"kb_id": id}); err != nil {
		return err
	}
	for _, f := range files {
		removeStagedFile(f.Path)
	}
	return nil
}

func (r *MongoRegistry) ListFiles(ctx context.Context, kbID string) ([]types.FileRecord, error) {
	cursor, err := r.files.Find(ctx, bson.M{"kb_id": kbID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	files := make([]types.FileRecord, 0)
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *MongoRegistry) AddFile(ctx context.Context, kbID, filename, path, fileType string) (*types.FileRecord, error) {
	record := types.FileRecord{
		ID:         uuid.NewString(),
		KBID:       kbID,
		Filename:   filename,
		Path:       path,
		Type:       fileType,
		UploadedAt: time.Now().UTC(),
	}
	if _, err := r.files.InsertOne(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MongoRegistry) DeleteFile(ctx context.Context, kbID, fileID string) (*types.FileRecord, error) {
	var removed types.FileRecord
	err := r.files.FindOneAndDelete(ctx, bson.M{"_id": fileID, "kb_id": kbID}).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	removeStagedFile(removed.Path)
	return &removed, nil
}
