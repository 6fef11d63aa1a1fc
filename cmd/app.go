package cmd

import (
	"context"
	"fmt"
	"log"

	"knowledge-rag-be/config"
	"knowledge-rag-be/database"
	"knowledge-rag-be/repository"
	services "knowledge-rag-be/service"
)

// app bundles the wired services shared by the server and CLI
// commands.
type app struct {
	cfg              *config.Config
	registry         repository.KnowledgeBaseRegistry
	vectorDB         database.VectorStore
	aiService        services.AIService
	knowledgeService *services.KnowledgeService
	fileService      *services.FileService
	ragService       *services.RAGService
}

func buildApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Weaviate database: %v", err)
	}

	aiService, err := buildAIService(cfg)
	if err != nil {
		return nil, err
	}

	splitter := services.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	documentService := services.NewDocumentService(splitter, aiService, weaviateDb)
	knowledgeService := services.NewKnowledgeService(registry, weaviateDb)
	fileService := services.NewFileService(cfg.UploadDir, registry, documentService)
	ragService := services.NewRAGService(registry, weaviateDb, aiService, aiService, cfg.TopK)

	return &app{
		cfg:              cfg,
		registry:         registry,
		vectorDB:         weaviateDb,
		aiService:        aiService,
		knowledgeService: knowledgeService,
		fileService:      fileService,
		ragService:       ragService,
	}, nil
}

func buildRegistry(ctx context.Context, cfg *config.Config) (repository.KnowledgeBaseRegistry, error) {
	switch cfg.Registry.Driver {
	case "mongo":
		db, err := repository.NewMongoDatabase(ctx, cfg.Registry.MongoURI, cfg.Registry.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
		}
		return repository.NewMongoRegistry(ctx, db)
	case "file", "":
		return repository.NewFileRegistry(cfg.Registry.DataPath)
	default:
		return nil, fmt.Errorf("unknown registry driver: %s", cfg.Registry.Driver)
	}
}

func buildAIService(cfg *config.Config) (services.AIService, error) {
	switch cfg.AIProvider {
	case "gemini":
		svc, err := services.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("failed to init Gemini service: %v", err)
		}
		return svc, nil
	case "openai", "":
		return services.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AIProvider)
	}
}

func mustBuildApp(ctx context.Context, cfgPath string) *app {
	a, err := buildApp(ctx, cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	return a
}
