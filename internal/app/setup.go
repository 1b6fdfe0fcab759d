package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	compatoai "github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/lodestone-ai/lodestone/api"
	"github.com/lodestone-ai/lodestone/db"
	"github.com/lodestone-ai/lodestone/internal/chat"
	"github.com/lodestone-ai/lodestone/internal/config"
	"github.com/lodestone-ai/lodestone/internal/crud"
	"github.com/lodestone-ai/lodestone/internal/embedding"
	"github.com/lodestone-ai/lodestone/internal/openai"
	"github.com/lodestone-ai/lodestone/internal/rag"
	"github.com/lodestone-ai/lodestone/internal/sqlc"
	"github.com/lodestone-ai/lodestone/internal/storage"
	"github.com/lodestone-ai/lodestone/internal/vectorstore"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := provideEmbedder(g, cfg)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	queries := sqlc.New(pool)
	a.Bucket = storage.NewBucket(queries, logger)
	a.Vectors = vectorstore.New(queries, logger)

	client := embedding.NewClient(embedder, cfg.EmbedRPS, cfg.EmbedBurst, logger)

	chunker, err := rag.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("creating chunker: %w", err)
	}

	assistants, err := crud.NewStore[openai.Assistant](pool, crud.TableAssistants)
	if err != nil {
		return nil, err
	}
	threads, err := crud.NewStore[openai.Thread](pool, crud.TableThreads)
	if err != nil {
		return nil, err
	}
	messages, err := crud.NewStore[openai.Message](pool, crud.TableMessages)
	if err != nil {
		return nil, err
	}
	runs, err := crud.NewStore[openai.Run](pool, crud.TableRuns)
	if err != nil {
		return nil, err
	}
	files, err := crud.NewStore[openai.FileObject](pool, crud.TableFileObjects)
	if err != nil {
		return nil, err
	}

	a.Indexer = rag.NewIndexer(queries, a.Vectors, client, a.Bucket, files, chunker, nil, logger)
	a.Retriever = rag.NewRetriever(client, a.Vectors, cfg.SearchTopK, logger)
	a.Completer = chat.NewCompleter(g, providerModelName(cfg), logger)

	handlers := httpapi.Handlers{
		Health:       httpapi.NewHealthHandler(pool, logger),
		Assistants:   httpapi.NewAssistantHandler(assistants, logger),
		Threads:      httpapi.NewThreadHandler(threads, messages, logger),
		Runs:         httpapi.NewRunHandler(runs, threads, messages, assistants, a.Retriever, a.Completer, logger),
		Files:        httpapi.NewFileHandler(files, a.Bucket, logger),
		VectorStores: httpapi.NewVectorStoreHandler(a.Indexer, logger),
		Chat:         httpapi.NewChatHandler(a.Completer, logger),
	}
	a.Server = httpapi.NewServer(handlers, httpapi.NewAuthenticator(cfg.AuthTokens), logger)

	return a, nil
}

// provideGenkit initializes Genkit with the configured AI provider.
// Supports gemini (default), ollama, and openai.
func provideGenkit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery).
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		ollamaPlugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&compatoai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // gemini
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// provideEmbedder looks up the embedder registered by the provider plugin.
// Each provider registers embedders differently:
//   - gemini: GoogleAIEmbedder(g, modelName)
//   - ollama: registered in provideGenkit, keyed by server address
//   - openai: auto-registered in Init(), looked up by model name
func provideEmbedder(g *genkit.Genkit, cfg *config.Config) ai.Embedder {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.Embedder(g, cfg.OllamaHost)
	case config.ProviderOpenAI:
		return genkit.LookupEmbedder(g, api.NewName("openai", cfg.EmbedderModel))
	default: // gemini
		return googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	}
}

// providerModelName qualifies the chat model name with the provider prefix
// Genkit uses for lookup.
func providerModelName(cfg *config.Config) string {
	switch cfg.Provider {
	case config.ProviderOllama:
		return "ollama/" + cfg.ModelName
	case config.ProviderOpenAI:
		return "openai/" + cfg.ModelName
	default:
		return "googleai/" + cfg.ModelName
	}
}

// provideDBPool runs migrations and creates the connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
