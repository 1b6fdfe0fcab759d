// Package app wires the application together: configuration, database
// pool, Genkit provider, and the services behind the API handlers.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lodestone-ai/lodestone/api"
	"github.com/lodestone-ai/lodestone/internal/chat"
	"github.com/lodestone-ai/lodestone/internal/config"
	"github.com/lodestone-ai/lodestone/internal/rag"
	"github.com/lodestone-ai/lodestone/internal/storage"
	"github.com/lodestone-ai/lodestone/internal/vectorstore"
)

// App is the application container. Call Close to release resources.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	Bucket    *storage.Bucket
	Vectors   *vectorstore.Store
	Indexer   *rag.Indexer
	Retriever *rag.Retriever
	Completer *chat.Completer

	Server *api.Server
}

// Close releases the application's resources.
func (a *App) Close() error {
	a.Logger.Info("shutting down application")
	if a.DBPool != nil {
		a.DBPool.Close()
	}
	return nil
}
