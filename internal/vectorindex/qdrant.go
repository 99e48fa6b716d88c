package vectorindex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"
)

const (
	// Collection holds workshop embeddings for the planned semantic search.
	// Nothing in this API writes to or queries it yet; it is only
	// provisioned so the embedding pipeline has a target.
	Collection = "moaw"

	// dimension matches the text-embedding-ada-002 output size.
	dimension = 1536
)

// Ensure provisions the embedding collection when it does not exist yet.
// Safe to run on every startup.
func Ensure(ctx context.Context, client *qdrant.Client, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	exists, err := client.CollectionExists(ctx, Collection)
	if err != nil {
		return fmt.Errorf("vectorindex: check collection: %w", err)
	}
	if exists {
		log.Debug("embedding collection already provisioned", "collection", Collection)
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Dot,
		}),
	})
	if err != nil {
		return fmt.Errorf("vectorindex: create collection: %w", err)
	}

	log.Info("✅ Embedding collection created", "collection", Collection, "dimension", dimension)
	return nil
}
