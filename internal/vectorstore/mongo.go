package vectorstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps chunks in a collection indexed by an Atlas Vector Search
// index on the "vector" field.
type MongoStore struct {
	client    *mongo.Client
	coll      *mongo.Collection
	indexName string
}

// chunkDoc is the stored shape of one chunk.
type chunkDoc struct {
	ID       string         `bson:"_id"`
	Text     string         `bson:"text"`
	Metadata map[string]any `bson:"metadata,omitempty"`
	Vector   []float32      `bson:"vector,omitempty"`
	Score    float64        `bson:"score,omitempty"`
}

func NewMongoStore(client *mongo.Client, coll *mongo.Collection, indexName string) *MongoStore {
	return &MongoStore{client: client, coll: coll, indexName: indexName}
}

func (s *MongoStore) Upsert(ctx context.Context, entries []Entry) (int, error) {
	stored := 0
	for _, batch := range batches(entries, MaxUpsertBatch) {
		models := make([]mongo.WriteModel, 0, len(batch))
		for _, e := range batch {
			doc := chunkDoc{ID: e.ID, Text: e.Text, Metadata: e.Metadata, Vector: e.Vector}
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": e.ID}).
				SetReplacement(doc).
				SetUpsert(true))
		}

		res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
		stored += storedCount(res)
		if err != nil {
			return stored, fmt.Errorf("mongo bulk upsert: %w", err)
		}
	}

	return stored, nil
}

// storedCount counts every entry the bulk write left in place: new documents
// plus matched ones, including replacements identical to what was stored.
func storedCount(res *mongo.BulkWriteResult) int {
	if res == nil {
		return 0
	}
	return int(res.UpsertedCount + res.MatchedCount)
}

func (s *MongoStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK < 1 {
		return nil, nil
	}

	cursor, err := s.coll.Aggregate(ctx, vectorSearchPipeline(s.indexName, vector, topK))
	if err != nil {
		return nil, fmt.Errorf("mongo vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []chunkDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode vector search results: %w", err)
	}

	matches := make([]Match, 0, len(docs))
	for _, d := range docs {
		matches = append(matches, Match{
			ID:       d.ID,
			Score:    float32(d.Score),
			Text:     d.Text,
			Metadata: d.Metadata,
		})
	}
	return matches, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// vectorSearchPipeline builds an approximate nearest-neighbour search that
// considers 20 candidates per requested result.
func vectorSearchPipeline(indexName string, vector []float32, topK int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: indexName},
			{Key: "path", Value: "vector"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: topK * 20},
			{Key: "limit", Value: topK},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "text", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
