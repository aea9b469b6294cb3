package vectorstore

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/types/known/structpb"
)

// PineconeStore talks to one serverless or pod index over gRPC.
type PineconeStore struct {
	index     string
	namespace string
	conn      *pinecone.IndexConnection
}

// NewPineconeStore resolves the index host and opens a data-plane connection.
// An unknown index or bad key fails here, at startup.
func NewPineconeStore(ctx context.Context, apiKey, indexName, namespace string) (*PineconeStore, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe pinecone index %q: %w", indexName, err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{Host: idx.Host, Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index %q: %w", indexName, err)
	}

	return &PineconeStore{index: indexName, namespace: namespace, conn: conn}, nil
}

func (s *PineconeStore) Upsert(ctx context.Context, entries []Entry) (int, error) {
	ctx, span := otel.Tracer("vectorstore").Start(ctx, "pinecone.upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("pinecone.index", s.index),
		attribute.Int("pinecone.vectors", len(entries)),
	)

	stored := 0
	for _, batch := range batches(entries, MaxUpsertBatch) {
		vectors := make([]*pinecone.Vector, 0, len(batch))
		for _, e := range batch {
			md, err := metadataStruct(e)
			if err != nil {
				return stored, fmt.Errorf("encode metadata for %s: %w", e.ID, err)
			}
			vectors = append(vectors, &pinecone.Vector{
				Id:       e.ID,
				Values:   e.Vector,
				Metadata: md,
			})
		}

		n, err := s.conn.UpsertVectors(ctx, vectors)
		if err != nil {
			return stored, fmt.Errorf("pinecone upsert: %w", err)
		}
		stored += int(n)
	}

	return stored, nil
}

func (s *PineconeStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK < 1 {
		return nil, nil
	}

	ctx, span := otel.Tracer("vectorstore").Start(ctx, "pinecone.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("pinecone.index", s.index),
		attribute.Int("pinecone.top_k", topK),
	)

	resp, err := s.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone query: %w", err)
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, matchFromMetadata(m.Vector.Id, m.Score, m.Vector.Metadata))
	}

	return matches, nil
}

func (s *PineconeStore) Close(context.Context) error {
	return s.conn.Close()
}

// metadataStruct folds the chunk text into its metadata under TextKey.
func metadataStruct(e Entry) (*structpb.Struct, error) {
	fields := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		fields[k] = v
	}
	fields[TextKey] = e.Text
	return structpb.NewStruct(fields)
}

func matchFromMetadata(id string, score float32, md *structpb.Struct) Match {
	m := Match{ID: id, Score: score, Metadata: map[string]any{}}
	if md == nil {
		return m
	}
	for k, v := range md.AsMap() {
		if k == TextKey {
			m.Text, _ = v.(string)
			continue
		}
		m.Metadata[k] = v
	}
	return m
}
