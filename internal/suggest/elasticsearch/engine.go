// Package elasticsearch implements the suggestion engine on top of an
// Elasticsearch index with an edge-ngram autocomplete analyzer.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/vardhmanmills/storefront/internal/suggest"
)

// DefaultIndexName is the default index used for suggestion documents.
const DefaultIndexName = "storefront_suggestions"

// Engine is an Elasticsearch-backed suggestion engine.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// esSuggestResponse is the structure used to decode suggest query responses.
type esSuggestResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// New creates a suggestion engine connected to the given addresses and
// ensures the suggestion index exists. If indexName is empty,
// DefaultIndexName is used.
func New(addresses []string, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	e := &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}
	if err := e.ensureIndex(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// ensureIndex creates the suggestion index with its autocomplete mapping
// unless it already exists.
func (e *Engine) ensureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists(
		[]string{e.indexName},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(buildIndexMapping())),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(createRes.Body).Decode(&errResp); decErr == nil {
			// A concurrent instance may have created the index first.
			if errResp.Error.Type == "resource_already_exists_exception" {
				return nil
			}
			return fmt.Errorf("elasticsearch: create index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch: create index: unexpected status %s", createRes.Status())
	}

	e.logger.Info("created suggestion index", "index", e.indexName)
	return nil
}

// Index upserts one document per term, keyed by the lowercased term so
// re-indexing the same product name stays a single document.
func (e *Engine) Index(ctx context.Context, terms ...string) error {
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		doc := map[string]string{"name": term}
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("elasticsearch index: marshal document: %w", err)
		}

		res, err := e.client.Index(
			e.indexName,
			bytes.NewReader(data),
			e.client.Index.WithDocumentID(strings.ToLower(term)),
			e.client.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("elasticsearch index: %w", err)
		}
		res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
		}
	}
	return nil
}

// Suggest returns autocomplete suggestions for the given prefix. It queries
// the name.autocomplete field and returns unique names ordered by score.
func (e *Engine) Suggest(ctx context.Context, prefix string, size int) ([]string, error) {
	if size <= 0 {
		size = suggest.DefaultSize
	}
	if size > suggest.MaxSize {
		size = suggest.MaxSize
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"name.autocomplete": prefix,
			},
		},
		"size":    size,
		"_source": []string{"name"},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
		},
	}

	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch suggest: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch suggest: unexpected status %s", res.Status())
	}

	var esResp esSuggestResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: decode response: %w", err)
	}

	// Deduplicate names while preserving order.
	seen := make(map[string]struct{})
	names := make([]string, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		name := hit.Source.Name
		if _, exists := seen[name]; !exists {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names, nil
}
