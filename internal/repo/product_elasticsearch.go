package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// ElasticsearchProductStore keeps one document per record. Strings are
// mapped as keywords so equality and substring matches stay case-sensitive.
type ElasticsearchProductStore struct {
	client  *elasticsearch.Client
	index   string
	maxHits int
}

func NewElasticsearchProductStore(client *elasticsearch.Client, index string, maxHits int) *ElasticsearchProductStore {
	if maxHits <= 0 {
		maxHits = 10000
	}
	return &ElasticsearchProductStore{client: client, index: strings.ToLower(index), maxHits: maxHits}
}

const productIndexMapping = `{
  "mappings": {
    "dynamic_templates": [
      {"strings_as_keywords": {"match_mapping_type": "string", "mapping": {"type": "keyword"}}},
      {"integers_as_doubles": {"match_mapping_type": "long", "mapping": {"type": "double"}}}
    ]
  }
}`

// EnsureSchema creates the index with the keyword mapping when missing.
func (s *ElasticsearchProductStore) EnsureSchema(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return wrapErr("elasticsearch", "ensure index", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(productIndexMapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return wrapErr("elasticsearch", "ensure index", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return wrapErr("elasticsearch", "ensure index", fmt.Errorf("%s", res.String()))
	}
	return nil
}

func (s *ElasticsearchProductStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	return s.search(ctx, map[string]any{"match_all": map[string]any{}})
}

func (s *ElasticsearchProductStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	if f.Empty() {
		return nil, wrapErr("elasticsearch", "search", ErrEmptyFilter)
	}

	clauses, err := buildESFilter(f)
	if err != nil {
		return nil, wrapErr("elasticsearch", "search", err)
	}
	return s.search(ctx, map[string]any{"bool": map[string]any{"filter": clauses}})
}

func (s *ElasticsearchProductStore) search(ctx context.Context, query map[string]any) ([]models.RawRecord, error) {
	body := map[string]any{
		"query": query,
		"size":  s.maxHits,
		"sort":  []string{"_doc"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, wrapErr("elasticsearch", "search", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, wrapErr("elasticsearch", "search", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, wrapErr("elasticsearch", "search", fmt.Errorf("%s", res.String()))
	}

	records, err := decodeSearchHits(res.Body)
	if err != nil {
		return nil, wrapErr("elasticsearch", "search", err)
	}
	return records, nil
}

func (s *ElasticsearchProductStore) Put(ctx context.Context, key string, record models.RawRecord) error {
	doc, err := encodeJSONRecord(record)
	if err != nil {
		return wrapErr("elasticsearch", "put", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(doc),
		s.client.Index.WithDocumentID(key),
		s.client.Index.WithRefresh("true"),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return wrapErr("elasticsearch", "put", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return wrapErr("elasticsearch", "put", fmt.Errorf("%s", res.String()))
	}
	return nil
}

func buildESFilter(f Filter) ([]map[string]any, error) {
	clauses := make([]map[string]any, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		switch c.Op {
		case OpEquals:
			clauses = append(clauses, map[string]any{
				"term": map[string]any{c.Attribute: c.Text},
			})
		case OpContains:
			clauses = append(clauses, map[string]any{
				"wildcard": map[string]any{c.Attribute: map[string]any{"value": "*" + escapeWildcard(c.Text) + "*"}},
			})
		case OpGTE:
			clauses = append(clauses, map[string]any{
				"range": map[string]any{c.Attribute: map[string]any{"gte": c.Number.String()}},
			})
		case OpLTE:
			clauses = append(clauses, map[string]any{
				"range": map[string]any{c.Attribute: map[string]any{"lte": c.Number.String()}},
			})
		default:
			return nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	return clauses, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string { return wildcardEscaper.Replace(s) }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeSearchHits(r io.Reader) ([]models.RawRecord, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]models.RawRecord, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		rec, err := decodeJSONRecord(h.Source)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
