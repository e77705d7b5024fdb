// Package seed loads product records from CSV or JSON files into a store.
package seed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/rogerio-castellano/inventory-search/internal/repo"
)

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// Item is one record ready to be written under Key.
type Item struct {
	Key    string
	Record models.RawRecord
}

// LoadFile reads a .csv or .json file.
func LoadFile(path, keyAttr string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f, keyAttr)
	case ".json":
		return ParseJSON(f, keyAttr)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseCSV reads a header row of attribute names followed by one record per
// row. Cells that parse as in-range decimals become numbers in canonical
// form, except under keyAttr; empty cells are left out.
func ParseCSV(r io.Reader, keyAttr string) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var items []Item
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rec := make(models.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			if h == keyAttr {
				rec[h] = models.S(cell)
				continue
			}
			if d, err := models.ParseNumber(cell); err == nil {
				rec[h] = models.N(d.String())
			} else {
				rec[h] = models.S(cell)
			}
		}
		if len(rec) == 0 {
			continue
		}
		items = append(items, newItem(rec, keyAttr))
	}
	return items, nil
}

// ParseJSON reads an array of flat objects. Strings and numbers are kept;
// values of any other type are skipped. A number outside the supported range
// fails the whole file.
func ParseJSON(r io.Reader, keyAttr string) ([]Item, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	items := make([]Item, 0, len(docs))
	for i, doc := range docs {
		rec := make(models.RawRecord, len(doc))
		for k, v := range doc {
			switch t := v.(type) {
			case string:
				rec[k] = models.S(t)
			case json.Number:
				if k == keyAttr {
					rec[k] = models.S(t.String())
					continue
				}
				d, err := models.ParseNumber(t.String())
				if err != nil {
					return nil, fmt.Errorf("record %d: attribute %q: %w", i, k, err)
				}
				rec[k] = models.N(d.String())
			}
		}
		items = append(items, newItem(rec, keyAttr))
	}
	return items, nil
}

func newItem(rec models.RawRecord, keyAttr string) Item {
	if v, ok := rec[keyAttr]; ok && v.Text != "" {
		return Item{Key: v.Text, Record: rec}
	}
	key := uuid.NewString()
	rec[keyAttr] = models.S(key)
	return Item{Key: key, Record: rec}
}

// Run writes every item through s, stopping at the first failure.
func Run(ctx context.Context, s repo.Seeder, items []Item, logger *slog.Logger) (int, error) {
	for i, it := range items {
		if err := s.Put(ctx, it.Key, it.Record); err != nil {
			return i, fmt.Errorf("failed to seed record %q: %w", it.Key, err)
		}
	}
	logger.InfoContext(ctx, "Seeded products", slog.Int("count", len(items)))
	return len(items), nil
}

// Backend prepares the schema of b and loads path into it.
func Backend(ctx context.Context, b *repo.Backend, path, keyAttr string, logger *slog.Logger) (int, error) {
	items, err := LoadFile(path, keyAttr)
	if err != nil {
		return 0, err
	}
	if err := b.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return Run(ctx, b.Seeder, items, logger)
}
