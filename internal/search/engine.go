package search

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/rogerio-castellano/inventory-search/internal/repo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Engine runs a search against one record store: exactly one store call per
// search, no retries, no state kept between calls.
type Engine struct {
	store    repo.ProductStore
	tracer   trace.Tracer
	logger   *slog.Logger
	requests metric.Int64Counter
	results  metric.Int64Histogram
}

// NewEngine creates an engine over store.
func NewEngine(store repo.ProductStore, tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) (*Engine, error) {
	requests, err := meter.Int64Counter(
		"products.search.requests",
		metric.WithDescription("Total number of product searches"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request counter: %w", err)
	}
	results, err := meter.Int64Histogram(
		"products.search.results",
		metric.WithDescription("Number of products returned per search"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search result histogram: %w", err)
	}

	return &Engine{
		store:    store,
		tracer:   tracer,
		logger:   logger,
		requests: requests,
		results:  results,
	}, nil
}

// Query parses params and runs the search.
func (e *Engine) Query(ctx context.Context, params map[string]string) (models.SearchResult, error) {
	preds, err := ParsePredicates(params)
	if err != nil {
		e.record(ctx, "malformed_input")
		e.logger.WarnContext(ctx, "Rejected search parameters", slog.String("error", err.Error()))
		return models.SearchResult{}, err
	}
	return e.Search(ctx, preds)
}

// Search fetches the records matching every predicate. With no predicates it
// performs an unconditional full retrieval.
func (e *Engine) Search(ctx context.Context, preds []Predicate) (models.SearchResult, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Search")
	defer span.End()

	span.SetAttributes(attribute.Int("search.predicates", len(preds)))

	var (
		records []models.RawRecord
		err     error
	)
	if len(preds) == 0 {
		e.logger.DebugContext(ctx, "Fetching all products")
		records, err = e.store.FetchAll(ctx)
	} else {
		filter := BuildFilter(preds)
		span.SetAttributes(attribute.String("search.filter", filter.String()))
		e.logger.DebugContext(ctx, "Fetching filtered products", slog.String("filter", filter.String()))
		records, err = e.store.FetchFiltered(ctx, filter)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store call failed")
		e.record(ctx, "store_failure")
		e.logger.ErrorContext(ctx, "Failed to fetch products", slog.String("error", err.Error()))
		return models.SearchResult{}, err
	}

	products, err := Normalize(records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Normalization failed")
		e.record(ctx, "store_failure")
		e.logger.ErrorContext(ctx, "Failed to normalize products", slog.String("error", err.Error()))
		return models.SearchResult{}, err
	}

	result := models.NewSearchResult(products)
	span.SetAttributes(attribute.Int("search.count", result.Count))
	span.SetStatus(codes.Ok, "Search completed")
	e.record(ctx, "success")
	e.results.Record(ctx, int64(result.Count))

	e.logger.InfoContext(ctx, "Products searched", slog.Int("count", result.Count))
	return result, nil
}

func (e *Engine) record(ctx context.Context, result string) {
	e.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// Normalize converts raw records into plain string/number products. Values of
// any other kind are dropped.
func Normalize(records []models.RawRecord) ([]models.Product, error) {
	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		p := make(models.Product, len(rec))
		for k, av := range rec {
			switch av.Kind {
			case models.KindString:
				p[k] = models.StringValue(av.Text)
			case models.KindNumber:
				n, err := strconv.ParseFloat(av.Text, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: attribute %q holds invalid number %q", repo.ErrStoreFailure, k, av.Text)
				}
				p[k] = models.NumberValue(n)
			}
		}
		products = append(products, p)
	}
	return products, nil
}
