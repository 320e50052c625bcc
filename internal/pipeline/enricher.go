// Package pipeline implements the three-stage enrichment run: identifier
// resolution, installed-size extraction and review aggregation. Stages run
// sequentially; within a stage every item fetches concurrently and the
// stage joins on all of them before the next one starts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lepinkainen/vapor/internal/catalog"
	"github.com/lepinkainen/vapor/internal/steam"
)

const defaultConcurrency = 10

// Enricher drives the enrichment pipeline for one batch of game names.
type Enricher struct {
	client      *steam.Client
	table       *catalog.Table
	concurrency int
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithConcurrency bounds the number of in-flight fetches per stage.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEnricher creates a pipeline over the given storefront client and
// lookup table. The table is read-only for the lifetime of each Run.
func NewEnricher(client *steam.Client, table *catalog.Table, opts ...Option) *Enricher {
	e := &Enricher{
		client:      client,
		table:       table,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run enriches the given names and returns one record per input, in input
// order. Per-item failures become sentinel fields; a stage-level failure
// aborts the whole run with no partial output.
func (e *Enricher) Run(ctx context.Context, names []string) ([]Record, error) {
	if len(names) == 0 {
		return []Record{}, nil
	}

	start := time.Now()

	resolutions, err := e.resolveAppIDs(ctx, names)
	if err != nil {
		return nil, err
	}

	sizes, err := e.gameSizes(ctx, resolutions)
	if err != nil {
		return nil, err
	}

	ratios, err := e.reviewRatios(ctx, resolutions)
	if err != nil {
		return nil, err
	}

	// Stage outputs are index-aligned with the input by construction;
	// a length mismatch is an implementation bug, not a data problem.
	if len(resolutions) != len(names) || len(sizes) != len(names) || len(ratios) != len(names) {
		return nil, fmt.Errorf("stage output misaligned: %d names, %d resolutions, %d sizes, %d ratios",
			len(names), len(resolutions), len(sizes), len(ratios))
	}

	records := make([]Record, len(names))
	for i, res := range resolutions {
		records[i] = Record{
			Name:        res.Name,
			AppID:       res.SentinelID(),
			SizeGB:      sizes[i].Sentinel(),
			ReviewRatio: ratios[i],
		}
	}

	slog.Info("Enrichment complete", "games", len(records), "duration", time.Since(start).Round(time.Millisecond))
	return records, nil
}
