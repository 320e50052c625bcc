package pipeline

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/vapor/internal/cache"
	vaporerrors "github.com/lepinkainen/vapor/internal/errors"
	"github.com/lepinkainen/vapor/internal/steam"
)

// reviewRatios computes the positive-review ratio for every resolved
// identifier. Unlike size extraction there is no per-item failure path: a
// malformed review response aborts the run, because the only candidate
// default (0.0) already means "no reviews" and would silently corrupt the
// output. Unresolved items skip the fetch and keep the defined 0.0.
func (e *Enricher) reviewRatios(ctx context.Context, resolutions []Resolution) ([]float64, error) {
	ratios := make([]float64, len(resolutions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, res := range resolutions {
		if !res.Found {
			continue
		}
		g.Go(func() error {
			summary, _, err := cache.GetOrFetch(
				"steam_reviews_cache",
				strconv.Itoa(res.AppID),
				func() (*steam.ReviewSummary, error) {
					return e.client.AppReviews(gctx, res.AppID)
				},
			)
			if err != nil {
				return err
			}
			ratios[i] = summary.Ratio()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, vaporerrors.NewStageError("reviews", err)
	}

	return ratios, nil
}
