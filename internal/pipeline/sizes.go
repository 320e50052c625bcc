package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/vapor/internal/cache"
	vaporerrors "github.com/lepinkainen/vapor/internal/errors"
	"github.com/lepinkainen/vapor/internal/sizeparse"
	"github.com/lepinkainen/vapor/internal/steam"
)

// gameSizes fetches detail payloads for every resolved identifier and
// extracts installed sizes. Unresolved items are skipped without a fetch
// and keep a tagged failure. Extraction failures never abort the batch;
// transport failures do.
func (e *Enricher) gameSizes(ctx context.Context, resolutions []Resolution) ([]sizeparse.Size, error) {
	sizes := make([]sizeparse.Size, len(resolutions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, res := range resolutions {
		if !res.Found {
			sizes[i] = sizeparse.Size{Failure: sizeparse.FailureUnresolved}
			continue
		}
		g.Go(func() error {
			size, err := e.fetchSize(gctx, res.AppID)
			if err != nil {
				return err
			}
			sizes[i] = size
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, vaporerrors.NewStageError("sizes", err)
	}

	return sizes, nil
}

func (e *Enricher) fetchSize(ctx context.Context, appID int) (sizeparse.Size, error) {
	details, _, err := cache.GetOrFetch(
		"steam_details_cache",
		strconv.Itoa(appID),
		func() (*steam.AppDetails, error) {
			return e.client.AppDetails(ctx, appID)
		},
	)
	if err != nil {
		if errors.Is(err, steam.ErrAppUnavailable) {
			// Removed or hidden games have no detail payload at all
			slog.Warn("App details unavailable", "appid", appID)
			return sizeparse.Size{Failure: sizeparse.FailureMissingField}, nil
		}
		return sizeparse.Size{}, err
	}

	size := sizeparse.ParseHTML(details.PCRequirements.Minimum)
	if !size.OK() {
		slog.Warn("Size extraction failed", "appid", appID, "reason", size.Failure)
		// Keep the offending text visible for diagnosis; it is not part
		// of the returned result.
		slog.Debug("Unparsed requirements text", "appid", appID, "text", details.PCRequirements.Minimum)
	}

	return size, nil
}
