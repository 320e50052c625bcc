package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/vapor/internal/cache"
	vaporerrors "github.com/lepinkainen/vapor/internal/errors"
)

// searchMatch is the cached, parsed outcome of one store search.
type searchMatch struct {
	AppID int    `json:"appid"`
	Title string `json:"title"`
	Found bool   `json:"found"`
}

// resolveAppIDs maps each input name to an identifier. Names present in
// the lookup table never touch the network; the rest fan out to store
// searches. Output positions are addressed through the scheduling index,
// never through response completion order.
func (e *Enricher) resolveAppIDs(ctx context.Context, names []string) ([]Resolution, error) {
	resolutions := make([]Resolution, len(names))
	// Population is tracked per slot, not inferred from field values: a
	// not-found resolution for an odd input name is still a filled slot.
	written := make([]bool, len(names))
	var pending []int

	for i, name := range names {
		if id, ok := e.table.Lookup(name); ok {
			resolutions[i] = Resolution{AppID: id, Name: name, Found: true}
			written[i] = true
		} else {
			pending = append(pending, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, idx := range pending {
		g.Go(func() error {
			res, err := e.searchResolve(gctx, names[idx])
			if err != nil {
				return err
			}
			resolutions[idx] = res
			written[idx] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, vaporerrors.NewStageError("resolve", err)
	}

	// Every slot must hold a lookup hit, a search result or an explicit
	// not-found; an empty slot is an unrecoverable implementation error.
	for i, ok := range written {
		if !ok {
			return nil, fmt.Errorf("resolver left position %d empty", i)
		}
	}

	return resolutions, nil
}

// searchResolve runs one store search for an unknown name. A search with
// no results is a per-item failure, not an error: the batch carries on and
// the item keeps a not-found resolution. Only transport-level failures
// propagate. Found matches are cached for the full TTL, empty searches with
// the shorter negative-cache TTL so new releases show up within a week.
func (e *Enricher) searchResolve(ctx context.Context, name string) (Resolution, error) {
	match, _, err := cache.GetOrFetchWithTTL(
		"steam_search_cache",
		normalizeQuery(name),
		func() (*searchMatch, error) {
			page, fetchErr := e.client.SearchPage(ctx, name)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return parseSearchPage(page), nil
		},
		cache.SelectNegativeCacheTTL(func(m *searchMatch) bool {
			return m == nil || !m.Found
		}),
	)
	if err != nil {
		return Resolution{}, err
	}

	if !match.Found {
		slog.Warn("No search result for game", "name", name)
		return Resolution{Name: name, Found: false}, nil
	}

	resolved := Resolution{AppID: match.AppID, Name: name, Found: true}
	if match.Title != "" {
		// Search gives the closest match, not necessarily the exact name;
		// adopt the storefront's canonical title.
		resolved.Name = match.Title
	}

	slog.Debug("Resolved via store search", "query", name, "appid", match.AppID, "title", match.Title)
	return resolved, nil
}

// parseSearchPage extracts the first result row from a search HTML page.
func parseSearchPage(page string) *searchMatch {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return &searchMatch{}
	}

	row := doc.Find(".search_result_row").First()
	if row.Length() == 0 {
		return &searchMatch{}
	}

	attr, ok := row.Attr("data-ds-appid")
	if !ok {
		return &searchMatch{}
	}

	// Bundles list several ids comma-separated; the first is the lead app
	appID, err := strconv.Atoi(strings.SplitN(attr, ",", 2)[0])
	if err != nil || appID <= 0 {
		return &searchMatch{}
	}

	title := strings.TrimSpace(row.Find(".title").First().Text())

	return &searchMatch{AppID: appID, Title: title, Found: true}
}

// normalizeQuery normalizes a search term for use as a cache key.
func normalizeQuery(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, normalized)
	return normalized
}
