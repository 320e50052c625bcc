package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const searchPageWithResult = `<html><body>
<div id="search_resultsRows">
<a href="https://store.steampowered.com/app/220/" class="search_result_row ds_collapse_flag" data-ds-appid="220" data-ds-itemkey="App_220">
  <div class="responsive_search_name_combined">
    <div class="col search_name ellipsis"><span class="title">Half-Life 2</span></div>
  </div>
</a>
<a href="https://store.steampowered.com/app/420/" class="search_result_row ds_collapse_flag" data-ds-appid="420">
  <div class="col search_name ellipsis"><span class="title">Half-Life 2: Episode Two</span></div>
</a>
</div>
</body></html>`

const searchPageEmpty = `<html><body>
<div id="search_resultsRows"></div>
<div class="search_results_count">0 results match your search.</div>
</body></html>`

func TestParseSearchPageFirstResultWins(t *testing.T) {
	match := parseSearchPage(searchPageWithResult)

	assert.True(t, match.Found)
	assert.Equal(t, 220, match.AppID)
	assert.Equal(t, "Half-Life 2", match.Title)
}

func TestParseSearchPageNoResults(t *testing.T) {
	match := parseSearchPage(searchPageEmpty)

	assert.False(t, match.Found)
	assert.Equal(t, 0, match.AppID)
}

func TestParseSearchPageBundleIDList(t *testing.T) {
	// Bundles carry a comma-separated id list; the lead app id wins
	page := `<a class="search_result_row" data-ds-appid="220,340,380">` +
		`<span class="title">The Orange Box</span></a>`

	match := parseSearchPage(page)
	assert.True(t, match.Found)
	assert.Equal(t, 220, match.AppID)
	assert.Equal(t, "The Orange Box", match.Title)
}

func TestParseSearchPageMissingAttr(t *testing.T) {
	page := `<a class="search_result_row"><span class="title">Broken Row</span></a>`

	match := parseSearchPage(page)
	assert.False(t, match.Found)
}

func TestParseSearchPageGarbageAttr(t *testing.T) {
	page := `<a class="search_result_row" data-ds-appid="not-a-number">` +
		`<span class="title">Odd Row</span></a>`

	match := parseSearchPage(page)
	assert.False(t, match.Found)
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Half-Life 2", "half-life_2"},
		{"  Portal  ", "portal"},
		{"Deus Ex: Human Revolution", "deus_ex__human_revolution"},
		{"UPPER lower 123", "upper_lower_123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeQuery(tt.in), "input %q", tt.in)
	}
}
