package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lepinkainen/vapor/internal/steam"
	"github.com/lepinkainen/vapor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAndAdd(t *testing.T) {
	table := New()
	table.Add("Half-Life 2", 220)

	id, ok := table.Lookup("Half-Life 2")
	assert.True(t, ok)
	assert.Equal(t, 220, id)

	_, ok = table.Lookup("half-life 2") // keys are exact strings
	assert.False(t, ok)
}

func TestAddRejectsInvalidEntries(t *testing.T) {
	table := New()
	table.Add("", 220)
	table.Add("Broken", 0)
	table.Add("AlsoBroken", -1)

	assert.Equal(t, 0, table.Len())
}

func TestMergeNeverShrinks(t *testing.T) {
	table := New()
	table.Add("Half-Life 2", 220)

	added := table.Merge([]steam.AppEntry{
		{AppID: 440, Name: "Team Fortress 2"},
		{AppID: 220, Name: "Half-Life 2"}, // already known
		{AppID: 0, Name: "Invalid"},
	})

	assert.Equal(t, 1, added)
	assert.Equal(t, 2, table.Len())

	id, ok := table.Lookup("Half-Life 2")
	assert.True(t, ok)
	assert.Equal(t, 220, id)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("app_id_list.json")

	table := New()
	table.Add("Half-Life 2", 220)
	table.Add("Portal", 400)
	table.Add("Team Fortress 2", 440)

	require.NoError(t, table.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	// Order-independent equality of the full mapping
	assert.Equal(t, table.Mapping(), loaded.Mapping())
}

func TestLoadMissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := Load(env.Path("absent.json"))
	require.Error(t, err)
}

func TestLoadOrFetchPrefersExistingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("catalog.json", `{"Half-Life 2": 220}`)

	// No listing endpoint available; the file must be enough
	table, err := LoadOrFetch(context.Background(), env.Path("catalog.json"), failingLister{})
	require.NoError(t, err)

	id, ok := table.Lookup("Half-Life 2")
	assert.True(t, ok)
	assert.Equal(t, 220, id)
}

func TestLoadOrFetchBuildsFromListing(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("catalog.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"applist":{"apps":[{"appid":220,"name":"Half-Life 2"},{"appid":400,"name":"Portal"}]}}`))
	}))
	defer server.Close()

	client := steam.NewClient(steam.WithAPIBaseURL(server.URL))

	table, err := LoadOrFetch(context.Background(), path, client)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	// The fetched table must have been persisted for the next run
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Mapping(), loaded.Mapping())
}

func TestLoadOrFetchPropagatesListingError(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := LoadOrFetch(context.Background(), env.Path("catalog.json"), failingLister{})
	require.Error(t, err)
}

func TestSample(t *testing.T) {
	table := New()
	table.Add("Half-Life 2", 220)
	table.Add("Portal", 400)

	names := table.Sample(5)
	require.Len(t, names, 5)
	for _, name := range names {
		_, ok := table.Lookup(name)
		assert.True(t, ok, "sampled name %q must come from the table", name)
	}

	assert.Nil(t, New().Sample(3))
	assert.Nil(t, table.Sample(0))
	assert.Nil(t, table.Sample(-1))
}

type failingLister struct{}

func (failingLister) AppList(ctx context.Context) ([]steam.AppEntry, error) {
	return nil, errors.New("listing unavailable")
}
