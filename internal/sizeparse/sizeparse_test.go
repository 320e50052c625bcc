package sizeparse

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"gigabytes", "Storage: 10 GB available space", 10.0},
		{"megabytes", "Storage: 500 MB available space", 0.5},
		{"terabytes", "Storage: 2 TB available space", 2000.0},
		{"kilobytes", "Storage: 300 KB available space", 0.0003},
		{"lowercase k kilobytes", "Storage: 300 kB available space", 0.0003},
		{"bytes", "Storage: 100 B available space", 1e-7},
		{"space label", "Hard Disk Space: 8 GB", 8.0},
		{"drive label", "Hard Drive: 12 GB free", 12.0},
		{"run-together magnitude and unit", "Storage: 750MB available space", 0.75},
		{"label with noise before digits", "Storage:    at least 4 GB", 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.True(t, got.OK())
			assert.Equal(t, tt.want, got.GB)
		})
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Failure
	}{
		{"no storage mention", "Requires a 64-bit processor", FailureNoMatch},
		{"empty text", "", FailureNoMatch},
		{"lowercase label is prose, not a label", "storage: 10 GB", FailureNoMatch},
		{"memory line only", "Memory: 8 GB RAM", FailureNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.False(t, got.OK())
			assert.Equal(t, tt.want, got.Failure)
			assert.Equal(t, -1.0, got.Sentinel())
		})
	}
}

func TestParseTakesFirstMatch(t *testing.T) {
	got := Parse("Storage: 5 GB available space, Additional Storage: 100 GB")
	assert.True(t, got.OK())
	assert.Equal(t, 5.0, got.GB)
}

func TestParseHTML(t *testing.T) {
	fragment := `<strong>Minimum:</strong><br><ul class="bb_ul">` +
		`<li><strong>OS:</strong> Windows 10<br></li>` +
		`<li><strong>Storage:</strong> 7 GB available space<br></li></ul>`

	got := ParseHTML(fragment)
	assert.True(t, got.OK())
	assert.Equal(t, 7.0, got.GB)
}

func TestParseHTMLMissingField(t *testing.T) {
	got := ParseHTML("")
	assert.False(t, got.OK())
	assert.Equal(t, FailureMissingField, got.Failure)

	got = ParseHTML("   ")
	assert.Equal(t, FailureMissingField, got.Failure)
}

func TestParseHTMLTagsDoNotInterfere(t *testing.T) {
	// The size value is split across markup; stripping must reconstruct it
	got := ParseHTML("<li><strong>Storage:</strong> 250 MB available space</li>")
	assert.True(t, got.OK())
	assert.Equal(t, 0.25, got.GB)
}

func TestSentinelOnSuccessReturnsValue(t *testing.T) {
	got := Parse("Storage: 10 GB")
	assert.Equal(t, 10.0, got.Sentinel())
}
