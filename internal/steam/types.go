package steam

import (
	"bytes"
	"encoding/json"
)

// AppEntry is one {name, appid} pair from the bulk app listing.
type AppEntry struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// appListResponse is the envelope of the ISteamApps/GetAppList endpoint.
type appListResponse struct {
	AppList struct {
		Apps []AppEntry `json:"apps"`
	} `json:"applist"`
}

// Requirements holds the free-text system requirement fragments for one game.
// The store returns this as an object for most games but as an empty JSON
// array when no requirements are published, so it needs a tolerant decoder.
type Requirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

func (r *Requirements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		// Empty array means no requirements published
		*r = Requirements{}
		return nil
	}

	type requirements Requirements
	var raw requirements
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*r = Requirements(raw)
	return nil
}

// AppDetails is the data section of one appdetails response.
type AppDetails struct {
	AppID          int          `json:"steam_appid"`
	Name           string       `json:"name"`
	PCRequirements Requirements `json:"pc_requirements"`
}

// ReviewSummary is the query_summary section of one appreviews response.
type ReviewSummary struct {
	TotalReviews  int `json:"total_reviews"`
	TotalPositive int `json:"total_positive"`
}

// reviewsResponse is the envelope of the appreviews endpoint. QuerySummary
// is a pointer so a missing section can be told apart from zero counts.
type reviewsResponse struct {
	Success      int            `json:"success"`
	QuerySummary *ReviewSummary `json:"query_summary"`
}

// Ratio converts the summary into a positive-review ratio.
// A game with no reviews has a ratio of exactly 0.0; that is a defined
// value, not a failure.
func (s ReviewSummary) Ratio() float64 {
	if s.TotalReviews == 0 {
		return 0.0
	}
	return float64(s.TotalPositive) / float64(s.TotalReviews)
}
