package pipeline

// SentinelAppID marks a name that could not be resolved locally or by
// store search. It only appears in serialized records; inside the pipeline
// failures stay tagged.
const SentinelAppID = -1

// Resolution is the tagged outcome of identifier resolution for one name.
// Name carries the storefront's canonical title when resolution came from
// a search, which may differ from the requested name.
type Resolution struct {
	AppID int
	Name  string
	Found bool
}

// SentinelID collapses the tagged resolution into the legacy numeric form.
func (r Resolution) SentinelID() int {
	if r.Found {
		return r.AppID
	}
	return SentinelAppID
}

// Record is the final per-game output row, one per input name, in input
// order. Failed sub-facts appear as sentinels (-1 appid, -1 size).
type Record struct {
	Name        string  `json:"name"`
	AppID       int     `json:"appid"`
	SizeGB      float64 `json:"size"`
	ReviewRatio float64 `json:"review_ratio"`
}
