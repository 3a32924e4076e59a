package daily

import "errors"

var ErrCacheMiss = errors.New("no cached daily verse")

// Entry is the cached verse of the day. Day is YYYY-MM-DD in the device zone.
type Entry struct {
	Day         string `json:"day"`
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
	Reference   string `json:"reference"`
	Number      int    `json:"number"`
}

const dayLayout = "2006-01-02"

// cacheKey names the single cached record.
const cacheKey = "dailyAyah"
