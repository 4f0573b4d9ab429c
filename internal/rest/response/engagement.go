package response

import (
	"strconv"

	"github.com/Guyuepp/recipe-engagement/domain"
)

// NewStatsFromDomain keys the stats by decimal item id, as JSON object keys
// must be strings.
func NewStatsFromDomain(stats map[int64]domain.ItemStats) map[string]domain.ItemStats {
	res := make(map[string]domain.ItemStats, len(stats))
	for id, st := range stats {
		res[strconv.FormatInt(id, 10)] = st
	}
	return res
}
