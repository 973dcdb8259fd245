package tripfinder

import (
	"sort"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/utils"
)

// Rank returns a copy of rows ordered by known departure time, with "N/A"
// rows last in their original order.
func Rank(rows []ResultRow) []ResultRow {
	out := make([]ResultRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		ki := out[i].NextDeparture != utils.NotAvailable
		kj := out[j].NextDeparture != utils.NotAvailable
		if ki != kj {
			return ki
		}
		return ki && out[i].NextDeparture < out[j].NextDeparture
	})
	return out
}
