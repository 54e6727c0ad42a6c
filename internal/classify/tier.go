// Package classify assigns sentiment labels and publication tiers.
package classify

import "strings"

// Tier is a coarse publication-quality bucket.
type Tier string

const (
	TierTop          Tier = "Top"
	TierMid          Tier = "Mid"
	TierTrade        Tier = "Trade"
	TierUnclassified Tier = "Unclassified"
)

// ReportTiers lists the classified tiers in report order.
var ReportTiers = []Tier{TierTop, TierMid, TierTrade}

// TierTable holds the three outlet lists. It is read-only after construction.
type TierTable struct {
	trade []string
	mid   []string
	top   []string
}

// NewTierTable lower-cases and copies the outlet lists.
func NewTierTable(top, mid, trade []string) *TierTable {
	return &TierTable{
		trade: normalize(trade),
		mid:   normalize(mid),
		top:   normalize(top),
	}
}

// Assign matches sourceName against the Trade list, then Mid, then Top.
// Trade goes first because trade titles often contain broader outlet names.
func (t *TierTable) Assign(sourceName string) Tier {
	name := strings.ToLower(sourceName)
	if name == "" || t == nil {
		return TierUnclassified
	}
	switch {
	case containsAny(name, t.trade):
		return TierTrade
	case containsAny(name, t.mid):
		return TierMid
	case containsAny(name, t.top):
		return TierTop
	}
	return TierUnclassified
}

func containsAny(name string, outlets []string) bool {
	for _, o := range outlets {
		if strings.Contains(name, o) {
			return true
		}
	}
	return false
}

func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
