package discovery

import (
	"fmt"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// QuotaPolicy selects how clips are counted against a player's limit.
type QuotaPolicy string

const (
	// GlobalQuota stops a player once Total clips of any category are found.
	GlobalQuota QuotaPolicy = "global"
	// PerCategoryQuota keeps one independent remaining count per category.
	PerCategoryQuota QuotaPolicy = "per_category"
)

// ParseQuotaPolicy validates a configured policy name.
func ParseQuotaPolicy(s string) (QuotaPolicy, error) {
	switch QuotaPolicy(s) {
	case GlobalQuota, PerCategoryQuota:
		return QuotaPolicy(s), nil
	case "":
		return GlobalQuota, nil
	default:
		return "", fmt.Errorf("unknown quota policy %q (want %q or %q)", s, GlobalQuota, PerCategoryQuota)
	}
}

// QuotaConfig is the configured limit, shared by every player.
type QuotaConfig struct {
	Policy      QuotaPolicy
	Total       int
	PerCategory map[model.Category]int
}

// Quota is the mutable per-player counter built from a QuotaConfig.
type Quota struct {
	policy    QuotaPolicy
	total     int
	found     int
	remaining map[model.Category]int
}

// NewQuota starts a fresh count for one player.
func NewQuota(cfg QuotaConfig) *Quota {
	q := &Quota{policy: cfg.Policy, total: cfg.Total}
	if q.policy == "" {
		q.policy = GlobalQuota
	}
	if q.policy == PerCategoryQuota {
		q.remaining = make(map[model.Category]int, len(cfg.PerCategory))
		for c, n := range cfg.PerCategory {
			if n > 0 {
				q.remaining[c] = n
			}
		}
	}
	return q
}

// Wants reports whether another clip of category c would still count.
func (q *Quota) Wants(c model.Category) bool {
	if q.policy == PerCategoryQuota {
		return q.remaining[c] > 0
	}
	return q.found < q.total
}

// Take records one clip of category c.
func (q *Quota) Take(c model.Category) {
	q.found++
	if q.policy == PerCategoryQuota && q.remaining[c] > 0 {
		q.remaining[c]--
		if q.remaining[c] == 0 {
			delete(q.remaining, c)
		}
	}
}

// Done reports whether the player needs no more clips at all.
func (q *Quota) Done() bool {
	if q.policy == PerCategoryQuota {
		return len(q.remaining) == 0
	}
	return q.found >= q.total
}

// Found is the number of clips taken so far.
func (q *Quota) Found() int {
	return q.found
}
