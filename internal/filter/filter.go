// Package filter derives a searched, filtered view over a water point list
// without mutating the source. The same reducer backs both dashboards.
package filter

import (
	"strconv"
	"strings"

	"aquasafi-monitor/internal/domain"
)

// All is the sentinel meaning "no constraint" for status and region.
const All = "all"

type Criteria struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Region string `json:"region"`
}

// Apply returns the points matching every criterion, in source order. The
// input slice and its elements are never modified.
func Apply(points []domain.WaterPoint, c Criteria) []domain.WaterPoint {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]domain.WaterPoint, 0, len(points))
	for _, p := range points {
		if !matchesSearch(p, search) {
			continue
		}
		if !matchesExact(p.Status, c.Status) {
			continue
		}
		if !matchesExact(p.Region, c.Region) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Regions lists the distinct regions present, in first-seen order, for
// building filter dropdowns.
func Regions(points []domain.WaterPoint) []string {
	seen := make(map[string]struct{}, len(points))
	out := make([]string, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p.Region]; ok {
			continue
		}
		seen[p.Region] = struct{}{}
		out = append(out, p.Region)
	}
	return out
}

func matchesSearch(p domain.WaterPoint, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Region), search) ||
		strings.Contains(strconv.Itoa(p.ID), search)
}

func matchesExact(value, want string) bool {
	if want == "" || want == All {
		return true
	}
	return value == want
}
