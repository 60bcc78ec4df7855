package infoserve

import (
	"sort"
	"time"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

// Filter keeps the rows matching every bound of f. Date bounds are inclusive
// calendar days; once a bound is set, rows without a date are excluded.
func Filter(rows []domain.InfoserveRow, f domain.InfoserveFilter) []domain.InfoserveRow {
	customers := toSet(f.Customers)
	products := toSet(f.Products)

	out := make([]domain.InfoserveRow, 0, len(rows))
	for _, r := range rows {
		if f.Start != nil || f.End != nil {
			if r.Date == nil {
				continue
			}
			day := truncateDay(*r.Date)
			if f.Start != nil && day.Before(truncateDay(*f.Start)) {
				continue
			}
			if f.End != nil && day.After(truncateDay(*f.End)) {
				continue
			}
		}
		if customers != nil && !customers[r.CustomerName] {
			continue
		}
		if products != nil && !products[r.ProductName] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DistinctCustomers lists the customer names present in rows, sorted.
func DistinctCustomers(rows []domain.InfoserveRow) []string {
	return distinct(rows, func(r domain.InfoserveRow) string { return r.CustomerName })
}

// DistinctProducts lists the product names present in rows, sorted.
func DistinctProducts(rows []domain.InfoserveRow) []string {
	return distinct(rows, func(r domain.InfoserveRow) string { return r.ProductName })
}

// DateBounds returns the oldest and newest dates found, or nils when no row has one.
func DateBounds(rows []domain.InfoserveRow) (min, max *time.Time) {
	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		d := *r.Date
		if min == nil || d.Before(*min) {
			min = &d
		}
		if max == nil || d.After(*max) {
			max = &d
		}
	}
	return min, max
}

func distinct(rows []domain.InfoserveRow, key func(domain.InfoserveRow) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
