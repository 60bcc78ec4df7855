package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PurchaseFilter narrows the domestic queries. End is exclusive.
type PurchaseFilter struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Brand             string    `json:"brand"`
	Product           string    `json:"product"`
	Category          string    `json:"category"`
	ExcludeKeyAccount bool      `json:"exclude_key_account"`
}

// HasBrand reports whether the brand filter is set. "Todas" means no filter.
func (f PurchaseFilter) HasBrand() bool {
	return f.Brand != "" && !strings.EqualFold(f.Brand, AllOption)
}

func (f PurchaseFilter) HasCategory() bool {
	return f.Category != "" && !strings.EqualFold(f.Category, AllOption)
}

// Key returns a stable textual form of the filter for cache keys.
func (f PurchaseFilter) Key() string {
	parts := []string{
		"start=" + f.Start.Format("2006-01-02"),
		"end=" + f.End.Format("2006-01-02"),
	}
	if f.HasBrand() {
		parts = append(parts, "brand="+strings.ToUpper(strings.TrimSpace(f.Brand)))
	}
	if f.Product != "" {
		parts = append(parts, "product="+strings.ToUpper(strings.TrimSpace(f.Product)))
	}
	if f.HasCategory() {
		parts = append(parts, "category="+strings.ToUpper(strings.TrimSpace(f.Category)))
	}
	parts = append(parts, fmt.Sprintf("exclude_key_account=%t", f.ExcludeKeyAccount))
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// AllOption is the UI value meaning "no filter".
const AllOption = "Todas"

// InfoserveFilter narrows the movement ledger. Bounds are inclusive dates.
type InfoserveFilter struct {
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	Customers []string   `json:"customers,omitempty"`
	Products  []string   `json:"products,omitempty"`
}
