package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

const (
	queryDateLayout   = "2006-01-02"
	defaultWindowDays = 30
)

// parsePurchaseFilter reads start and end as inclusive dates. Without them the
// window is the last 30 days up to today. The returned End is exclusive.
func parsePurchaseFilter(c *gin.Context, today time.Time) (domain.PurchaseFilter, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	start := today.AddDate(0, 0, -defaultWindowDays)
	end := today
	if v, err := parseDateParam(c, "start", today.Location()); err != nil {
		return domain.PurchaseFilter{}, err
	} else if v != nil {
		start = *v
	}
	if v, err := parseDateParam(c, "end", today.Location()); err != nil {
		return domain.PurchaseFilter{}, err
	} else if v != nil {
		end = *v
	}
	if start.After(end) {
		return domain.PurchaseFilter{}, fmt.Errorf("start %s is after end %s", start.Format(queryDateLayout), end.Format(queryDateLayout))
	}

	exclude, _ := strconv.ParseBool(strings.TrimSpace(c.DefaultQuery("exclude_key_account", "false")))

	return domain.PurchaseFilter{
		Start:             start,
		End:               end.AddDate(0, 0, 1),
		Brand:             strings.TrimSpace(c.Query("brand")),
		Product:           strings.TrimSpace(c.Query("product")),
		Category:          strings.TrimSpace(c.Query("category")),
		ExcludeKeyAccount: exclude,
	}, nil
}

func parseInfoserveFilter(c *gin.Context) (domain.InfoserveFilter, error) {
	var f domain.InfoserveFilter
	var err error
	if f.Start, err = parseDateParam(c, "start", time.UTC); err != nil {
		return f, err
	}
	if f.End, err = parseDateParam(c, "end", time.UTC); err != nil {
		return f, err
	}
	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		return f, fmt.Errorf("start is after end")
	}
	f.Customers = nonBlank(c.QueryArray("customer"))
	f.Products = nonBlank(c.QueryArray("product"))
	return f, nil
}

func parseDateParam(c *gin.Context, name string, loc *time.Location) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(queryDateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", name, raw)
	}
	return &t, nil
}

// Names may contain commas, so only repeated parameters are supported.
func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
