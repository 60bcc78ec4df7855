package infoserve

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/config"
	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

var movementHeader = []string{
	"Fecha", "Hora", "Nota", "Referencia", "Clie", "Codigo", "Prov Op",
	"Descripcion", "Ctd", "Costo", "N.F", "User", "Vend", "Deposito",
}

func line(widths []int, fields ...string) string {
	var b strings.Builder
	for i, w := range widths {
		f := ""
		if i < len(fields) {
			f = fields[i]
		}
		b.WriteString(f)
		if pad := w - len([]rune(f)); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}

func writeExport(t *testing.T, cfg config.InfoserveConfig, schema config.FileSchema, header []string, rows ...[]string) {
	t.Helper()
	lines := make([]string, 0, cfg.SkipRows+2+len(rows))
	for i := 0; i < cfg.SkipRows; i++ {
		lines = append(lines, "INFOSERVE S.A. - LISTADO")
	}
	lines = append(lines, line(schema.Widths, header...))
	lines = append(lines, strings.Repeat("-", 40))
	for _, r := range rows {
		lines = append(lines, line(schema.Widths, r...))
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(strings.Join(lines, "\r\n"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.Path(schema), []byte(encoded), 0o644))
}

func movement(date, invoice, customer, product, desc, qty string) []string {
	return []string{date, "10:30", invoice, "REF", customer, product, "1", desc, qty, "100", "0", "ADM", "3", "CENTRAL"}
}

func testConfig(t *testing.T) config.InfoserveConfig {
	return config.DefaultInfoserveConfig(t.TempDir(), "latin1", 7)
}

func TestLoadJoinsDirectories(t *testing.T) {
	cfg := testConfig(t)
	writeExport(t, cfg, cfg.Movements, movementHeader,
		movement("01/03/2024", "100", "12", "501", "SHAMPOO", "1.200"),
		movement("15/03/2024", "101", "13", "502", "ACONDICIONADOR", "3"),
		movement("sin fecha", "102", "99", "501", "SHAMPOO", "x"),
		movement("02/03/2024", "ABC", "12", "501", "SHAMPOO", "1"),
	)
	writeExport(t, cfg, cfg.Customers, []string{"Codigo", "Nombre"},
		[]string{"12", "  FARMACIA CENTRAL "},
		[]string{"12", "DUPLICADA"},
		[]string{"13", "PELUQUERÍA SOL"},
	)
	writeExport(t, cfg, cfg.Products, []string{"Codigo", "Descripcion"},
		[]string{"501", "SHAMPOO 1L"},
	)

	rows, err := NewSource(cfg).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 101, rows[0].Invoice)
	assert.Equal(t, "PELUQUERÍA SOL", rows[0].CustomerName)
	assert.Equal(t, NotAvailable, rows[0].ProductName)
	assert.Equal(t, 3, rows[0].Quantity)
	require.NotNil(t, rows[0].Date)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *rows[0].Date)

	assert.Equal(t, 100, rows[1].Invoice)
	assert.Equal(t, "FARMACIA CENTRAL", rows[1].CustomerName)
	assert.Equal(t, "SHAMPOO 1L", rows[1].ProductName)
	assert.Equal(t, 1200, rows[1].Quantity)

	assert.Nil(t, rows[2].Date)
	assert.Equal(t, NotAvailable, rows[2].CustomerName)
	assert.Equal(t, 0, rows[2].Quantity)
}

func TestLoadMissingDirectoriesDegrade(t *testing.T) {
	cfg := testConfig(t)
	writeExport(t, cfg, cfg.Movements, movementHeader,
		movement("01/03/2024", "100", "12", "501", "SHAMPOO", "2"),
	)

	rows, err := NewSource(cfg).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, NotAvailable, rows[0].CustomerName)
	assert.Equal(t, NotAvailable, rows[0].ProductName)
}

func TestLoadMissingLedgerIsNoData(t *testing.T) {
	cfg := testConfig(t)

	_, err := NewSource(cfg).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestLoadOnlyGarbageRowsIsNoData(t *testing.T) {
	cfg := testConfig(t)
	writeExport(t, cfg, cfg.Movements, movementHeader,
		movement("01/03/2024", "", "12", "501", "SHAMPOO", "2"),
	)

	_, err := NewSource(cfg).Load(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNoData))
}

func TestLoadMissingRequiredColumnIsMalformed(t *testing.T) {
	cfg := testConfig(t)
	header := append([]string(nil), movementHeader...)
	header[8] = "Unid"
	writeExport(t, cfg, cfg.Movements, header,
		movement("01/03/2024", "100", "12", "501", "SHAMPOO", "2"),
	)

	_, err := NewSource(cfg).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedSource))
}

func TestLoadKeywordFallback(t *testing.T) {
	cfg := testConfig(t)
	header := append([]string(nil), movementHeader...)
	header[0] = "Fecha Mov"
	writeExport(t, cfg, cfg.Movements, header,
		movement("01/03/2024", "100", "12", "501", "SHAMPOO", "2"),
	)

	rows, err := NewSource(cfg).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rows[0].Date)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(testConfig(t)).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseCode(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 12.0 ", 12, true},
		{"12.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseCode(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSortByDateDesc(t *testing.T) {
	d := func(day int) *time.Time {
		v := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		return &v
	}
	rows := []domain.InfoserveRow{
		{Invoice: 1, Date: nil},
		{Invoice: 2, Date: d(1)},
		{Invoice: 3, Date: d(5)},
		{Invoice: 4, Date: nil},
	}
	SortByDateDesc(rows)

	var got []int
	for _, r := range rows {
		got = append(got, r.Invoice)
	}
	assert.Equal(t, []int{3, 2, 1, 4}, got)
}
