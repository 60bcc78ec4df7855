// Package fixedwidth reads positional text exports whose column header is
// embedded in the data region, as produced by the Infoserve point-of-sale system.
package fixedwidth

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/CassioCandidoRibeiro/saudmed-analytics/internal/domain"
)

const maxLineBytes = 1 << 20

// Layout describes how a single export file is sliced.
type Layout struct {
	Widths   []int
	SkipRows int
	Encoding string
}

func (l Layout) Validate() error {
	if len(l.Widths) == 0 {
		return errors.New("fixedwidth: layout has no widths")
	}
	for i, w := range l.Widths {
		if w <= 0 {
			return errors.Errorf("fixedwidth: width %d at position %d must be positive", w, i)
		}
	}
	if l.SkipRows < 0 {
		return errors.Errorf("fixedwidth: negative skip rows %d", l.SkipRows)
	}
	return nil
}

// ReadFile opens path and reads it with Read. An absent file is not an error:
// it yields an empty table.
func ReadFile(path string, layout Layout) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("fixed-width export not found")
			return &Table{}, nil
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	table, err := Read(f, layout)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return table, nil
}

// Read slices every line of r into len(layout.Widths) trimmed fields.
//
// After SkipRows raw lines are discarded, blank lines are ignored. The first
// remaining line carries the column labels and the second is a rule line; both
// are removed from the data. Fewer than two lines, or no non-blank data row,
// yields an empty table with a nil error. A header whose label count differs
// from the number of widths is reported as domain.ErrMalformedSource.
func Read(r io.Reader, layout Layout) (*Table, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	dec, err := decoderFor(layout.Encoding)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= layout.SkipRows {
			continue
		}
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		text, err := dec.String(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "decode line %d as %s", lineNo, layout.Encoding)
		}
		lines = append(lines, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan fixed-width export")
	}

	if len(lines) < 2 {
		return &Table{}, nil
	}

	header := split(lines[0], layout.Widths)
	labels := 0
	for _, h := range header {
		if h != "" {
			labels++
		}
	}
	if labels != len(layout.Widths) {
		return nil, errors.Wrapf(domain.ErrMalformedSource,
			"header has %d labels for %d columns", labels, len(layout.Widths))
	}

	table := &Table{Columns: header}
	for _, line := range lines[2:] {
		fields := split(line, layout.Widths)
		if allBlank(fields) {
			continue
		}
		table.Rows = append(table.Rows, fields)
	}
	return table, nil
}

// split cuts line into fields by rune width. Runes past the record length are ignored.
func split(line string, widths []int) []string {
	runes := []rune(line)
	fields := make([]string, len(widths))
	start := 0
	for i, w := range widths {
		end := start + w
		if start < len(runes) {
			if end > len(runes) {
				end = len(runes)
			}
			fields[i] = strings.TrimSpace(string(runes[start:end]))
		}
		start += w
	}
	return fields
}

func allBlank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

func decoderFor(name string) (*encoding.Decoder, error) {
	if strings.TrimSpace(name) == "" {
		return encoding.Nop.NewDecoder(), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown encoding %q", name)
	}
	if enc == nil {
		// IANA names without a transformer (UTF-8 and friends) pass through.
		return encoding.Nop.NewDecoder(), nil
	}
	return enc.NewDecoder(), nil
}
