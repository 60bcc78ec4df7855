package purchase

import (
	"strconv"
	"strings"
)

// FormatAction renders "qty unit - name" for a positive quantity and "" otherwise.
// The template is literal: an empty unit leaves two spaces before the dash.
func FormatAction(qty int, unit, name string) string {
	if qty <= 0 {
		return ""
	}
	return strconv.Itoa(qty) + " " + strings.TrimSpace(unit) + " - " + name
}

// FormatUnitlessAction renders "qty - name" for sources that carry no unit,
// such as the Informes spreadsheet.
func FormatUnitlessAction(qty int, name string) string {
	if qty <= 0 {
		return ""
	}
	return strconv.Itoa(qty) + " - " + name
}
