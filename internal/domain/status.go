package domain

const (
	LabelYes = "Sim"
	LabelNo  = "Não"
)

// CoverageLabel renders the "can cover from domestic excess" flag the way the
// purchasing team reads it.
func CoverageLabel(covered bool) string {
	if covered {
		return LabelYes
	}
	return LabelNo
}
