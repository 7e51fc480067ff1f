package excel

import "adspend/domain/dataset"

// HeaderCheck reports what the header row holds at one mapped column
type HeaderCheck struct {
	Letter   string            `json:"letter"`
	Field    string            `json:"field"`
	Kind     dataset.FieldKind `json:"kind"`
	Expected string            `json:"expected"`
	Found    string            `json:"found"`
	InRange  bool              `json:"in_range"`
}

// Matches reports whether the header text is the one the layout expects
func (p HeaderCheck) Matches() bool {
	return p.InRange && p.Found == p.Expected
}

// Usable reports whether the column would load
func (p HeaderCheck) Usable() bool {
	return p.InRange && p.Found != ""
}
