package entities

// SubstanceEntry is one row of the reference catalog: a product code and the
// active substance it contains.
type SubstanceEntry struct {
	Code          string `json:"CODIGO"`
	SubstanceName string `json:"SUSTANCIA ACTIVA"`
}
