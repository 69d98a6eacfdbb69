// Package record defines the canonical freight-load record produced by
// extraction and consumed by the sync and search layers.
package record

// Status is the bid outcome for a load.
type Status string

const (
	StatusPending Status = "Pending"
	StatusWon     Status = "Won"
	StatusLost    Status = "Lost"
	StatusEnded   Status = "Ended"
)

// Equipment is the normalized equipment class for a load.
type Equipment string

const (
	EquipmentDryVan    Equipment = "Dry Van"
	EquipmentConestoga Equipment = "Conestoga"
	EquipmentStepDeck  Equipment = "Step Deck"
	EquipmentFlatbed   Equipment = "Flatbed"
	EquipmentReefer    Equipment = "Reefer"
	EquipmentRGNDD     Equipment = "RGN/DD"
	EquipmentOversized Equipment = "Oversized"
	EquipmentOther     Equipment = "Other"
)

// Record is one normalized load row. Numeric and date fields that failed to
// parse are nil/empty, never sentinel values. Dates are local-calendar
// YYYY-MM-DD strings; RawTimestamp keeps the source's original text for
// display and fallback ordering.
type Record struct {
	LoadID       string
	Rate         *float64
	EventDate    string
	RawTimestamp string
	Status       Status
	PickupDate   string
	DeliveryDate string
	Equipment    Equipment
	Weight       *float64
	Miles        *float64
	Stops        *int
	OriginCity   string
	OriginState  string
	DestCity     string
	DestState    string
}

// Valid reports whether the record may enter the model. LoadID is the unique
// key; rows without one are garbage and must be dropped before parsing.
func (r Record) Valid() bool {
	return r.LoadID != ""
}

// Dedupe collapses records sharing a LoadID, first-seen wins. Input order is
// preserved for the surviving records, so callers control precedence by
// ordering their inputs deterministically.
func Dedupe(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.LoadID == "" || seen[r.LoadID] {
			continue
		}
		seen[r.LoadID] = true
		out = append(out, r)
	}
	return out
}
