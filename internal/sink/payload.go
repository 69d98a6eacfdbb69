// Package sink talks to the remote quote-log endpoint. The sink accepts a
// single POST shape {rows: [...]} holding either full records (first sync) or
// minimal patches (edits), distinguishing the two by field presence, and a
// GET returning the stored rows for one team.
package sink

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/WillyAmmm/Quote-Logger/internal/record"
)

// Text is a string-typed field that the sink may return as a string, a
// number, or null. Edits compare and transmit these fields as raw text to
// avoid lossy round-tripping before the sink re-parses them.
type Text string

// UnmarshalJSON accepts string, number, and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*t = ""
	case len(s) >= 2 && s[0] == '"':
		var str string
		if err := sonic.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = Text(str)
	default:
		var n float64
		if err := sonic.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("field is neither string nor number: %s", s)
		}
		*t = Text(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

// Row is one stored quote-log row as the sink returns it. JSON keys follow
// the sink's spreadsheet-style column names.
type Row struct {
	Date         string `json:"Date"`
	Team         string `json:"Team"`
	Customer     string `json:"Customer"`
	LoadID       string `json:"LoadID"`
	Timestamp    string `json:"Timestamp"`
	OriginCity   string `json:"Origin City"`
	OriginState  string `json:"Origin State"`
	DestCity     string `json:"Destination City"`
	DestState    string `json:"Destination State"`
	Equipment    string `json:"Equipment Type"`
	Stops        Text   `json:"Stops"`
	Miles        Text   `json:"Miles"`
	Weight       Text   `json:"Weight"`
	PickupDate   string `json:"Pickup Date"`
	DeliveryDate string `json:"Delivery Date"`
	Rate         Text   `json:"Rate"`
	Notes        string `json:"Notes"`
	Status       string `json:"Status"`
}

// Patch is a minimal update for one row: identity fields plus only what
// changed. Rate travels as raw text.
type Patch struct {
	LoadID   string  `json:"LoadID"`
	Team     string  `json:"Team"`
	Customer string  `json:"Customer"`
	Status   *string `json:"Status,omitempty"`
	Rate     *string `json:"Rate,omitempty"`
	Notes    *string `json:"Notes,omitempty"`
}

// Dirty reports whether the patch carries any changed field.
func (p Patch) Dirty() bool {
	return p.Status != nil || p.Rate != nil || p.Notes != nil
}

// SyncResult is the sink's response to a push.
type SyncResult struct {
	Result        string `json:"result"`
	Added         int    `json:"added"`
	StatusUpdates int    `json:"statusUpdates"`
	RateChanges   int    `json:"rateChanges"`
}

func amountText(v *float64) Text {
	if v == nil {
		return ""
	}
	return Text(strconv.FormatFloat(*v, 'f', -1, 64))
}

// FullRow converts a canonical record to the sink's first-sync shape. A
// record with no event date is stamped with today's local date; nil numerics
// become empty cells rather than zeroes.
func FullRow(rec record.Record, team, customer string, now time.Time) Row {
	date := rec.EventDate
	if date == "" {
		date = now.Format("2006-01-02")
	}

	stops := Text("")
	if rec.Stops != nil {
		stops = Text(strconv.Itoa(*rec.Stops))
	}

	return Row{
		Date:         date,
		Team:         team,
		Customer:     customer,
		LoadID:       rec.LoadID,
		Timestamp:    rec.RawTimestamp,
		OriginCity:   rec.OriginCity,
		OriginState:  rec.OriginState,
		DestCity:     rec.DestCity,
		DestState:    rec.DestState,
		Equipment:    string(rec.Equipment),
		Stops:        stops,
		Miles:        amountText(rec.Miles),
		Weight:       amountText(rec.Weight),
		PickupDate:   rec.PickupDate,
		DeliveryDate: rec.DeliveryDate,
		Rate:         amountText(rec.Rate),
		Notes:        "",
		Status:       string(rec.Status),
	}
}
