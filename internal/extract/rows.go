// Package extract locates accepted-load bid rows in captured HTML snapshots
// and converts them to canonical records. The hosting page's structure is
// externally controlled, so row discovery degrades through an ordered chain
// of strategies and extraction never fails hard: malformed rows are skipped,
// malformed fields become nil.
package extract

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/WillyAmmm/Quote-Logger/internal/normalize"
	"github.com/WillyAmmm/Quote-Logger/internal/record"
)

// Selectors for the load-bidding table. The jsn attribute is the page's own
// per-cell field tagging scheme and is the most stable anchor available.
const (
	selBidRows      = `tr[path*="/DATA/AcceptedLoads/FreightAuctionCarrierBid"]`
	selContainer    = `#acceptedLoadsTable`
	selContainerPfx = `[id^="acceptedLoadsTable"]`
	selAnchorCell   = `[id^="acceptedLoadsTable_"]`
	selGenericRows  = `tr.row, tr[class*="row"]`
	selScopedRows   = `tr[path*="AcceptedLoads"], tr.row, tr[class*="row"]`
)

// findRows runs the discovery chain against one document. Each strategy is
// tried only when the previous one found nothing, so the extractor keeps
// working as long as any recognizable anchor remains in the page.
func findRows(doc *goquery.Document) *goquery.Selection {
	// Exact structural match on the bid schema path.
	rows := doc.Find(selBidRows)
	if rows.Length() > 0 {
		return rows
	}

	// Known container by id, exact then prefix, taking its generic rows.
	container := doc.Find(selContainer).First()
	if container.Length() == 0 {
		container = doc.Find(selContainerPfx).First()
	}
	if container.Length() > 0 {
		rows = container.Find(selGenericRows)
		if rows.Length() > 0 {
			return rows
		}
	}

	// Any cell with the expected id prefix: walk up to the enclosing table
	// (or search the whole document) and retry the earlier patterns there.
	anchor := doc.Find(selAnchorCell).First()
	if anchor.Length() > 0 {
		scope := anchor.Closest("table")
		if scope.Length() > 0 {
			rows = scope.Find(selScopedRows)
		} else {
			rows = doc.Find(selScopedRows)
		}
		if rows.Length() > 0 {
			return rows
		}
	}

	// All strategies exhausted; rows is an empty selection here.
	return rows
}

// fieldText returns the trimmed text of the cell tagged with the given jsn
// field key within a row. Non-breaking spaces are normalized to plain spaces.
func fieldText(row *goquery.Selection, key string) string {
	return cleanText(row.Find(`[jsn="` + key + `"]`).First().Text())
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// Extract returns canonical records for every valid bid row in the document,
// preserving document order. It never panics and never returns an error: a
// snapshot with no recognizable rows yields an empty slice.
func Extract(doc *goquery.Document) []record.Record {
	records := []record.Record{}
	if doc == nil {
		return records
	}

	findRows(doc).Each(func(_ int, row *goquery.Selection) {
		// Rows without an ExternalLoadID are partial renders or padding;
		// drop them before parsing anything else.
		loadID := fieldText(row, "ExternalLoadID")
		if loadID == "" {
			loadID = cleanText(row.Find("#ExternalLoadID").First().Text())
		}
		if loadID == "" {
			return
		}

		rawTS := fieldText(row, "BidActionDateTime")
		statusText := fieldText(row, "BidResponseEnumVal")
		if statusText == "" {
			statusText = fieldText(row, "BidActionEnumVal")
		}

		rec := record.Record{
			LoadID:       loadID,
			Rate:         normalize.ParseAmount(fieldText(row, "RateAdjustmentAmount")),
			EventDate:    normalize.ParseCalendarDate(rawTS),
			RawTimestamp: rawTS,
			Status:       normalize.MapStatus(statusText),
			PickupDate:   normalize.ParseCalendarDate(fieldText(row, "ScheduledPickupDateTime")),
			DeliveryDate: normalize.ParseCalendarDate(fieldText(row, "LoadEndDateTime")),
			Equipment:    normalize.MapEquipment(fieldText(row, "EquipmentTypeDescription")),
			Weight:       normalize.ParseAmount(fieldText(row, "TotalScaledWeight")),
			Miles:        normalize.ParseAmount(fieldText(row, "TotalDistance")),
			Stops:        stopCount(fieldText(row, "InTransitStops")),
			OriginCity:   fieldText(row, "OriginCityName"),
			OriginState:  fieldText(row, "OriginStateCode"),
			DestCity:     fieldText(row, "DestinationCityName"),
			DestState:    fieldText(row, "DestinationStateCode"),
		}
		records = append(records, rec)
	})

	return records
}

// stopCount derives the total stop count from the intermediate-stop cell:
// origin and destination legs add two. Nil when the cell is unparseable.
func stopCount(text string) *int {
	n := normalize.ParseAmount(text)
	if n == nil {
		return nil
	}
	stops := int(math.Round(*n)) + 2
	return &stops
}
