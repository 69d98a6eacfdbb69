// Package changeset diffs an edited recent-loads view against the snapshot
// captured when the view was rendered, producing minimal patches for the
// sink. The collector is a pure function of the (snapshot, edits) pair.
package changeset

import (
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

// Edit is the user-visible mutable slice of one rendered row. RateText is
// the raw input text, compared and transmitted untouched so the sink's own
// parsing is the only parsing that happens.
type Edit struct {
	Status   string `json:"status"`
	RateText string `json:"rate"`
	Notes    string `json:"notes"`
}

// Collect diffs edits against the snapshot one-to-one by position and
// returns a patch per dirty row. Clean rows emit nothing; edits beyond the
// snapshot are ignored. Identity fields (LoadID, Team, Customer) always ride
// along so the sink can disambiguate.
func Collect(snapshot []sink.Row, edits []Edit) []sink.Patch {
	patches := []sink.Patch{}

	for i, edit := range edits {
		if i >= len(snapshot) {
			break
		}
		orig := snapshot[i]

		patch := sink.Patch{
			LoadID:   orig.LoadID,
			Team:     orig.Team,
			Customer: orig.Customer,
		}
		if edit.Status != orig.Status {
			status := edit.Status
			patch.Status = &status
		}
		if edit.RateText != string(orig.Rate) {
			rate := edit.RateText
			patch.Rate = &rate
		}
		if edit.Notes != orig.Notes {
			notes := edit.Notes
			patch.Notes = &notes
		}
		if patch.Dirty() {
			patches = append(patches, patch)
		}
	}

	return patches
}
