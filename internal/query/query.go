// Package query applies the recent-loads filters, ranks by recency, bounds
// the display window, and computes win-rate statistics over the filtered
// population.
package query

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/WillyAmmm/Quote-Logger/internal/normalize"
	"github.com/WillyAmmm/Quote-Logger/internal/record"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
)

// DefaultWindow is the trailing period for the short-horizon win rate.
const DefaultWindow = 30 * 24 * time.Hour

// Filters is a conjunction of optional exact-match constraints. Empty
// dimensions are unconstrained; matching is case-sensitive string equality.
type Filters struct {
	Customer  string `json:"customer"`
	Origin    string `json:"origin"`
	Dest      string `json:"dest"`
	Equipment string `json:"equipment"`
}

// Empty reports whether no dimension is constrained.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// Apply returns the rows passing every non-empty filter dimension.
func Apply(rows []sink.Row, f Filters) []sink.Row {
	if f.Empty() {
		return rows
	}
	out := make([]sink.Row, 0, len(rows))
	for _, r := range rows {
		if f.Customer != "" && r.Customer != f.Customer {
			continue
		}
		if f.Origin != "" && r.OriginState != f.Origin {
			continue
		}
		if f.Dest != "" && r.DestState != f.Dest {
			continue
		}
		if f.Equipment != "" && r.Equipment != f.Equipment {
			continue
		}
		out = append(out, r)
	}
	return out
}

// EffectiveTime is the ranking instant for a row: the timestamp text when it
// parses, else the coarser date field, else the epoch (so unparseable rows
// sink to the bottom of a descending sort).
func EffectiveTime(r sink.Row) time.Time {
	if t, ok := normalize.ParseTimestamp(r.Timestamp); ok {
		return t
	}
	if t, ok := normalize.ParseTimestamp(r.Date); ok {
		return t
	}
	return time.Unix(0, 0)
}

// Rank sorts rows descending by effective timestamp. The sort is stable so
// ties keep their original order.
func Rank(rows []sink.Row) []sink.Row {
	out := make([]sink.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return EffectiveTime(out[i]).After(EffectiveTime(out[j]))
	})
	return out
}

// Top bounds a ranked result to its first n rows.
func Top(rows []sink.Row, n int) []sink.Row {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// WinRate summarizes decided bids: totals over the whole input and over the
// trailing window ending at the evaluation instant.
type WinRate struct {
	Pct    int `json:"pct"`
	Pct30  int `json:"pct30"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
	Won30  int `json:"won30"`
	Lost30 int `json:"lost30"`
}

// pct is the rounded percentage of wins among outcomes, 0 when there are
// none. Outcomes are win indicators (1 won, 0 lost).
func pct(outcomes []float64) int {
	if len(outcomes) == 0 {
		return 0
	}
	return int(math.Round(stat.Mean(outcomes, nil) * 100))
}

// ComputeWinRate computes win rates over rows. Only Won and Lost rows enter
// the denominators; Pending and Ended are excluded entirely rather than
// counted as losses. Callers pass the full filtered set, never a truncated
// display window.
func ComputeWinRate(rows []sink.Row, now time.Time, window time.Duration) WinRate {
	var wr WinRate
	outcomes := []float64{}
	recent := []float64{}

	for _, r := range rows {
		var win float64
		switch record.Status(r.Status) {
		case record.StatusWon:
			win = 1
			wr.Won++
		case record.StatusLost:
			wr.Lost++
		default:
			continue
		}
		outcomes = append(outcomes, win)

		if now.Sub(EffectiveTime(r)) <= window {
			recent = append(recent, win)
			if win == 1 {
				wr.Won30++
			} else {
				wr.Lost30++
			}
		}
	}

	wr.Pct = pct(outcomes)
	wr.Pct30 = pct(recent)
	return wr
}
