package domain

import (
	"math"
	"sort"
	"time"
)

// ResultRow is the aggregated vote count for one option
type ResultRow struct {
	OptionID   int64  `json:"opcionId"`
	OptionName string `json:"nombre"`
	Votes      int64  `json:"votos"`
}

// RankedRow is a result row with its computed share of the total
type RankedRow struct {
	ResultRow
	Percentage int
}

// ResultSummary holds the rows of one poll ordered by votes descending
type ResultSummary struct {
	Rows       []RankedRow
	TotalVotes int64
}

// Summarize computes the total and per-row percentages and orders the rows
// by votes descending. Percentages are round(votes*100/total); with zero
// total every percentage is zero.
func Summarize(rows []ResultRow) ResultSummary {
	var total int64
	for _, r := range rows {
		total += r.Votes
	}

	ranked := make([]RankedRow, 0, len(rows))
	for _, r := range rows {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(r.Votes) * 100 / float64(total)))
		}
		ranked = append(ranked, RankedRow{ResultRow: r, Percentage: pct})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	return ResultSummary{Rows: ranked, TotalVotes: total}
}

// VoteAck is the backend's acknowledgement of a recorded vote
type VoteAck struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"usuarioId"`
	PollID    int64      `json:"encuestaId"`
	OptionID  int64      `json:"opcionId"`
	CreatedAt *time.Time `json:"creadoEn,omitempty"`
}
