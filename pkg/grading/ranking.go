package grading

import (
	"fmt"
	"sort"
)

// PeerRecord is one student's semester result in a historical cohort.
type PeerRecord struct {
	GPA4    float64 `json:"gpa4" db:"gpa4"`
	Credits int     `json:"credits" db:"credits"`
	DRL     int     `json:"drl" db:"drl"`
}

// GapDimension names the single metric reported by a rank gap.
type GapDimension string

const (
	GapGPA4      GapDimension = "GPA4"
	GapCredits   GapDimension = "CREDITS"
	GapDRL       GapDimension = "DRL"
	GapSecondary GapDimension = "SECONDARY"
)

// RankGap is how far the student trails the peer ranked immediately above.
type RankGap struct {
	Dimension GapDimension `json:"dimension"`
	Amount    float64      `json:"amount"`
	Message   string       `json:"message"`
}

// RankForecast places a student inside a cohort. Gap is nil for the top rank.
type RankForecast struct {
	Rank          int      `json:"rank"`
	TotalStudents int      `json:"total_students"`
	Percentile    float64  `json:"percentile"`
	Gap           *RankGap `json:"gap,omitempty"`
}

type rankEntry struct {
	PeerRecord
	self bool
}

// ranksAbove orders by gpa4, then credits, then drl, all descending.
func ranksAbove(a, b PeerRecord) bool {
	if a.GPA4 != b.GPA4 {
		return a.GPA4 > b.GPA4
	}
	if a.Credits != b.Credits {
		return a.Credits > b.Credits
	}
	return a.DRL > b.DRL
}

// ForecastRank inserts user into cohort and reports its 1-based rank. Peers tied with the
// user on all three keys keep their place ahead of it because the sort is stable and the
// user is appended last.
func ForecastRank(user PeerRecord, cohort []PeerRecord) RankForecast {
	entries := make([]rankEntry, 0, len(cohort)+1)
	for _, peer := range cohort {
		entries = append(entries, rankEntry{PeerRecord: peer})
	}
	entries = append(entries, rankEntry{PeerRecord: user, self: true})

	sort.SliceStable(entries, func(i, j int) bool {
		return ranksAbove(entries[i].PeerRecord, entries[j].PeerRecord)
	})

	pos := 0
	for i, e := range entries {
		if e.self {
			pos = i
			break
		}
	}

	total := len(entries)
	forecast := RankForecast{
		Rank:          pos + 1,
		TotalStudents: total,
		Percentile:    float64(pos+1) / float64(total) * 100,
	}
	if pos > 0 {
		gap := gapTo(user, entries[pos-1].PeerRecord)
		forecast.Gap = &gap
	}
	return forecast
}

// gapTo reports the first dimension, in ranking priority, on which next leads user.
func gapTo(user, next PeerRecord) RankGap {
	if next.GPA4 > user.GPA4 {
		delta := roundTo(next.GPA4-user.GPA4, 2)
		return RankGap{Dimension: GapGPA4, Amount: delta, Message: fmt.Sprintf("need +%.2f GPA (4-point) to pass the next student", delta)}
	}
	if next.Credits > user.Credits {
		delta := next.Credits - user.Credits
		return RankGap{Dimension: GapCredits, Amount: float64(delta), Message: fmt.Sprintf("need +%d credits to pass the next student", delta)}
	}
	if next.DRL > user.DRL {
		delta := next.DRL - user.DRL
		return RankGap{Dimension: GapDRL, Amount: float64(delta), Message: fmt.Sprintf("need +%d training points to pass the next student", delta)}
	}
	return RankGap{Dimension: GapSecondary, Message: "tied with the next student; improve any secondary metric to move ahead"}
}
