package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type AgentResult struct {
	Games   int
	Wins    int
	WinRate float64
}

type Summary struct {
	Games         int
	MeanAtomics   float64
	StdDevAtomics float64
	MedianAtomics float64
	TurnLimitRate float64
	AlphaWinRate  float64
	BetaWinRate   float64
	Agents        map[int]AgentResult // By AgentConfig.ID
}

// Summarize computes game length statistics and win rates. Games that hit
// the turn limit count as played but won by nobody.
func Summarize(records []GameRecord) Summary {
	summary := Summary{Games: len(records), Agents: map[int]AgentResult{}}
	if len(records) == 0 {
		return summary
	}

	lengths := make([]float64, len(records))
	var alphaWins, betaWins, limits int
	for i, record := range records {
		lengths[i] = float64(record.TotalAtomics)
		summary.played(record.Alpha)
		if record.Beta != record.Alpha {
			summary.played(record.Beta)
		}
		switch record.Winner {
		case "alpha":
			alphaWins++
			summary.won(record.Alpha)
		case "beta":
			betaWins++
			summary.won(record.Beta)
		}
		if record.HitTurnLimit {
			limits++
		}
	}

	summary.MeanAtomics, summary.StdDevAtomics = stat.MeanStdDev(lengths, nil)
	if len(lengths) == 1 {
		summary.StdDevAtomics = 0
	}
	sort.Float64s(lengths)
	summary.MedianAtomics = stat.Quantile(0.5, stat.Empirical, lengths, nil)

	n := float64(len(records))
	summary.AlphaWinRate = float64(alphaWins) / n
	summary.BetaWinRate = float64(betaWins) / n
	summary.TurnLimitRate = float64(limits) / n
	for id, result := range summary.Agents {
		result.WinRate = float64(result.Wins) / float64(result.Games)
		summary.Agents[id] = result
	}
	return summary
}

func (s *Summary) played(id int) {
	result := s.Agents[id]
	result.Games++
	s.Agents[id] = result
}

func (s *Summary) won(id int) {
	result := s.Agents[id]
	result.Wins++
	s.Agents[id] = result
}
