package engine

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a search result
type Stats struct {
	Nodes      int     // Tree nodes, root excluded
	Leaves     int     // Explored sequences
	MinEval    int     // Lowest leaf evaluation
	MaxEval    int     // Highest leaf evaluation
	MeanEval   float64 // Mean leaf evaluation
	StdDevEval float64 // Sample standard deviation of leaf evaluations
}

// Summarize computes node counts and leaf evaluation statistics
func Summarize(result *SearchResult) Stats {
	if result == nil || result.Tree == nil {
		return Stats{}
	}
	s := Stats{
		Nodes:  result.Tree.Len() - 1,
		Leaves: len(result.Leaves),
	}
	if len(result.Leaves) == 0 {
		return s
	}

	evals := make([]float64, len(result.Leaves))
	for i, l := range result.Leaves {
		evals[i] = float64(l.Eval)
	}
	s.MinEval = int(floats.Min(evals))
	s.MaxEval = int(floats.Max(evals))
	if len(evals) == 1 {
		s.MeanEval = evals[0]
		return s
	}
	s.MeanEval, s.StdDevEval = stat.MeanStdDev(evals, nil)
	return s
}
