package spec

import (
	"iter"
	"slices"
)

// Record is one directory entry together with its owning stage.
type Record struct {
	StageID   string
	StageDesc string
	Dir       DirEntry
}

// Walk yields every directory entry in document order: stages in order, and
// within each stage its dirs in order. The sequence can be ranged over any
// number of times.
func Walk(s *Specification) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if s == nil {
			return
		}
		for _, stage := range s.Stages {
			for _, d := range stage.Dirs {
				if !yield(Record{StageID: stage.ID, StageDesc: stage.Desc, Dir: d}) {
					return
				}
			}
		}
	}
}

// Flatten collects Walk into a slice.
func Flatten(s *Specification) []Record {
	return slices.Collect(Walk(s))
}

// GroupByStage regroups flattened records into stages, in first-seen stage
// order. Records sharing a stage id land in the same stage.
func GroupByStage(records []Record) []Stage {
	var stages []Stage
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.StageID]
		if !ok {
			i = len(stages)
			index[r.StageID] = i
			stages = append(stages, Stage{ID: r.StageID, Desc: r.StageDesc})
		}
		stages[i].Dirs = append(stages[i].Dirs, r.Dir)
	}
	return stages
}
