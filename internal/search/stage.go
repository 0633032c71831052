package search

// Stage identifies one attempt in the staged match fallback. A query walks
// Primary (similarity 0.15) to Relaxed (similarity 0.10) to Substring
// (plain ILIKE token matching) until a stage yields candidates.
type Stage int

const (
	StagePrimary Stage = iota
	StageRelaxed
	StageSubstring
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePrimary:
		return "primary"
	case StageRelaxed:
		return "relaxed"
	case StageSubstring:
		return "substring"
	default:
		return "done"
	}
}

// NextStage is the transition function of the fallback machine. A failed
// fuzzy stage abandons relevance matching entirely and drops to the
// substring path; an empty fuzzy stage advances to the next attempt. The
// substring stage is terminal either way.
func NextStage(current Stage, resultCount int, failed bool) Stage {
	switch current {
	case StagePrimary:
		if failed {
			return StageSubstring
		}
		if resultCount == 0 {
			return StageRelaxed
		}
		return StageDone
	case StageRelaxed:
		if failed || resultCount == 0 {
			return StageSubstring
		}
		return StageDone
	default:
		return StageDone
	}
}
