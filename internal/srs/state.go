package srs

// State is the learning stage of a card for one learner.
type State string

const (
	New        State = "new"
	Learning   State = "learning"
	Review     State = "review"
	Relearning State = "relearning"
)

func (s State) IsValid() bool {
	switch s {
	case New, Learning, Review, Relearning:
		return true
	}
	return false
}
