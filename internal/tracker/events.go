package tracker

import "github.com/verte-zerg/wordpace/internal/model"

// Event is one of DocumentChanged, PeriodRequested or GoalChanged.
type Event interface {
	isEvent()
}

// DocumentChanged reports an edit or save of a document. Unsaved carries
// the editor buffer of the active document; nil means the saved text is
// current.
type DocumentChanged struct {
	Path    string
	Unsaved *string
}

// PeriodRequested selects the week or month to browse. Anchor is
// "current" or a date key inside the wanted period.
type PeriodRequested struct {
	Kind   model.PeriodKind
	Anchor string
}

// GoalChanged updates the goals that are set.
type GoalChanged struct {
	Daily   *int
	Weekly  *int
	Monthly *int
	Session *int
}

func (DocumentChanged) isEvent() {}
func (PeriodRequested) isEvent() {}
func (GoalChanged) isEvent() {}
