package session

// Phase is the stage of a session.
type Phase int

const (
	// PhaseSelect waits for a single image to be selected and created.
	PhaseSelect Phase = iota
	// PhaseEdit shows the editor.
	PhaseEdit
)

func (p Phase) String() string {
	switch p {
	case PhaseSelect:
		return "select"
	case PhaseEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// State is a snapshot of a session. Transitions are pure functions that
// take a state and return the next one.
type State struct {
	Phase     Phase
	Ref       ImageRef // selected image, empty unless exactly one
	Loading   bool
	CanCreate bool
	// Multiple is set while more than one element is selected.
	Multiple bool
	// Guidance is the message to show in the selection phase.
	Guidance string
}

// SelectionChanged applies a selection event. Exactly one element enables
// creation; none or several disable it and set a guidance message.
func SelectionChanged(s State, ev SelectionEvent) State {
	switch len(ev.Elements) {
	case 1:
		s.Ref = ev.Elements[0]
		s.Multiple = false
		s.CanCreate = s.Ref != ""
	case 0:
		s.Ref = ""
		s.Multiple = false
		s.CanCreate = false
	default:
		s.Ref = ""
		s.Multiple = true
		s.CanCreate = false
	}
	return s.withGuidance()
}

func (s State) withGuidance() State {
	if s.Multiple {
		s.Guidance = MsgMultipleSelected
	} else {
		s.Guidance = MsgSelectElement
	}
	return s
}

// StartLoading marks a load in progress.
func StartLoading(s State) State {
	s.Loading = true
	return s
}

// LoadSucceeded enters edit mode.
func LoadSucceeded(s State) State {
	s.Loading = false
	s.Phase = PhaseEdit
	return s
}

// LoadFailed returns to the selection phase, keeping the selection so
// the user can try again.
func LoadFailed(s State) State {
	s.Loading = false
	s.Phase = PhaseSelect
	return s
}

// Exited leaves edit mode and drops any pending load.
func Exited(s State) State {
	s.Loading = false
	s.Phase = PhaseSelect
	return s
}
