package behavior

// State pairs a message handler with a human readable name. States are
// immutable once registered and owned by exactly one [Behavior] registry.
type State struct {
	name    string
	receive Receive
}

// Name returns the state's registry name.
func (s *State) Name() string { return s.name }
