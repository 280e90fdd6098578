package poll

// Change describes the effect of one click.
type Change struct {
	Option int
	// Selected is the member's state for Option after the click.
	Selected bool
	// Previous is the option a single-choice click moved the member away
	// from, or -1.
	Previous int
	// Noop is set when the click did not alter state.
	Noop bool
}

// Strategy applies a click to a poll in place. Callers validate option.
type Strategy interface {
	Mode() Mode
	Apply(p *Poll, userID string, option int) Change
}

// Single keeps each member under at most one option.
type Single struct{}

func (Single) Mode() Mode { return ModeSingle }

func (Single) Apply(p *Poll, userID string, option int) Change {
	ch := Change{Option: option, Selected: true, Previous: -1}
	for i := range p.Responses {
		idx := indexOf(p.Responses[i], userID)
		if idx < 0 {
			continue
		}
		if i == option {
			ch.Noop = true
			continue
		}
		p.Responses[i] = append(p.Responses[i][:idx], p.Responses[i][idx+1:]...)
		ch.Previous = i
	}
	if !ch.Noop {
		p.Responses[option] = append(p.Responses[option], userID)
	} else if ch.Previous >= 0 {
		// Repairs a record that somehow held the member twice.
		ch.Noop = false
	}
	return ch
}

// Multi toggles membership of the clicked option only.
type Multi struct{}

func (Multi) Mode() Mode { return ModeMulti }

func (Multi) Apply(p *Poll, userID string, option int) Change {
	ch := Change{Option: option, Previous: -1}
	if idx := indexOf(p.Responses[option], userID); idx >= 0 {
		p.Responses[option] = append(p.Responses[option][:idx], p.Responses[option][idx+1:]...)
		return ch
	}
	p.Responses[option] = append(p.Responses[option], userID)
	ch.Selected = true
	return ch
}
