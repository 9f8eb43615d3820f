package draft

// Phase is the abstract conversation flow, independent of the MSI
// clarification wrinkle. It exists alongside the string-tagged DraftState so
// the generic flow can be reasoned about and tested on its own.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseParsed
	PhaseSelectMethod
	PhaseConfirmation
)

// Event drives the abstract machine.
type Event int

const (
	EventParseOK Event = iota
	EventRequestMethod
	EventMethodSelected
	EventConfirm
	EventEdit
	EventCancel
)

// Next returns the phase after an event. Events that are not meaningful in
// the current phase are no-ops: the phase is returned unchanged. That is the
// contract, not an error.
func Next(p Phase, e Event) Phase {
	switch e {
	case EventCancel:
		return PhaseIdle
	case EventParseOK:
		if p == PhaseIdle {
			return PhaseParsed
		}
	case EventRequestMethod:
		if p == PhaseParsed {
			return PhaseSelectMethod
		}
	case EventMethodSelected:
		if p == PhaseSelectMethod {
			return PhaseConfirmation
		}
	case EventConfirm:
		if p == PhaseConfirmation {
			return PhaseIdle
		}
	case EventEdit:
		if p == PhaseSelectMethod || p == PhaseConfirmation {
			return PhaseParsed
		}
	}
	return p
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseParsed:
		return "parsed"
	case PhaseSelectMethod:
		return "select_method"
	case PhaseConfirmation:
		return "confirmation"
	}
	return "unknown"
}
