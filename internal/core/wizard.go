package core

// WizardStep is the position in a two-step entry form.
type WizardStep int

const (
	StepEntry WizardStep = iota
	StepConfirm
)

func (s WizardStep) String() string {
	switch s {
	case StepEntry:
		return "entry"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Next advances entry → confirm. Confirm is terminal.
func (s WizardStep) Next() WizardStep {
	if s == StepEntry {
		return StepConfirm
	}
	return s
}

// Back returns confirm → entry. Entry stays put.
func (s WizardStep) Back() WizardStep {
	if s == StepConfirm {
		return StepEntry
	}
	return s
}
