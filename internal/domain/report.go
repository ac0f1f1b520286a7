package domain

// Action is what the reconciler decided for one target.
type Action int

const (
	ActionNone Action = iota
	ActionRaise
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionRaise:
		return "raise_alert"
	case ActionClear:
		return "clear_alert"
	default:
		return "none"
	}
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Action) UnmarshalText(b []byte) error {
	switch string(b) {
	case "raise_alert":
		*a = ActionRaise
	case "clear_alert":
		*a = ActionClear
	default:
		*a = ActionNone
	}
	return nil
}

// EvaluationRecord is the per-target output of a run.
type EvaluationRecord struct {
	URL         string      `json:"url"`
	Probe       ProbeResult `json:"status"`
	FlagExisted bool        `json:"flag_exists"`
	Action      Action      `json:"action"`
	Notified    bool        `json:"notified,omitempty"`
	Err         string      `json:"error,omitempty"`
}

// RunReport aggregates one full pass over the configured targets.
// OK is false only when a precondition stopped the run before any target
// was processed; per-target failures live on the records.
type RunReport struct {
	OK      bool               `json:"ok"`
	Message string             `json:"message"`
	Results []EvaluationRecord `json:"results"`
}

// StatusCode maps the report onto the trigger surface: 500 for a run that
// never started, 200 otherwise.
func (r RunReport) StatusCode() int {
	if !r.OK {
		return 500
	}
	return 200
}
