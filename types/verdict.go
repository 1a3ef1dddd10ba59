package types

// Stage is where the sandwich decision pipeline stopped.
type Stage int

const (
	StageInsufficientData Stage = iota // fewer transactions than a sandwich needs
	StageNoVictim                      // no swap-flagged transaction in the cluster
	StageUnmatched                     // no distinct front-run/back-run pair around the victim
	StageEvaluated                     // all three conditions were evaluated
)

func (s Stage) String() string {
	switch s {
	case StageInsufficientData:
		return "insufficient-data"
	case StageNoVictim:
		return "no-victim"
	case StageUnmatched:
		return "unmatched"
	case StageEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// Verdict explains a sandwich decision. Transactions are copies of the input records.
type Verdict struct {
	Stage Stage `json:"stage"`

	Victim   *Transaction `json:"victim,omitempty"`
	FrontRun *Transaction `json:"frontRun,omitempty"`
	BackRun  *Transaction `json:"backRun,omitempty"`

	SameSender   bool `json:"sameSender"`   // front-run and back-run sent by the same attacker
	WithinWindow bool `json:"withinWindow"` // front-run and back-run are close enough in time
	HighSlippage bool `json:"highSlippage"` // victim tolerates enough slippage to be exploitable

	Sandwich bool `json:"sandwich"`
}

// Attacker returns the sender of the front-run, or "" when no sandwich was found.
func (v Verdict) Attacker() string {
	if !v.Sandwich || v.FrontRun == nil {
		return ""
	}
	return v.FrontRun.Sender
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
