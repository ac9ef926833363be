package creation

// Stage is the backend-reported phase of a creation conversation.
type Stage string

const (
	StageInputTooShort     Stage = "input_too_short"
	StageInappropriate     Stage = "inappropriate_content"
	StageVagueInput        Stage = "vague_input"
	StageInvalidInput      Stage = "invalid_input"
	StageLowContentDensity Stage = "low_content_density"
	StageNeedConfirmation  Stage = "need_confirmation"
	StageNeedClarification Stage = "need_clarification"
	StageTestCreated       Stage = "test_created"
	StageTestReused        Stage = "test_reused"
	StageGenerationError   Stage = "error_generation"
)

// Status names the outcome variant a stage maps to.
type Status string

const (
	StatusInputRejected      Status = "input_rejected"
	StatusNeedsConfirmation  Status = "needs_confirmation"
	StatusNeedsClarification Status = "needs_clarification"
	StatusCreated            Status = "created"
	StatusGenerationFailed   Status = "generation_failed"
	StatusUnknown            Status = "unknown"
)

// Status returns the outcome bucket for s. Matching is exact; anything not
// listed, including the empty stage, is StatusUnknown.
func (s Stage) Status() Status {
	switch s {
	case StageInputTooShort, StageInappropriate, StageVagueInput, StageInvalidInput, StageLowContentDensity:
		return StatusInputRejected
	case StageNeedConfirmation:
		return StatusNeedsConfirmation
	case StageNeedClarification:
		return StatusNeedsClarification
	case StageTestCreated, StageTestReused:
		return StatusCreated
	case StageGenerationError:
		return StatusGenerationFailed
	default:
		return StatusUnknown
	}
}

// Terminal reports whether no further turn is expected after this status.
func (s Status) Terminal() bool {
	return s == StatusCreated || s == StatusUnknown
}
