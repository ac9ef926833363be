package creation

// Outcome is the classified result of one backend reply. The concrete type is
// one of *InputRejected, *NeedsConfirmation, *NeedsClarification, *Created,
// *GenerationFailed or *Unknown.
type Outcome interface {
	Status() Status
	outcome()
}

// InputRejected means the backend refused the description. The caller should
// re-prompt, optionally offering Alternatives.
type InputRejected struct {
	Stage        Stage
	Message      string
	Alternatives []string
	Suggestion   string
}

// NeedsConfirmation asks the user to confirm a detected test category. The next
// turn should carry ConfirmedTypeID.
type NeedsConfirmation struct {
	Message          string
	DetectedTypeID   int
	DetectedTypeName string
	TypeOptions      []TypeOption
	ActionButtons    []ActionButton
	OriginalQuestion string
}

// NeedsClarification asks follow-up questions. The next turn should carry the
// answers as ClarifyResponses keyed by question id.
type NeedsClarification struct {
	Message          string
	ClarifyQuestions []ClarifyQuestion
	SessionID        string
	OriginalQuestion string
	DetectedTypeID   int
}

// Created is terminal success. IsExisting is set when an existing test was
// reused instead of generating a new one.
type Created struct {
	TestID         int
	DetectedTypeID int
	IsExisting     bool
	TestInfo       *TestInfo
}

// GenerationFailed means the backend accepted the input but could not build a
// test. The caller may retry.
type GenerationFailed struct {
	Message      string
	Alternatives []string
	Suggestion   string
}

// Unknown covers any stage the client does not recognise, a missing stage, or
// a recognised stage whose required fields are absent (Reason says which).
type Unknown struct {
	Stage      Stage
	RawMessage string
	Reason     string
}

func (*InputRejected) Status() Status      { return StatusInputRejected }
func (*NeedsConfirmation) Status() Status  { return StatusNeedsConfirmation }
func (*NeedsClarification) Status() Status { return StatusNeedsClarification }
func (*Created) Status() Status            { return StatusCreated }
func (*GenerationFailed) Status() Status   { return StatusGenerationFailed }
func (*Unknown) Status() Status            { return StatusUnknown }

func (*InputRejected) outcome()      {}
func (*NeedsConfirmation) outcome()  {}
func (*NeedsClarification) outcome() {}
func (*Created) outcome()            {}
func (*GenerationFailed) outcome()   {}
func (*Unknown) outcome()            {}
