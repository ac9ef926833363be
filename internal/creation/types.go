package creation

// Request is one turn sent to the test-creation endpoint.
type Request struct {
	Description      string            `json:"description"`
	ConfirmedTypeID  *int              `json:"confirmed_type_id,omitempty"`
	SessionID        string            `json:"session_id,omitempty"`
	ClarifyResponses map[string]string `json:"clarify_responses,omitempty"`
}

// Response is the envelope returned by the backend. Code 200 means the call
// itself succeeded; the conversation phase is carried by Data.Stage.
type Response struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    *ResponseData `json:"data,omitempty"`
}

// ResponseData holds every field any stage may populate.
type ResponseData struct {
	Message          string            `json:"message,omitempty"`
	Alternatives     []string          `json:"alternatives,omitempty"`
	Suggestion       string            `json:"suggestion,omitempty"`
	Stage            string            `json:"stage,omitempty"`
	DetectedTypeID   int               `json:"detected_type_id,omitempty"`
	DetectedTypeName string            `json:"detected_type_name,omitempty"`
	TypeOptions      []TypeOption      `json:"type_options,omitempty"`
	ClarifyQuestions []ClarifyQuestion `json:"clarify_questions,omitempty"`
	SessionID        string            `json:"session_id,omitempty"`
	OriginalQuestion string            `json:"original_question,omitempty"`
	ActionButtons    []ActionButton    `json:"action_buttons,omitempty"`
	TestID           int               `json:"test_id,omitempty"`
	IsExisting       bool              `json:"is_existing,omitempty"`
	TestInfo         *TestInfo         `json:"test_info,omitempty"`
}

// TypeOption is a test category the user can confirm.
type TypeOption struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Recommended bool   `json:"recommended"`
	Desc        string `json:"desc"`
}

// ClarifyQuestion is a follow-up prompt. Options is set for choice questions.
type ClarifyQuestion struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
}

// ActionButton is a backend-suggested action attached to a confirmation.
type ActionButton struct {
	Text   string `json:"text"`
	Action string `json:"action"`
	TypeID *int   `json:"type_id,omitempty"`
}

// TestInfo describes a created or reused test.
type TestInfo struct {
	ID            int     `json:"id"`
	TypeID        int     `json:"type_id"`
	TypeName      string  `json:"type_name"`
	Name          string  `json:"name"`
	Desc          string  `json:"desc"`
	QuestionCount int     `json:"question_count"`
	AnswerTime    int     `json:"answer_time"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Image         string  `json:"image"`
}
