package creation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageStatus(t *testing.T) {
	tests := []struct {
		stage Stage
		want  Status
	}{
		{"input_too_short", StatusInputRejected},
		{"inappropriate_content", StatusInputRejected},
		{"vague_input", StatusInputRejected},
		{"invalid_input", StatusInputRejected},
		{"low_content_density", StatusInputRejected},
		{"need_confirmation", StatusNeedsConfirmation},
		{"need_clarification", StatusNeedsClarification},
		{"test_created", StatusCreated},
		{"test_reused", StatusCreated},
		{"error_generation", StatusGenerationFailed},
		{"", StatusUnknown},
		{"TEST_CREATED", StatusUnknown},
		{"need_confirmation ", StatusUnknown},
		{"payment_required", StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stage.Status())
		})
	}
}

func TestClassify_InputRejected(t *testing.T) {
	out := Classify(&Response{Code: 200, Data: &ResponseData{
		Stage:        "vague_input",
		Message:      "Please be more specific",
		Alternatives: []string{`"How do I handle stress at work?"`},
		Suggestion:   "Describe who the test is for",
	}})

	rejected, ok := out.(*InputRejected)
	require.True(t, ok)
	assert.Equal(t, StageVagueInput, rejected.Stage)
	assert.Equal(t, "Please be more specific", rejected.Message)
	assert.Equal(t, []string{`"How do I handle stress at work?"`}, rejected.Alternatives)
	assert.Equal(t, "Describe who the test is for", rejected.Suggestion)
}

func TestClassify_NeedsConfirmation(t *testing.T) {
	out := Classify(&Response{Code: 200, Data: &ResponseData{
		Stage:            "need_confirmation",
		Message:          "Is this a personality test?",
		DetectedTypeID:   3,
		DetectedTypeName: "Personality",
		TypeOptions: []TypeOption{
			{ID: 3, Name: "Personality", Recommended: true},
			{ID: 5, Name: "Career"},
		},
		ActionButtons:    []ActionButton{{Text: "Yes", Action: "confirm", TypeID: intPtr(3)}},
		OriginalQuestion: "what kind of person am I",
	}})

	c, ok := out.(*NeedsConfirmation)
	require.True(t, ok)
	assert.Equal(t, 3, c.DetectedTypeID)
	assert.Equal(t, "Personality", c.DetectedTypeName)
	assert.Len(t, c.TypeOptions, 2)
	assert.Len(t, c.ActionButtons, 1)
	assert.Equal(t, "what kind of person am I", c.OriginalQuestion)
}

func TestClassify_NeedsClarification(t *testing.T) {
	out := Classify(&Response{Code: 200, Data: &ResponseData{
		Stage:     "need_clarification",
		Message:   "A few questions first",
		SessionID: "abc123",
		ClarifyQuestions: []ClarifyQuestion{
			{ID: "age", Question: "Age group?", Type: "select", Options: []string{"teen", "adult"}},
			{ID: "note", Question: "Anything else?", Type: "text", Optional: true},
		},
		OriginalQuestion: "relationship habits",
		DetectedTypeID:   9,
	}})

	c, ok := out.(*NeedsClarification)
	require.True(t, ok)
	assert.Equal(t, "abc123", c.SessionID)
	assert.Equal(t, 9, c.DetectedTypeID)
	require.Len(t, c.ClarifyQuestions, 2)
	assert.True(t, c.ClarifyQuestions[1].Optional)
}

func TestClassify_Created(t *testing.T) {
	for _, stage := range []string{"test_created", "test_reused"} {
		t.Run(stage, func(t *testing.T) {
			out := Classify(&Response{Code: 200, Data: &ResponseData{
				Stage:          stage,
				TestID:         101,
				DetectedTypeID: 3,
				IsExisting:     stage == "test_reused",
				TestInfo:       &TestInfo{ID: 101, Name: "Big Five", QuestionCount: 20},
			}})

			c, ok := out.(*Created)
			require.True(t, ok)
			assert.Equal(t, 101, c.TestID)
			assert.Equal(t, stage == "test_reused", c.IsExisting)
			require.NotNil(t, c.TestInfo)
			assert.Equal(t, "Big Five", c.TestInfo.Name)
		})
	}
}

func TestClassify_CreatedWithoutTestIDIsUnknown(t *testing.T) {
	out := Classify(&Response{Code: 200, Message: "ok", Data: &ResponseData{Stage: "test_created"}})

	u, ok := out.(*Unknown)
	require.True(t, ok)
	assert.Equal(t, StageTestCreated, u.Stage)
	assert.Equal(t, "missing test_id", u.Reason)
	assert.Equal(t, "ok", u.RawMessage)
}

func TestClassify_GenerationFailed(t *testing.T) {
	out := Classify(&Response{Code: 200, Data: &ResponseData{
		Stage:        "error_generation",
		Message:      "Generation failed",
		Alternatives: []string{"'Try a shorter description'"},
	}})

	f, ok := out.(*GenerationFailed)
	require.True(t, ok)
	assert.Equal(t, "Generation failed", f.Message)
	assert.Len(t, f.Alternatives, 1)
}

func TestClassify_UnknownNeverPanics(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		message string
		reason  string
	}{
		{"nil response", nil, "", "missing stage"},
		{"nil data", &Response{Code: 500, Message: "internal error"}, "internal error", "missing stage"},
		{"empty stage", &Response{Code: 200, Data: &ResponseData{Message: "hm"}}, "hm", "missing stage"},
		{"new stage", &Response{Code: 200, Data: &ResponseData{Stage: "queued", Message: "wait"}}, "wait", "unrecognised stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out Outcome
			assert.NotPanics(t, func() { out = Classify(tt.resp) })

			u, ok := out.(*Unknown)
			require.True(t, ok)
			assert.Equal(t, StatusUnknown, u.Status())
			assert.Equal(t, tt.message, u.RawMessage)
			assert.Equal(t, tt.reason, u.Reason)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCreated.Terminal())
	assert.True(t, StatusUnknown.Terminal())
	assert.False(t, StatusNeedsClarification.Terminal())
	assert.False(t, StatusInputRejected.Terminal())
}
