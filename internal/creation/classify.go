package creation

// Classify maps a backend reply to exactly one Outcome without touching any
// session state. A nil reply or nil data classifies as *Unknown.
func Classify(resp *Response) Outcome {
	var data ResponseData
	if resp != nil && resp.Data != nil {
		data = *resp.Data
	}
	stage := Stage(data.Stage)

	switch stage.Status() {
	case StatusInputRejected:
		return &InputRejected{
			Stage:        stage,
			Message:      data.Message,
			Alternatives: data.Alternatives,
			Suggestion:   data.Suggestion,
		}
	case StatusNeedsConfirmation:
		return &NeedsConfirmation{
			Message:          data.Message,
			DetectedTypeID:   data.DetectedTypeID,
			DetectedTypeName: data.DetectedTypeName,
			TypeOptions:      data.TypeOptions,
			ActionButtons:    data.ActionButtons,
			OriginalQuestion: data.OriginalQuestion,
		}
	case StatusNeedsClarification:
		return &NeedsClarification{
			Message:          data.Message,
			ClarifyQuestions: data.ClarifyQuestions,
			SessionID:        data.SessionID,
			OriginalQuestion: data.OriginalQuestion,
			DetectedTypeID:   data.DetectedTypeID,
		}
	case StatusCreated:
		if data.TestID <= 0 {
			return &Unknown{Stage: stage, RawMessage: rawMessage(resp, data), Reason: "missing test_id"}
		}
		return &Created{
			TestID:         data.TestID,
			DetectedTypeID: data.DetectedTypeID,
			IsExisting:     data.IsExisting,
			TestInfo:       data.TestInfo,
		}
	case StatusGenerationFailed:
		return &GenerationFailed{
			Message:      data.Message,
			Alternatives: data.Alternatives,
			Suggestion:   data.Suggestion,
		}
	default:
		reason := "unrecognised stage"
		if stage == "" {
			reason = "missing stage"
		}
		return &Unknown{Stage: stage, RawMessage: rawMessage(resp, data), Reason: reason}
	}
}

func rawMessage(resp *Response, data ResponseData) string {
	if data.Message != "" {
		return data.Message
	}
	if resp != nil {
		return resp.Message
	}
	return ""
}
