package types

// AnalyseRequest is the input to the caller contract.
type AnalyseRequest struct {
	JobDescription  string `json:"job_description" validate:"required"`
	PrivacyAccepted bool   `json:"privacy_accepted"`
}

// Outcome is the result of the caller contract: either Data on success or a
// user-facing failure reason in Error.
type Outcome struct {
	Success bool              `json:"success"`
	Data    *ExtractionResult `json:"data"`
	Error   string            `json:"error,omitempty"`
}

// Succeeded wraps a result in a successful Outcome.
func Succeeded(result ExtractionResult) Outcome {
	return Outcome{Success: true, Data: &result}
}

// Failed builds a failed Outcome with the given reason.
func Failed(reason string) Outcome {
	return Outcome{Success: false, Error: reason}
}
