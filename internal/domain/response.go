package domain

// SubmitRequest is the JSON body the client posts to /api/response
type SubmitRequest struct {
	RespondentName     string     `json:"respondentName,omitempty"`
	ChoiceType         ChoiceType `json:"choiceType"`
	ChoiceLabel        string     `json:"choiceLabel"`
	SelectedPlanOption string     `json:"selectedPlanOption,omitempty"`
	IdeaText           string     `json:"ideaText,omitempty"`
	NoConfirmLevel     int        `json:"noConfirmLevel,omitempty"`
	DeadlineISO        string     `json:"deadlineIso"`
	SubmittedAtISO     string     `json:"submittedAtIso"`
	ClientTZ           string     `json:"clientTz"`
}

// Submission is a validated, normalized response. It is built only by the
// validator and never modified afterwards.
type Submission struct {
	RespondentName     string
	ChoiceType         ChoiceType
	ChoiceLabel        string
	SelectedPlanOption string
	IdeaText           string
	NoConfirmLevel     int
	DeadlineISO        string
	SubmittedAtISO     string
	ClientTZ           string
}

// SubmitResponse is the JSON body returned by /api/response
type SubmitResponse struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// MessageSavedAndNotified is the success token of /api/response
const MessageSavedAndNotified = "saved_and_notified"
