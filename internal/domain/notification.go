package domain

// Notification is the payload posted to the mail relay webhook
type Notification struct {
	To      string              `json:"to"`
	Subject string              `json:"subject"`
	Text    string              `json:"text"`
	HTML    string              `json:"html"`
	Message NotificationDetails `json:"message"`
}

// NotificationDetails mirrors a Submission; optional fields are null when absent
type NotificationDetails struct {
	RespondentName     string     `json:"respondentName"`
	ChoiceType         ChoiceType `json:"choiceType"`
	ChoiceLabel        string     `json:"choiceLabel"`
	SelectedPlanOption *string    `json:"selectedPlanOption"`
	IdeaText           *string    `json:"ideaText"`
	NoConfirmLevel     *int       `json:"noConfirmLevel"`
	DeadlineISO        string     `json:"deadlineIso"`
	SubmittedAtISO     string     `json:"submittedAtIso"`
	ClientTZ           string     `json:"clientTz"`
}

// RelayStatus is the terminal state of one relay call
type RelayStatus int

const (
	RelayFailed RelayStatus = iota
	RelayDelivered
	// RelayAssumedDelivered means the webhook's upstream timed out after the
	// message was most likely enqueued.
	RelayAssumedDelivered
)

func (s RelayStatus) String() string {
	switch s {
	case RelayDelivered:
		return "delivered"
	case RelayAssumedDelivered:
		return "assumed_delivered"
	default:
		return "failed"
	}
}

// RelayOutcome describes how a relay call ended
type RelayOutcome struct {
	Status     RelayStatus
	HTTPStatus int
	Body       string // upstream body, only kept for failures
	Attempts   int
}

// Accepted reports whether the caller may treat the notification as sent
func (o RelayOutcome) Accepted() bool {
	return o.Status == RelayDelivered || o.Status == RelayAssumedDelivered
}
