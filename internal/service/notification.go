package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"rsvp-relay/internal/domain"
)

const (
	subjectPrefixYes = "Neue Ja-Antwort"
	subjectPrefixNo  = "Neue Nein-Antwort"
	anonymousName    = "anonym"
)

// notificationLine is one labelled row of the mail body
type notificationLine struct {
	Label string
	Value string
}

var notificationHTML = template.Must(template.New("notification").Parse(`<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif;color:#1d1d1f">
    <h2 style="margin:0 0 12px">{{.Subject}}</h2>
    <table cellpadding="4" cellspacing="0">
      {{- range .Lines}}
      <tr><td style="font-weight:bold;vertical-align:top">{{.Label}}</td><td>{{.Value}}</td></tr>
      {{- end}}
    </table>
  </body>
</html>
`))

// BuildNotification renders the mail relay payload for a validated submission
func BuildNotification(submission *domain.Submission, targetEmail string) (*domain.Notification, error) {
	prefix := subjectPrefixYes
	if submission.ChoiceType == domain.ChoiceNo {
		prefix = subjectPrefixNo
	}
	subject := fmt.Sprintf("%s: %s", prefix, submission.ChoiceLabel)

	details := domain.NotificationDetails{
		RespondentName: submission.RespondentName,
		ChoiceType:     submission.ChoiceType,
		ChoiceLabel:    submission.ChoiceLabel,
		DeadlineISO:    submission.DeadlineISO,
		SubmittedAtISO: submission.SubmittedAtISO,
		ClientTZ:       submission.ClientTZ,
	}
	if details.RespondentName == "" {
		details.RespondentName = anonymousName
	}
	if submission.SelectedPlanOption != "" {
		plan := submission.SelectedPlanOption
		details.SelectedPlanOption = &plan
	}
	if submission.IdeaText != "" {
		idea := submission.IdeaText
		details.IdeaText = &idea
	}
	if submission.NoConfirmLevel != 0 {
		level := submission.NoConfirmLevel
		details.NoConfirmLevel = &level
	}

	lines := notificationLines(details)

	var text strings.Builder
	text.WriteString(subject)
	text.WriteString("\n\n")
	for _, line := range lines {
		fmt.Fprintf(&text, "%s: %s\n", line.Label, line.Value)
	}

	var html bytes.Buffer
	if err := notificationHTML.Execute(&html, struct {
		Subject string
		Lines   []notificationLine
	}{Subject: subject, Lines: lines}); err != nil {
		return nil, fmt.Errorf("failed to render notification html: %w", err)
	}

	return &domain.Notification{
		To:      targetEmail,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
		Message: details,
	}, nil
}

func notificationLines(details domain.NotificationDetails) []notificationLine {
	lines := []notificationLine{
		{Label: "Name", Value: details.RespondentName},
		{Label: "Auswahl", Value: details.ChoiceLabel},
	}
	if details.SelectedPlanOption != nil {
		lines = append(lines, notificationLine{Label: "Option", Value: domain.PlanOptionLabel(*details.SelectedPlanOption)})
	}
	if details.IdeaText != nil {
		lines = append(lines, notificationLine{Label: "Idee", Value: *details.IdeaText})
	}
	if details.NoConfirmLevel != nil && details.ChoiceType == domain.ChoiceNo {
		lines = append(lines, notificationLine{Label: "Bestaetigungen", Value: fmt.Sprintf("%d/3", *details.NoConfirmLevel)})
	}
	return append(lines,
		notificationLine{Label: "Deadline", Value: details.DeadlineISO},
		notificationLine{Label: "Abgesendet", Value: details.SubmittedAtISO},
		notificationLine{Label: "Zeitzone", Value: details.ClientTZ},
	)
}
