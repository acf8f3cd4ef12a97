package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rsvp-relay/internal/confirmation"
	"rsvp-relay/internal/deadline"
	"rsvp-relay/internal/domain"
)

const deadlineJoke = "Hahaha hast du gedacht dass ich es so einfach mache , schlecht"

// Input limits mirror the browser form
const (
	nameCharLimit = 80
	ideaCharLimit = 500
)

type phase int

const (
	phaseForm phase = iota
	phaseSubmitting
	phaseYesDone
	phaseNoDone
)

type focus int

const (
	focusName focus = iota
	focusChoices
	focusPlans
	focusIdea
	focusSubmit
)

type tickMsg time.Time

type restoreHiddenMsg struct {
	token int
}

type submitResultMsg struct {
	requestID string
	err       error
}

// submitter is implemented by submitClient
type submitter interface {
	Submit(ctx context.Context, req domain.SubmitRequest) (string, error)
}

// choiceItem is one row of the yes/no list
type choiceItem struct {
	yes *domain.YesOption
	no  string
}

type model struct {
	machine  *confirmation.Machine
	client   submitter
	styles   styles
	now      func() time.Time
	clientTZ string

	due       time.Time
	remaining deadline.Countdown
	joke      string

	phase      phase
	focus      focus
	cursor     int
	planCursor int
	name       textinput.Model
	idea       textinput.Model
	submitErr  string
	summary    domain.SubmitRequest
	requestID  string
}

func newModel(machine *confirmation.Machine, client submitter, now func() time.Time, clientTZ, name string) model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Optional: dein Name"
	nameInput.CharLimit = nameCharLimit
	nameInput.SetValue(name)

	ideaInput := textinput.New()
	ideaInput.Placeholder = "Was willst du am Samstag machen?"
	ideaInput.CharLimit = ideaCharLimit

	machine.SetName(name)

	m := model{
		machine:  machine,
		client:   client,
		styles:   defaultStyles(),
		now:      now,
		clientTZ: clientTZ,
		focus:    focusChoices,
		name:     nameInput,
		idea:     ideaInput,
	}
	m.refreshDeadline(now())
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func (m *model) refreshDeadline(now time.Time) {
	m.due = deadline.Next(now)
	m.remaining = deadline.Remaining(m.due, now)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refreshDeadline(time.Time(msg))
		return m, tick()

	case restoreHiddenMsg:
		m.machine.RestoreHidden(msg.token)
		return m, nil

	case submitResultMsg:
		if msg.err != nil {
			m.phase = phaseForm
			m.submitErr = msg.err.Error()
			return m, nil
		}
		m.requestID = msg.requestID
		if m.summary.ChoiceType == domain.ChoiceNo {
			m.phase = phaseNoDone
		} else {
			m.phase = phaseYesDone
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.phase {
		case phaseSubmitting:
			return m, nil
		case phaseYesDone, phaseNoDone:
			return m.updateResult(msg)
		}

		if _, open := m.machine.State().Modal(); open {
			return m.updateModal(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		m.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab:
		m.moveFocus(-1)
		return m, nil
	}

	switch m.focus {
	case focusName:
		if msg.Type == tea.KeyEnter {
			m.moveFocus(1)
			return m, nil
		}
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m.machine.SetName(m.name.Value())
		return m, cmd

	case focusIdea:
		if msg.Type == tea.KeyEnter {
			m.moveFocus(1)
			return m, nil
		}
		var cmd tea.Cmd
		m.idea, cmd = m.idea.Update(msg)
		m.machine.SetIdea(m.idea.Value())
		return m, cmd

	case focusChoices:
		items := m.choiceItems()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case "d":
			m.joke = deadlineJoke
		case "enter", " ":
			return m.choose(items[m.cursor])
		}
		return m, nil

	case focusPlans:
		switch msg.String() {
		case "up", "k":
			if m.planCursor > 0 {
				m.planCursor--
			}
		case "down", "j":
			if m.planCursor < len(domain.PlanOptions)-1 {
				m.planCursor++
			}
		case "enter", " ":
			m.machine.SelectPlan(domain.PlanOptions[m.planCursor].ID)
		}
		return m, nil

	case focusSubmit:
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	return m, nil
}

func (m model) choose(item choiceItem) (tea.Model, tea.Cmd) {
	m.submitErr = ""

	if item.yes != nil {
		m.machine.ChooseYes(*item.yes)
		return m, nil
	}

	if item.no == m.machine.State().Hidden {
		return m, nil
	}

	effect := m.machine.ChooseNo(item.no)
	if effect == nil {
		return m, nil
	}

	token := effect.Token
	return m, tea.Tick(effect.Duration, func(time.Time) tea.Msg {
		return restoreHiddenMsg{token: token}
	})
}

func (m model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.machine.Continue()
	case "y", "esc":
		m.machine.PivotToYes()
		m.cursor = 0
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.machine.Request(m.now(), m.due, m.clientTZ)
	if !ok {
		return m, nil
	}

	m.phase = phaseSubmitting
	m.summary = req
	m.submitErr = ""

	client := m.client
	return m, func() tea.Msg {
		requestID, err := client.Submit(context.Background(), req)
		return submitResultMsg{requestID: requestID, err: err}
	}
}

func (m model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.machine.Reset()
		m.name.SetValue("")
		m.idea.SetValue("")
		m.joke = ""
		m.submitErr = ""
		m.summary = domain.SubmitRequest{}
		m.requestID = ""
		m.phase = phaseForm
		m.cursor = 0
		m.planCursor = 0
		m.setFocus(focusChoices)
		m.refreshDeadline(m.now())
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// choiceItems lists yes options followed by the "no" buttons in their
// current order
func (m model) choiceItems() []choiceItem {
	state := m.machine.State()
	items := make([]choiceItem, 0, len(domain.YesOptions)+len(state.Order))
	for i := range domain.YesOptions {
		items = append(items, choiceItem{yes: &domain.YesOptions[i]})
	}
	for _, label := range state.Order {
		items = append(items, choiceItem{no: label})
	}
	return items
}

func (m model) availableFocuses() []focus {
	focuses := []focus{focusName, focusChoices}
	switch m.machine.State().ChoiceType() {
	case domain.ChoiceYesPickOption:
		focuses = append(focuses, focusPlans)
	case domain.ChoiceYesHaveIdea:
		focuses = append(focuses, focusIdea)
	}
	return append(focuses, focusSubmit)
}

func (m *model) moveFocus(delta int) {
	focuses := m.availableFocuses()
	current := 0
	for i, f := range focuses {
		if f == m.focus {
			current = i
			break
		}
	}
	next := (current + delta + len(focuses)) % len(focuses)
	m.setFocus(focuses[next])
}

func (m *model) setFocus(f focus) {
	m.focus = f
	m.name.Blur()
	m.idea.Blur()
	switch f {
	case focusName:
		m.name.Focus()
	case focusIdea:
		m.idea.Focus()
	}
}

func (m model) View() string {
	switch m.phase {
	case phaseYesDone:
		return m.viewYesDone()
	case phaseNoDone:
		return m.viewNoDone()
	}

	state := m.machine.State()
	if step, open := state.Modal(); open {
		return m.viewModal(state, step)
	}
	return m.viewForm(state)
}

func (m model) marker(active bool) string {
	if active {
		return m.styles.Cursor.Render("› ")
	}
	return "  "
}

func (m model) viewForm(state confirmation.State) string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Pill.Render("Level: Samstag-Planung") + "\n")
	b.WriteString(s.Title.Render("Bock auf Samstag?") + "\n")
	b.WriteString(s.Label.Render("Deadline: ") + deadline.FormatForDisplay(m.due) + "\n")
	b.WriteString(s.Label.Render("Verbleibend: ") + m.remaining.String() + "\n")
	if m.joke != "" {
		b.WriteString(s.Taunt.Render(m.joke) + "\n")
	}

	b.WriteString(s.Section.Render("Dein Name (optional)") + "\n")
	b.WriteString(m.marker(m.focus == focusName) + m.name.View() + "\n")

	items := m.choiceItems()
	b.WriteString(s.Section.Render("Ja-Pfade") + "\n")
	for i, item := range items {
		if item.yes == nil {
			continue
		}
		label := item.yes.Label
		if state.Stage == confirmation.StageYes && state.Yes == *item.yes {
			label = s.Selected.Render("✓ " + label)
		}
		b.WriteString(m.marker(m.focus == focusChoices && m.cursor == i) + s.Option.Render(label) + "\n")
	}

	b.WriteString(s.Section.Render("Nein-Pfade") + "\n")
	b.WriteString(s.Muted.Render("Im High-Mode erst nach 3 Bestaetigungen final.") + "\n")
	for i, item := range items {
		if item.yes != nil {
			continue
		}
		offset := state.Offsets[item.no]
		label := item.no
		if label == state.Hidden {
			label = strings.Repeat(" ", lipgloss.Width(label))
		}
		style := s.No.MarginLeft(offset.X + 12).MarginTop(max(offset.Y, 0) / 4)
		b.WriteString(m.marker(m.focus == focusChoices && m.cursor == i) + style.Render(label) + "\n")
	}
	if state.Taunt != "" {
		b.WriteString(s.Taunt.Render(state.Taunt) + "\n")
	}

	if choice := state.ChoiceType(); choice != "" {
		b.WriteString("\nAusgewaehlt: " + s.Selected.Render(state.ChoiceLabel()) + "\n")

		switch choice {
		case domain.ChoiceYesPickOption:
			b.WriteString(s.Section.Render("Welche Option soll es sein?") + "\n")
			for i, option := range domain.PlanOptions {
				label := option.Label
				if state.Plan == option.ID {
					label = s.Selected.Render("✓ " + label)
				}
				b.WriteString(m.marker(m.focus == focusPlans && m.planCursor == i) + s.Option.Render(label) + "\n")
			}
		case domain.ChoiceYesHaveIdea:
			b.WriteString(s.Section.Render("Deine Idee") + "\n")
			b.WriteString(m.marker(m.focus == focusIdea) + m.idea.View() + "\n")
		case domain.ChoiceNo:
			b.WriteString(s.Muted.Render("Nein wurde korrekt finalisiert und kann nun abgeschickt werden.") + "\n")
		}
	}

	if m.submitErr != "" {
		b.WriteString("\n" + s.Error.Render(m.submitErr) + "\n")
	}

	button := "Antwort absenden"
	if m.phase == phaseSubmitting {
		button = "Wird uebermittelt..."
	}
	buttonStyle := s.Button
	if !m.machine.CanSubmit() || m.phase == phaseSubmitting {
		buttonStyle = s.Disabled
	}
	b.WriteString(m.marker(m.focus == focusSubmit) + buttonStyle.Render(button) + "\n\n")

	b.WriteString(s.Muted.Render("tab: weiter · enter: auswaehlen · d: Deadline verschieben · ctrl+c: beenden"))
	return b.String()
}

func (m model) viewModal(state confirmation.State, step confirmation.ModalStep) string {
	s := m.styles

	primary := "Weiter (ich bleibe bei Nein)"
	if state.ModalStep == confirmation.RequiredConfirmations {
		primary = "Nein final bestaetigen"
	}

	body := strings.Join([]string{
		s.Pill.Render(fmt.Sprintf("Nein-Bestaetigung %d/%d", state.ModalStep, confirmation.RequiredConfirmations)),
		"",
		s.Title.Render(step.Title),
		step.Text,
		"",
		s.Button.Render("[enter] " + primary),
		s.Disabled.Render("[y] Doch lieber Ja"),
	}, "\n")

	return s.Modal.Render(body)
}

func (m model) summaryLines() []string {
	s := m.styles
	lines := []string{s.Label.Render("Auswahl: ") + m.summary.ChoiceLabel}
	if m.summary.SelectedPlanOption != "" {
		lines = append(lines, s.Label.Render("Option: ")+m.summary.SelectedPlanOption)
	}
	if m.summary.IdeaText != "" {
		lines = append(lines, s.Label.Render("Deine Idee: ")+m.summary.IdeaText)
	}
	return lines
}

func (m model) submittedAt() string {
	submitted, err := time.Parse("2006-01-02T15:04:05.000Z", m.summary.SubmittedAtISO)
	if err != nil {
		return m.summary.SubmittedAtISO
	}
	return submitted.Local().Format("2.1.2006, 15:04:05")
}

func (m model) viewYesDone() string {
	s := m.styles

	name := m.summary.RespondentName
	if name == "" {
		name = "anonym"
	}

	lines := []string{
		s.Pill.Render("Mission erfolgreich"),
		s.Title.Render("Yes! Samstag unlocked."),
		"Stark. Deine Zusage ist angekommen und die Vorfreude ist jetzt offiziell.",
		"",
	}
	lines = append(lines, m.summaryLines()...)
	lines = append(lines,
		s.Label.Render("Name: ")+name,
		s.Label.Render("Abgesendet: ")+m.submittedAt(),
		"",
		s.Muted.Render("enter: Noch eine Runde · q: beenden"),
	)

	return s.ResultYes.Render(strings.Join(lines, "\n"))
}

func (m model) viewNoDone() string {
	s := m.styles

	lines := []string{
		s.Pill.Render("Rueckmeldung gespeichert"),
		s.Title.Render("Danke dir fuer deine Zeit."),
		"Ehrliche Antwort ist besser als gar keine. Deine Rueckmeldung wurde sauber uebermittelt.",
		"",
		s.Label.Render("Auswahl: ") + m.summary.ChoiceLabel,
		s.Label.Render("Abgesendet: ") + m.submittedAt(),
		"",
		s.Muted.Render("enter: Zurueck zum Start · q: beenden"),
	}

	return s.ResultNo.Render(strings.Join(lines, "\n"))
}
