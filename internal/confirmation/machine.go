// Package confirmation drives the answer form: the yes options and the
// escalating ritual a respondent has to pass before a "no" can be sent.
package confirmation

import (
	"strings"
	"time"

	"rsvp-relay/internal/deadline"
	"rsvp-relay/internal/domain"
)

// Stage is the tag of the form state
type Stage int

const (
	// StageOpen means nothing is selected and no "no" was clicked
	StageOpen Stage = iota
	// StageYes means a yes option is selected
	StageYes
	// StageDodging means one or two "no" clicks were deflected
	StageDodging
	// StageConfirming means the confirmation modal is open
	StageConfirming
	// StageNoFinal means the "no" passed all confirmations and can be sent
	StageNoFinal
)

// RequiredConfirmations is the modal step that finalizes a "no"
const RequiredConfirmations = 3

// HideDuration is how long a deflected "no" button stays invisible
const HideDuration = 900 * time.Millisecond

// Texts shown while the "no" buttons misbehave
const (
	TauntFinal = "Okay, respektiert. Dieses Nein ist jetzt final."
	TauntPivot = "Smart move. Dann planen wir lieber etwas Cooles."
)

// Taunts are shown after the first and second "no" click
var Taunts = [...]string{
	"Netter Versuch. Noch mal tippen.",
	"Die Nein-Buttons sind heute im Speedrun-Modus.",
}

// ModalStep is the copy of one confirmation step
type ModalStep struct {
	Title string
	Text  string
}

// ModalSteps holds the copy of steps 1 to 3
var ModalSteps = [RequiredConfirmations]ModalStep{
	{Title: "Bist du dir sicher?", Text: "Ein Nein ist erlaubt, aber nur fuer Menschen mit wirklich starker Entschlossenheit."},
	{Title: "Wirklich sicher?", Text: "Wir koennten auch einfach lachen, losziehen und den Samstag gewinnen."},
	{Title: "Letzte Chance!", Text: "Ab hier wird dein Nein final gespeichert. Noch umdrehen?"},
}

// Offset displaces a "no" button
type Offset struct {
	X int
	Y int
}

// Randomizer is satisfied by *math/rand.Rand
type Randomizer interface {
	Intn(n int) int
}

// HideEffect asks the caller to call RestoreHidden(Token) after Duration
type HideEffect struct {
	Label    string
	Duration time.Duration
	Token    int
}

// State is a snapshot of the form
type State struct {
	Stage     Stage
	Attempts  int
	ModalStep int // 1..3 while StageConfirming
	Yes       domain.YesOption
	NoLabel   string // pending while confirming, final in StageNoFinal
	Order     []string
	Offsets   map[string]Offset
	Hidden    string
	Taunt     string
	Plan      string
	Idea      string
	Name      string
}

// ChoiceType returns the selected choice type, or "" when nothing is selectable
func (s State) ChoiceType() domain.ChoiceType {
	switch s.Stage {
	case StageYes:
		return s.Yes.Type
	case StageNoFinal:
		return domain.ChoiceNo
	}
	return ""
}

// ChoiceLabel returns the label that would be submitted
func (s State) ChoiceLabel() string {
	switch s.Stage {
	case StageYes:
		return s.Yes.Label
	case StageNoFinal:
		return s.NoLabel
	}
	return ""
}

// ConfirmLevel is RequiredConfirmations once a "no" is final, 0 otherwise
func (s State) ConfirmLevel() int {
	if s.Stage == StageNoFinal {
		return RequiredConfirmations
	}
	return 0
}

// Modal returns the open modal step, if any
func (s State) Modal() (ModalStep, bool) {
	if s.Stage != StageConfirming {
		return ModalStep{}, false
	}
	return ModalSteps[s.ModalStep-1], true
}

// Machine owns the form state. It is not safe for concurrent use.
type Machine struct {
	state     State
	rng       Randomizer
	hideToken int
}

// New creates a machine in its initial state
func New(rng Randomizer) *Machine {
	m := &Machine{rng: rng}
	m.Reset()
	return m
}

// State returns a copy of the current state
func (m *Machine) State() State {
	s := m.state
	s.Order = append([]string(nil), m.state.Order...)
	s.Offsets = make(map[string]Offset, len(m.state.Offsets))
	for label, offset := range m.state.Offsets {
		s.Offsets[label] = offset
	}
	return s
}

// Reset clears the whole form
func (m *Machine) Reset() {
	m.state = State{}
	m.resetNoChallenge()
}

// ChooseYes selects a yes option and abandons any "no" in progress
func (m *Machine) ChooseYes(option domain.YesOption) {
	m.resetNoChallenge()
	m.state.Stage = StageYes
	m.state.Yes = option
}

// ChooseNo registers a click on a "no" button. The first two clicks are
// deflected; the second also hides another button for HideDuration. Later
// clicks open the confirmation modal.
func (m *Machine) ChooseNo(label string) *HideEffect {
	m.state.NoLabel = label
	m.state.Yes = domain.YesOption{}
	m.state.ModalStep = 0

	previous := m.state.Attempts
	m.state.Attempts++

	if m.state.Attempts > len(Taunts) {
		m.state.Stage = StageConfirming
		m.state.ModalStep = 1
		return nil
	}

	m.state.Stage = StageDodging
	m.state.Taunt = Taunts[m.state.Attempts-1]
	m.state.Order = m.shuffled(domain.NoLabels)
	m.state.Offsets = m.randomOffsets()

	if previous != 1 {
		return nil
	}

	candidates := make([]string, 0, len(domain.NoLabels))
	for _, candidate := range domain.NoLabels {
		if candidate != label {
			candidates = append(candidates, candidate)
		}
	}
	hidden := domain.NoLabels[0]
	if len(candidates) > 0 {
		hidden = candidates[m.rng.Intn(len(candidates))]
	}

	m.hideToken++
	m.state.Hidden = hidden
	return &HideEffect{Label: hidden, Duration: HideDuration, Token: m.hideToken}
}

// RestoreHidden shows the hidden button again unless a newer hide replaced it
func (m *Machine) RestoreHidden(token int) {
	if token == m.hideToken {
		m.state.Hidden = ""
	}
}

// Continue is the modal's primary action. It advances one step and
// finalizes the "no" on the last one. It reports false when no modal is open.
func (m *Machine) Continue() bool {
	if m.state.Stage != StageConfirming {
		return false
	}

	if m.state.ModalStep < RequiredConfirmations {
		m.state.ModalStep++
		return true
	}

	if m.state.NoLabel == "" {
		m.state.NoLabel = domain.NoLabels[0]
	}
	m.state.Stage = StageNoFinal
	m.state.ModalStep = 0
	m.state.Taunt = TauntFinal
	m.state.Hidden = ""
	m.state.Offsets = m.randomOffsets()
	m.state.Order = append([]string(nil), domain.NoLabels...)
	return true
}

// PivotToYes is the modal's secondary action. It switches to the first yes
// option. It reports false when no modal is open.
func (m *Machine) PivotToYes() bool {
	if m.state.Stage != StageConfirming {
		return false
	}

	m.ChooseYes(domain.YesOptions[0])
	m.state.Taunt = TauntPivot
	return true
}

// SelectPlan picks a plan option; unknown ids are ignored
func (m *Machine) SelectPlan(id string) {
	if domain.IsPlanOption(id) {
		m.state.Plan = id
	}
}

// SetIdea stores the free-text idea
func (m *Machine) SetIdea(idea string) {
	m.state.Idea = idea
}

// SetName stores the optional respondent name
func (m *Machine) SetName(name string) {
	m.state.Name = name
}

// CanSubmit reports whether the current selection is complete
func (m *Machine) CanSubmit() bool {
	switch m.state.ChoiceType() {
	case domain.ChoiceYesPickOption:
		return m.state.Plan != ""
	case domain.ChoiceYesHaveIdea:
		return len([]rune(strings.TrimSpace(m.state.Idea))) > 3
	case domain.ChoiceNo:
		return m.state.ConfirmLevel() == RequiredConfirmations
	case domain.ChoiceYesNoIdea:
		return true
	}
	return false
}

// Request builds the submit payload. It reports false when CanSubmit does.
func (m *Machine) Request(now, due time.Time, clientTZ string) (domain.SubmitRequest, bool) {
	if !m.CanSubmit() {
		return domain.SubmitRequest{}, false
	}

	choiceType := m.state.ChoiceType()
	req := domain.SubmitRequest{
		RespondentName: strings.TrimSpace(m.state.Name),
		ChoiceType:     choiceType,
		ChoiceLabel:    m.state.ChoiceLabel(),
		DeadlineISO:    deadline.ISO(due),
		SubmittedAtISO: deadline.ISO(now),
		ClientTZ:       clientTZ,
	}

	switch choiceType {
	case domain.ChoiceYesPickOption:
		req.SelectedPlanOption = m.state.Plan
	case domain.ChoiceYesHaveIdea:
		req.IdeaText = strings.TrimSpace(m.state.Idea)
	case domain.ChoiceNo:
		req.NoConfirmLevel = m.state.ConfirmLevel()
	}

	return req, true
}

func (m *Machine) resetNoChallenge() {
	m.state.Attempts = 0
	m.state.Order = append([]string(nil), domain.NoLabels...)
	m.state.Offsets = m.randomOffsets()
	m.state.Hidden = ""
	m.state.Taunt = ""
	m.state.ModalStep = 0
	m.state.NoLabel = ""
	m.state.Stage = StageOpen
	m.state.Yes = domain.YesOption{}
}

// randomOffsets moves every "no" button by up to 12 columns and 8 rows
func (m *Machine) randomOffsets() map[string]Offset {
	offsets := make(map[string]Offset, len(domain.NoLabels))
	for _, label := range domain.NoLabels {
		offsets[label] = Offset{X: m.rng.Intn(25) - 12, Y: m.rng.Intn(17) - 8}
	}
	return offsets
}

func (m *Machine) shuffled(values []string) []string {
	result := append([]string(nil), values...)
	for i := len(result) - 1; i > 0; i-- {
		j := m.rng.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}
	return result
}
