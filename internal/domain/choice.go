package domain

// ChoiceType is the branch a respondent picked
type ChoiceType string

const (
	ChoiceYesNoIdea     ChoiceType = "yes_no_idea"
	ChoiceYesHaveIdea   ChoiceType = "yes_have_idea"
	ChoiceYesPickOption ChoiceType = "yes_pick_option"
	ChoiceNo            ChoiceType = "no"
)

// IsYes reports whether the choice belongs to the yes branch
func (c ChoiceType) IsYes() bool {
	return c == ChoiceYesNoIdea || c == ChoiceYesHaveIdea || c == ChoiceYesPickOption
}

// Valid reports whether c is one of the four known choice types
func (c ChoiceType) Valid() bool {
	return c.IsYes() || c == ChoiceNo
}

// YesOption is one of the yes buttons
type YesOption struct {
	Type  ChoiceType
	Label string
}

// PlanOption is one of the activities offered for yes_pick_option
type PlanOption struct {
	ID    string
	Label string
}

// The tables below are the only copy of the label sets. The server validates
// against them and the terminal client renders them.
var (
	YesOptions = []YesOption{
		{Type: ChoiceYesNoIdea, Label: "Ja, auf jeden Fall, aber keine Ahnung was"},
		{Type: ChoiceYesHaveIdea, Label: "Ja, auf jeden Fall und ich habe eine Idee"},
		{Type: ChoiceYesPickOption, Label: "Ja, auf jeden Fall, und ich wähle aus deinen Optionen"},
		{Type: ChoiceYesNoIdea, Label: "Ja, aber big Überraschungstag"},
	}

	NoLabels = []string{
		"Ne, fuck nicht ab",
		"Ne, schon verplant",
		"Ne, eher nicht",
	}

	PlanOptions = []PlanOption{
		{ID: "Weserpark+Kino", Label: "Weserpark (z. B. neue Klamotten) (+) Kino"},
		{ID: "Kino", Label: "Kino"},
		{ID: "Schwarzlicht Minigolf", Label: "Schwarzlicht Minigolf"},
	}
)

// IsYesLabel reports whether label is any yes label. It does not check that
// the label belongs to a particular yes type.
func IsYesLabel(label string) bool {
	for _, option := range YesOptions {
		if option.Label == label {
			return true
		}
	}
	return false
}

// IsNoLabel reports whether label is one of the no labels
func IsNoLabel(label string) bool {
	for _, candidate := range NoLabels {
		if candidate == label {
			return true
		}
	}
	return false
}

// IsPlanOption reports whether id names a plan option
func IsPlanOption(id string) bool {
	for _, option := range PlanOptions {
		if option.ID == id {
			return true
		}
	}
	return false
}

// PlanOptionLabel returns the display label of a plan option id, or id itself
func PlanOptionLabel(id string) string {
	for _, option := range PlanOptions {
		if option.ID == id {
			return option.Label
		}
	}
	return id
}
