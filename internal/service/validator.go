package service

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"rsvp-relay/internal/domain"
	"rsvp-relay/pkg/errors"
)

// Field length limits, counted in characters after whitespace collapsing
const (
	MaxChoiceTypeLength  = 30
	MaxNameLength        = 80
	MaxPlanOptionLength  = 80
	MaxLabelLength       = 120
	MaxClientTZLength    = 120
	MaxTimestampLength   = 40
	MaxTextLength        = 500
	MinIdeaTextLength    = 4
	RequiredConfirmLevel = 3
)

// Validation messages returned verbatim to the client
const (
	MsgChoiceTypeInvalid   = "choiceType is invalid"
	MsgNoLabelInvalid      = "choiceLabel is invalid for no"
	MsgYesLabelInvalid     = "choiceLabel is invalid for yes"
	MsgPlanOptionRequired  = "selectedPlanOption is required for yes_pick_option"
	MsgIdeaTextRequired    = "ideaText is required for yes_have_idea"
	MsgConfirmLevelInvalid = "noConfirmLevel must be 3 for no"
)

// Validate normalizes a decoded request body and checks it against the choice
// tables. Checks run in a fixed order and the first failure is returned as a
// validation *errors.AppError.
func Validate(raw map[string]interface{}) (*domain.Submission, error) {
	choiceType := domain.ChoiceType(NormalizeText(raw["choiceType"], MaxChoiceTypeLength))
	choiceLabel := NormalizeText(raw["choiceLabel"], MaxLabelLength)
	planOption := NormalizeText(raw["selectedPlanOption"], MaxPlanOptionLength)
	ideaText := NormalizeText(raw["ideaText"], MaxTextLength)
	confirmLevel := coerceNumber(raw["noConfirmLevel"])

	if !choiceType.Valid() {
		return nil, errors.NewValidationError(MsgChoiceTypeInvalid)
	}

	if choiceType == domain.ChoiceNo {
		if !domain.IsNoLabel(choiceLabel) {
			return nil, errors.NewValidationError(MsgNoLabelInvalid)
		}
		if confirmLevel != RequiredConfirmLevel {
			return nil, errors.NewValidationError(MsgConfirmLevelInvalid)
		}
	} else if !domain.IsYesLabel(choiceLabel) {
		return nil, errors.NewValidationError(MsgYesLabelInvalid)
	}

	if choiceType == domain.ChoiceYesPickOption && !domain.IsPlanOption(planOption) {
		return nil, errors.NewValidationError(MsgPlanOptionRequired)
	}

	if choiceType == domain.ChoiceYesHaveIdea && len([]rune(ideaText)) < MinIdeaTextLength {
		return nil, errors.NewValidationError(MsgIdeaTextRequired)
	}

	level := 0
	if !math.IsNaN(confirmLevel) && !math.IsInf(confirmLevel, 0) {
		level = int(confirmLevel)
	}

	return &domain.Submission{
		RespondentName:     NormalizeText(raw["respondentName"], MaxNameLength),
		ChoiceType:         choiceType,
		ChoiceLabel:        choiceLabel,
		SelectedPlanOption: planOption,
		IdeaText:           ideaText,
		NoConfirmLevel:     level,
		DeadlineISO:        NormalizeText(raw["deadlineIso"], MaxTimestampLength),
		SubmittedAtISO:     NormalizeText(raw["submittedAtIso"], MaxTimestampLength),
		ClientTZ:           NormalizeText(raw["clientTz"], MaxClientTZLength),
	}, nil
}

// NormalizeText stringifies a JSON value, collapses whitespace runs to a
// single space, trims and truncates to max characters.
func NormalizeText(value interface{}, max int) string {
	text := strings.Join(strings.Fields(stringify(value)), " ")
	if runes := []rune(text); len(runes) > max {
		return string(runes[:max])
	}
	return text
}

// stringify converts decoded JSON values to text. Falsy values become empty.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == 0 || math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// coerceNumber converts a JSON value to a number the way a browser's Number()
// does. Unparseable input yields NaN.
func coerceNumber(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		return parseNumber(v)
	case []interface{}:
		// A one-element array converts through its string form
		switch len(v) {
		case 0:
			return 0
		case 1:
			if _, isBool := v[0].(bool); isBool {
				return math.NaN()
			}
			return coerceNumber(v[0])
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// parseNumber accepts decimal literals, 0x/0o/0b integers and Infinity
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	// ParseFloat also knows "inf", "nan", hex floats and underscores
	if strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789.eE+-", r)
	}) >= 0 {
		return math.NaN()
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return n
}
