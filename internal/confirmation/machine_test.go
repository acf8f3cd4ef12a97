package confirmation

import (
	"math/rand"
	"testing"
	"time"

	"rsvp-relay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandomizer always returns the same index, clamped to n
type fixedRandomizer int

func (f fixedRandomizer) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func newMachine() *Machine {
	return New(rand.New(rand.NewSource(42)))
}

func confirmNo(t *testing.T, m *Machine, label string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		m.ChooseNo(label)
	}
	for i := 0; i < RequiredConfirmations; i++ {
		require.True(t, m.Continue())
	}
}

func TestInitialState(t *testing.T) {
	m := newMachine()
	s := m.State()

	assert.Equal(t, StageOpen, s.Stage)
	assert.Equal(t, domain.NoLabels, s.Order)
	assert.Len(t, s.Offsets, len(domain.NoLabels))
	assert.False(t, m.CanSubmit())

	_, ok := m.Request(time.Now(), time.Now(), "UTC")
	assert.False(t, ok)
}

func TestChooseNo_ThreeClicksReachFinalNo(t *testing.T) {
	m := newMachine()
	label := domain.NoLabels[2]

	assert.Nil(t, m.ChooseNo(label))
	s := m.State()
	assert.Equal(t, StageDodging, s.Stage)
	assert.Equal(t, Taunts[0], s.Taunt)
	assert.Empty(t, s.Hidden)

	effect := m.ChooseNo(label)
	require.NotNil(t, effect)
	s = m.State()
	assert.Equal(t, Taunts[1], s.Taunt)
	assert.NotEqual(t, label, effect.Label)
	assert.Equal(t, effect.Label, s.Hidden)
	assert.Equal(t, HideDuration, effect.Duration)
	assert.False(t, m.CanSubmit())

	assert.Nil(t, m.ChooseNo(label))
	s = m.State()
	assert.Equal(t, StageConfirming, s.Stage)
	assert.Equal(t, 1, s.ModalStep)
	step, open := s.Modal()
	require.True(t, open)
	assert.Equal(t, "Bist du dir sicher?", step.Title)

	require.True(t, m.Continue())
	require.True(t, m.Continue())
	s = m.State()
	assert.Equal(t, 3, s.ModalStep)
	step, _ = s.Modal()
	assert.Equal(t, "Letzte Chance!", step.Title)
	assert.False(t, m.CanSubmit())

	require.True(t, m.Continue())
	s = m.State()
	assert.Equal(t, StageNoFinal, s.Stage)
	assert.Equal(t, 0, s.ModalStep)
	assert.Equal(t, RequiredConfirmations, s.ConfirmLevel())
	assert.Equal(t, domain.ChoiceNo, s.ChoiceType())
	assert.Equal(t, label, s.ChoiceLabel())
	assert.Equal(t, TauntFinal, s.Taunt)
	assert.Empty(t, s.Hidden)
	assert.Equal(t, domain.NoLabels, s.Order)
	assert.True(t, m.CanSubmit())

	req, ok := m.Request(time.Now(), time.Now(), "Europe/Berlin")
	require.True(t, ok)
	assert.Equal(t, domain.ChoiceNo, req.ChoiceType)
	assert.Equal(t, label, req.ChoiceLabel)
	assert.Equal(t, 3, req.NoConfirmLevel)
	assert.Empty(t, req.IdeaText)
	assert.Empty(t, req.SelectedPlanOption)
}

func TestChooseNo_OffsetsStayInBounds(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		m := New(rand.New(rand.NewSource(seed)))
		for i := 0; i < 2; i++ {
			m.ChooseNo(domain.NoLabels[0])
			s := m.State()
			assert.ElementsMatch(t, domain.NoLabels, s.Order)
			for _, offset := range s.Offsets {
				assert.GreaterOrEqual(t, offset.X, -12)
				assert.LessOrEqual(t, offset.X, 12)
				assert.GreaterOrEqual(t, offset.Y, -8)
				assert.LessOrEqual(t, offset.Y, 8)
			}
		}
	}
}

func TestChooseNo_OffsetExtremes(t *testing.T) {
	low := New(fixedRandomizer(0)).State()
	for _, offset := range low.Offsets {
		assert.Equal(t, Offset{X: -12, Y: -8}, offset)
	}

	high := New(fixedRandomizer(100)).State()
	for _, offset := range high.Offsets {
		assert.Equal(t, Offset{X: 12, Y: 8}, offset)
	}
}

func TestChooseYes_ResetsNoChallenge(t *testing.T) {
	steps := []int{1, 2, 3, 4, 5}

	for _, clicks := range steps {
		m := newMachine()
		for i := 0; i < clicks; i++ {
			if i < 3 {
				m.ChooseNo(domain.NoLabels[0])
			} else {
				m.Continue()
			}
		}

		m.ChooseYes(domain.YesOptions[1])
		s := m.State()

		assert.Equal(t, StageYes, s.Stage, clicks)
		assert.Zero(t, s.Attempts, clicks)
		_, open := s.Modal()
		assert.False(t, open, clicks)
		assert.Empty(t, s.Taunt, clicks)
		assert.Empty(t, s.Hidden, clicks)
		assert.Zero(t, s.ConfirmLevel(), clicks)
		assert.Equal(t, domain.ChoiceYesHaveIdea, s.ChoiceType(), clicks)
	}
}

func TestChooseNo_AfterYesClearsSelection(t *testing.T) {
	m := newMachine()
	m.ChooseYes(domain.YesOptions[0])
	require.True(t, m.CanSubmit())

	m.ChooseNo(domain.NoLabels[1])

	s := m.State()
	assert.Equal(t, StageDodging, s.Stage)
	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, domain.ChoiceType(""), s.ChoiceType())
	assert.False(t, m.CanSubmit())
}

func TestChooseNo_AfterFinalReopensModal(t *testing.T) {
	m := newMachine()
	confirmNo(t, m, domain.NoLabels[0])

	m.ChooseNo(domain.NoLabels[1])

	s := m.State()
	assert.Equal(t, StageConfirming, s.Stage)
	assert.Equal(t, 1, s.ModalStep)
	assert.Zero(t, s.ConfirmLevel())
	assert.False(t, m.CanSubmit())
}

func TestPivotToYes(t *testing.T) {
	m := newMachine()
	assert.False(t, m.PivotToYes())

	for i := 0; i < 3; i++ {
		m.ChooseNo(domain.NoLabels[0])
	}
	m.Continue()

	require.True(t, m.PivotToYes())
	s := m.State()
	assert.Equal(t, StageYes, s.Stage)
	assert.Equal(t, domain.YesOptions[0], s.Yes)
	assert.Equal(t, TauntPivot, s.Taunt)
	assert.Zero(t, s.Attempts)
	assert.True(t, m.CanSubmit())
}

func TestContinue_WithoutModal(t *testing.T) {
	m := newMachine()
	assert.False(t, m.Continue())
	assert.Equal(t, StageOpen, m.State().Stage)
}

func TestRestoreHidden(t *testing.T) {
	m := newMachine()
	m.ChooseNo(domain.NoLabels[0])
	effect := m.ChooseNo(domain.NoLabels[0])
	require.NotNil(t, effect)

	m.RestoreHidden(effect.Token - 1)
	assert.Equal(t, effect.Label, m.State().Hidden)

	m.RestoreHidden(effect.Token)
	assert.Empty(t, m.State().Hidden)
}

func TestCanSubmit_YesBranches(t *testing.T) {
	t.Run("no idea", func(t *testing.T) {
		m := newMachine()
		m.ChooseYes(domain.YesOptions[3])
		assert.True(t, m.CanSubmit())
	})

	t.Run("have idea", func(t *testing.T) {
		m := newMachine()
		m.ChooseYes(domain.YesOptions[1])
		m.SetIdea("  abc  ")
		assert.False(t, m.CanSubmit())
		m.SetIdea(" Kino ")
		assert.True(t, m.CanSubmit())

		req, ok := m.Request(time.Now(), time.Now(), "UTC")
		require.True(t, ok)
		assert.Equal(t, "Kino", req.IdeaText)
	})

	t.Run("pick option", func(t *testing.T) {
		m := newMachine()
		m.ChooseYes(domain.YesOptions[2])
		assert.False(t, m.CanSubmit())

		m.SelectPlan("Bowling")
		assert.False(t, m.CanSubmit())

		m.SelectPlan(domain.PlanOptions[0].ID)
		assert.True(t, m.CanSubmit())

		req, ok := m.Request(time.Now(), time.Now(), "UTC")
		require.True(t, ok)
		assert.Equal(t, domain.PlanOptions[0].ID, req.SelectedPlanOption)
		assert.Empty(t, req.IdeaText)
	})
}

func TestRequest_Fields(t *testing.T) {
	m := newMachine()
	m.SetName("  Mia ")
	m.ChooseYes(domain.YesOptions[0])

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 2, 11, 3, 44, 0, 0, time.UTC)
	req, ok := m.Request(now, due, "Europe/Berlin")

	require.True(t, ok)
	assert.Equal(t, "Mia", req.RespondentName)
	assert.Equal(t, domain.ChoiceYesNoIdea, req.ChoiceType)
	assert.Equal(t, domain.YesOptions[0].Label, req.ChoiceLabel)
	assert.Equal(t, "2026-02-11T03:44:00.000Z", req.DeadlineISO)
	assert.Equal(t, "2026-02-09T12:00:00.000Z", req.SubmittedAtISO)
	assert.Equal(t, "Europe/Berlin", req.ClientTZ)
	assert.Zero(t, req.NoConfirmLevel)
}

func TestReset(t *testing.T) {
	m := newMachine()
	m.SetName("Mia")
	m.ChooseYes(domain.YesOptions[2])
	m.SelectPlan(domain.PlanOptions[1].ID)

	m.Reset()

	s := m.State()
	assert.Equal(t, StageOpen, s.Stage)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Plan)
	assert.False(t, m.CanSubmit())
}

func TestState_IsACopy(t *testing.T) {
	m := newMachine()
	s := m.State()
	s.Order[0] = "changed"
	s.Offsets[domain.NoLabels[0]] = Offset{X: 99}

	fresh := m.State()
	assert.Equal(t, domain.NoLabels[0], fresh.Order[0])
	assert.NotEqual(t, 99, fresh.Offsets[domain.NoLabels[0]].X)
}
