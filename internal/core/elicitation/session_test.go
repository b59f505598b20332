package elicitation

import (
	"math/rand"
	"testing"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredients(n int) []catalog.Ingredient {
	out := make([]catalog.Ingredient, n)
	for i := range out {
		out[i] = catalog.Ingredient{ID: i + 1, Label: "ing", Tag: string(rune('a' + i))}
	}
	return out
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func TestNewSessionRejectsEmptyCatalog(t *testing.T) {
	_, err := NewSession(DefaultRules(Paired), nil, newRand(1))
	assert.ErrorIs(t, err, common.ErrInvalidCatalog)

	_, err = NewSession(DefaultRules(MultiSelect), []catalog.Ingredient{}, newRand(1))
	assert.ErrorIs(t, err, common.ErrInvalidCatalog)
}

func TestNewSessionRequiresRand(t *testing.T) {
	_, err := NewSession(DefaultRules(Paired), ingredients(4), nil)
	assert.Error(t, err)
}

func TestPairedSingleIngredientAborts(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(1), newRand(1))
	require.NoError(t, err)

	assert.Equal(t, StateAborted, s.State())
	_, ok := s.Current()
	assert.False(t, ok)

	out, err := s.Outcome()
	require.NoError(t, err)
	assert.True(t, out.Aborted)
	assert.Empty(t, out.Tags)
	assert.Equal(t, 0, out.Rounds)
}

func TestPairedRoundShape(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(6), newRand(3))
	require.NoError(t, err)

	r, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 1, r.Number)
	assert.Len(t, r.Candidates, 2)
	assert.Equal(t, 1, r.MaxSelectable)
	assert.True(t, r.AllowNeither)
	assert.NotEqual(t, r.Candidates[0].ID, r.Candidates[1].ID)
	assert.Equal(t, 4, s.Remaining())
}

func TestPairedChoiceRetiresBoth(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(6), newRand(5))
	require.NoError(t, err)

	first, _ := s.Current()
	require.NoError(t, s.Answer(first.Candidates[1].ID))
	assert.Equal(t, []string{first.Candidates[1].Tag}, s.Tags())

	second, ok := s.Current()
	require.True(t, ok)
	for _, c := range second.Candidates {
		assert.NotEqual(t, first.Candidates[0].ID, c.ID, "rejected ingredient must not reappear")
		assert.NotEqual(t, first.Candidates[1].ID, c.ID)
	}
}

func TestPairedCompletesAtTarget(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(10), newRand(7))
	require.NoError(t, err)

	for !s.Done() {
		r, _ := s.Current()
		require.NoError(t, s.Answer(r.Candidates[0].ID))
	}

	out, err := s.Outcome()
	require.NoError(t, err)
	assert.False(t, out.Aborted)
	assert.Len(t, out.Tags, DefaultPairedTarget)
	assert.Equal(t, 3, out.Rounds)
}

func TestPairedExhaustionWithTagsCompletes(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(5), newRand(9))
	require.NoError(t, err)

	r, _ := s.Current()
	require.NoError(t, s.Answer(r.Candidates[0].ID))
	require.NoError(t, s.Answer()) // neither

	// one ingredient left, fewer than two: finish with what we have
	assert.Equal(t, StateCompleted, s.State())
	out, err := s.Outcome()
	require.NoError(t, err)
	assert.Equal(t, []string{r.Candidates[0].Tag}, out.Tags)
}

func TestPairedTerminationBound(t *testing.T) {
	for n := 2; n <= 15; n++ {
		s, err := NewSession(DefaultRules(Paired), ingredients(n), newRand(int64(n)))
		require.NoError(t, err)

		rounds := 0
		for !s.Done() {
			rounds++
			require.LessOrEqual(t, rounds, ceilDiv(n, 2), "n=%d", n)
			require.NoError(t, s.Answer())
		}
		out, err := s.Outcome()
		require.NoError(t, err)
		assert.True(t, out.Aborted, "n=%d: only 'neither' answers must end as picky", n)
		assert.Empty(t, out.Tags)
	}
}

func TestPairedInvalidAnswers(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(6), newRand(11))
	require.NoError(t, err)
	r, _ := s.Current()

	assert.ErrorIs(t, s.Answer(r.Candidates[0].ID, r.Candidates[1].ID), ErrInvalidSelection)
	assert.ErrorIs(t, s.Answer(999), ErrInvalidSelection)

	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrFinishNotAllowed)

	_, err = s.Outcome()
	assert.ErrorIs(t, err, ErrInProgress)

	// failed answers leave the round untouched
	again, _ := s.Current()
	assert.Equal(t, r, again)
}

func TestAnswerAfterDone(t *testing.T) {
	s, err := NewSession(DefaultRules(Paired), ingredients(1), newRand(1))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Answer(), ErrSessionClosed)
}

func TestDuplicateIngredientIDsCollapse(t *testing.T) {
	ings := []catalog.Ingredient{{ID: 1, Tag: "a"}, {ID: 1, Tag: "a"}, {ID: 2, Tag: "b"}}
	s, err := NewSession(DefaultRules(Paired), ings, newRand(1))
	require.NoError(t, err)

	r, ok := s.Current()
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 2}, []int{r.Candidates[0].ID, r.Candidates[1].ID})
}

func TestMultiSelectRounds(t *testing.T) {
	s, err := NewSession(DefaultRules(MultiSelect), ingredients(7), newRand(13))
	require.NoError(t, err)

	r, ok := s.Current()
	require.True(t, ok)
	assert.Len(t, r.Candidates, 3)
	assert.Equal(t, 3, r.MaxSelectable)

	require.NoError(t, s.Answer(r.Candidates[0].ID, r.Candidates[2].ID))
	assert.Equal(t, []string{r.Candidates[0].Tag, r.Candidates[2].Tag}, s.Tags())

	r, _ = s.Current()
	assert.Len(t, r.Candidates, 3)
	assert.Equal(t, 3, r.MaxSelectable)
	require.NoError(t, s.Answer(r.Candidates[0].ID, r.Candidates[1].ID))

	// four tags accumulated, only one more fits under the cap
	r, ok = s.Current()
	require.True(t, ok)
	assert.Len(t, r.Candidates, 1, "only one unused ingredient remains")
	assert.Equal(t, 1, r.MaxSelectable)
}

func TestMultiSelectCapEnforced(t *testing.T) {
	s, err := NewSession(MultiSelectRules(2, 3), ingredients(9), newRand(17))
	require.NoError(t, err)

	r, _ := s.Current()
	assert.Equal(t, 2, r.MaxSelectable)

	err = s.Answer(r.Candidates[0].ID, r.Candidates[1].ID, r.Candidates[2].ID)
	assert.ErrorIs(t, err, ErrSelectionExceedsCap)
	assert.Empty(t, s.Tags())

	require.NoError(t, s.Answer(r.Candidates[0].ID, r.Candidates[1].ID))
	assert.Equal(t, StateCompleted, s.State())
	out, err := s.Outcome()
	require.NoError(t, err)
	assert.Len(t, out.Tags, 2)
}

func TestMultiSelectFinishEarlyEmpty(t *testing.T) {
	s, err := NewSession(DefaultRules(MultiSelect), ingredients(9), newRand(19))
	require.NoError(t, err)

	out, err := s.Finish()
	require.NoError(t, err)
	assert.False(t, out.Aborted)
	assert.Empty(t, out.Tags)
	assert.Equal(t, StateCompleted, s.State())

	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestMultiSelectExhaustionNeverAborts(t *testing.T) {
	for n := 1; n <= 10; n++ {
		s, err := NewSession(DefaultRules(MultiSelect), ingredients(n), newRand(int64(n)))
		require.NoError(t, err)

		rounds := 0
		for !s.Done() {
			rounds++
			require.LessOrEqual(t, rounds, ceilDiv(n, 3), "n=%d", n)
			require.NoError(t, s.Answer())
		}
		out, err := s.Outcome()
		require.NoError(t, err)
		assert.False(t, out.Aborted)
		assert.Empty(t, out.Tags)
		assert.Equal(t, 0, s.Remaining())
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	for _, strategy := range []Strategy{Paired, MultiSelect} {
		t.Run(strategy.String(), func(t *testing.T) {
			run := func() ([]Round, []string) {
				s, err := NewSession(DefaultRules(strategy), ingredients(12), newRand(42))
				require.NoError(t, err)
				for !s.Done() {
					r, _ := s.Current()
					require.NoError(t, s.Answer(r.Candidates[len(r.Candidates)-1].ID))
				}
				return s.Transcript(), s.Tags()
			}

			t1, tags1 := run()
			t2, tags2 := run()
			assert.Equal(t, t1, t2)
			assert.Equal(t, tags1, tags2)
		})
	}
}

func TestNoIngredientPresentedTwice(t *testing.T) {
	s, err := NewSession(DefaultRules(MultiSelect), ingredients(10), newRand(23))
	require.NoError(t, err)
	for !s.Done() {
		require.NoError(t, s.Answer())
	}

	seen := map[int]bool{}
	for _, r := range s.Transcript() {
		for _, c := range r.Candidates {
			assert.False(t, seen[c.ID], "ingredient %d shown twice", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestRulesValidation(t *testing.T) {
	_, err := NewSession(Rules{Strategy: Paired}, ingredients(3), newRand(1))
	assert.Error(t, err)

	_, err = NewSession(Rules{Strategy: MultiSelect, RoundSize: 1, MinPool: 2, TagTarget: 1}, ingredients(3), newRand(1))
	assert.Error(t, err)
}
