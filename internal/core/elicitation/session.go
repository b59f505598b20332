package elicitation

import (
	"errors"
	"fmt"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/pkg/common"
)

// Sentinel errors
var (
	ErrSessionClosed       = errors.New("elicitation: session already finished")
	ErrInProgress          = errors.New("elicitation: session still in progress")
	ErrInvalidSelection    = errors.New("elicitation: invalid selection")
	ErrSelectionExceedsCap = errors.New("elicitation: selection exceeds tag cap")
	ErrFinishNotAllowed    = errors.New("elicitation: early finish not allowed in this mode")
)

// State 問答狀態
type State int

const (
	StateAwaitingAnswer State = iota
	StateCompleted
	StateAborted
)

// String 回傳可讀狀態
func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Rand 注入的隨機來源；*rand.Rand 滿足此介面
type Rand interface {
	Shuffle(n int, swap func(i, j int))
}

// Round 一輪呈現給使用者的食材
type Round struct {
	Number        int                  `json:"number"`
	Candidates    []catalog.Ingredient `json:"candidates"`
	MaxSelectable int                  `json:"max_selectable"`
	AllowNeither  bool                 `json:"allow_neither"`
}

// Outcome 問答結果；Aborted 為挑食結局，Tags 必為空
type Outcome struct {
	Tags    []string `json:"tags"`
	Aborted bool     `json:"aborted"`
	Rounds  int      `json:"rounds"`
}

// Session 單次問答的狀態。非併發安全，由單一呼叫端依序操作。
type Session struct {
	rules      Rules
	rng        Rand
	pool       []catalog.Ingredient
	used       map[int]struct{}
	tags       []string
	current    *Round
	transcript []Round
	state      State
}

// NewSession 建立問答並抽出第一輪
func NewSession(rules Rules, ingredients []catalog.Ingredient, rng Rand) (*Session, error) {
	if err := rules.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("elicitation: random source is required")
	}
	if len(ingredients) == 0 {
		return nil, common.ErrInvalidCatalog.Wrap(errors.New("no ingredients to present"))
	}

	pool := make([]catalog.Ingredient, 0, len(ingredients))
	seen := make(map[int]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, dup := seen[ing.ID]; dup {
			continue
		}
		seen[ing.ID] = struct{}{}
		pool = append(pool, ing)
	}

	s := &Session{
		rules: rules,
		rng:   rng,
		pool:  pool,
		used:  make(map[int]struct{}, len(pool)),
	}
	s.advance()
	return s, nil
}

// Rules 回傳此問答的參數
func (s *Session) Rules() Rules { return s.rules }

// State 回傳目前狀態
func (s *Session) State() State { return s.state }

// Done 是否已結束（完成或挑食）
func (s *Session) Done() bool { return s.state != StateAwaitingAnswer }

// Current 回傳目前這一輪；已結束時 ok 為 false
func (s *Session) Current() (Round, bool) {
	if s.current == nil {
		return Round{}, false
	}
	return copyRound(*s.current), true
}

// Tags 回傳目前累積的 tag
func (s *Session) Tags() []string {
	return common.CloneStrings(s.tags)
}

// Remaining 尚未出現過的食材數
func (s *Session) Remaining() int {
	return len(s.pool) - len(s.used)
}

// Transcript 依序回傳所有已呈現的輪次
func (s *Session) Transcript() []Round {
	out := make([]Round, len(s.transcript))
	for i, r := range s.transcript {
		out[i] = copyRound(r)
	}
	return out
}

// Answer 回答目前這一輪；ids 為被選中的食材 ID，空表示都不要
func (s *Session) Answer(ids ...int) error {
	if s.Done() {
		return ErrSessionClosed
	}
	round := s.current

	if len(ids) == 0 && !round.AllowNeither {
		return fmt.Errorf("%w: a choice is required", ErrInvalidSelection)
	}
	if len(ids) > round.MaxSelectable {
		if s.rules.Strategy == MultiSelect {
			return fmt.Errorf("%w: %d selected, %d allowed", ErrSelectionExceedsCap, len(ids), round.MaxSelectable)
		}
		return fmt.Errorf("%w: %d selected, %d allowed", ErrInvalidSelection, len(ids), round.MaxSelectable)
	}

	byID := make(map[int]catalog.Ingredient, len(round.Candidates))
	for _, c := range round.Candidates {
		byID[c.ID] = c
	}
	picked := make(map[int]struct{}, len(ids))
	chosen := make([]string, 0, len(ids))
	for _, id := range ids {
		ing, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: ingredient %d is not in this round", ErrInvalidSelection, id)
		}
		if _, dup := picked[id]; dup {
			return fmt.Errorf("%w: ingredient %d selected twice", ErrInvalidSelection, id)
		}
		picked[id] = struct{}{}
		chosen = append(chosen, ing.Tag)
	}

	s.tags = append(s.tags, chosen...)
	s.current = nil
	s.advance()
	return nil
}

// Finish 提前結束並輸出目前累積的 tag（可能為空）
func (s *Session) Finish() (Outcome, error) {
	if !s.rules.AllowFinish {
		return Outcome{}, ErrFinishNotAllowed
	}
	if s.Done() {
		return Outcome{}, ErrSessionClosed
	}
	s.current = nil
	s.state = StateCompleted
	return s.outcome(), nil
}

// Outcome 回傳結束後的結果
func (s *Session) Outcome() (Outcome, error) {
	if !s.Done() {
		return Outcome{}, ErrInProgress
	}
	return s.outcome(), nil
}

func (s *Session) outcome() Outcome {
	return Outcome{
		Tags:    s.Tags(),
		Aborted: s.state == StateAborted,
		Rounds:  len(s.transcript),
	}
}

// advance 判斷是否結束，否則抽出下一輪
func (s *Session) advance() {
	remaining := s.Remaining()
	size := s.rules.RoundSize

	switch s.rules.Strategy {
	case Paired:
		if len(s.tags) >= s.rules.TagTarget {
			s.state = StateCompleted
			return
		}
		if remaining < s.rules.MinPool {
			if len(s.tags) == 0 && s.rules.AbortWhenEmpty {
				s.state = StateAborted
			} else {
				s.state = StateCompleted
			}
			return
		}
	case MultiSelect:
		if len(s.tags) >= s.rules.TagTarget || remaining < s.rules.MinPool {
			s.state = StateCompleted
			return
		}
		if remaining < size {
			size = remaining
		}
	}

	candidates := s.draw(size)
	maxSelectable := len(candidates)
	if s.rules.Strategy == Paired {
		maxSelectable = 1
	} else if left := s.rules.TagTarget - len(s.tags); left < maxSelectable {
		maxSelectable = left
	}

	round := Round{
		Number:        len(s.transcript) + 1,
		Candidates:    candidates,
		MaxSelectable: maxSelectable,
		AllowNeither:  s.rules.AllowNeither,
	}
	s.transcript = append(s.transcript, round)
	s.current = &round
	s.state = StateAwaitingAnswer
}

// draw 對尚未使用的食材洗牌後取前 k 個，並立即標記為已使用
func (s *Session) draw(k int) []catalog.Ingredient {
	available := make([]catalog.Ingredient, 0, s.Remaining())
	for _, ing := range s.pool {
		if _, used := s.used[ing.ID]; !used {
			available = append(available, ing)
		}
	}
	s.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	picked := make([]catalog.Ingredient, k)
	copy(picked, available[:k])
	for _, ing := range picked {
		s.used[ing.ID] = struct{}{}
	}
	return picked
}

func copyRound(r Round) Round {
	out := r
	out.Candidates = make([]catalog.Ingredient, len(r.Candidates))
	copy(out.Candidates, r.Candidates)
	return out
}
