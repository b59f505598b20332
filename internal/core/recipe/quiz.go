package recipe

import (
	"context"
	"errors"
	"fmt"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/elicitation"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrStaleRound 作答的輪次不是目前這一輪（重複送出或過期的畫面）
var ErrStaleRound = errors.New("answer is for a different round")

// quiz 一次問答從開始到關閉結果畫面的狀態
type quiz struct {
	mode        mode.Mode
	catalog     *catalog.Catalog
	session     *elicitation.Session
	tags        []string
	browser     *matching.Browser
	annotations []history.Annotation
	picky       bool
	pickyQuip   string
}

func (q *quiz) phase() Phase {
	switch {
	case q.picky:
		return PhasePicky
	case q.browser != nil:
		return PhaseResult
	default:
		return PhaseQuestion
	}
}

// Start 以目前模式開始新的問答，取代任何進行中的問答
func (s *Service) Start(ctx context.Context) (View, error) {
	m := s.Mode()
	c, err := s.loader.Load(ctx, m.String())
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := elicitation.NewSession(m.Rules(s.elicit), c.Ingredients, s.rng)
	if err != nil {
		return View{}, mapSessionError(err)
	}
	s.quiz = &quiz{mode: m, catalog: c, session: session}

	common.LogInfo("問答開始",
		zap.String("mode", m.String()),
		zap.String("strategy", session.Rules().Strategy.String()),
		zap.Int("ingredients", len(c.Ingredients)),
	)

	if err := s.settle(s.quiz); err != nil {
		return View{}, err
	}
	return s.view(s.quiz), nil
}

// Current 回傳目前問答狀態
func (s *Service) Current() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil {
		return View{}, common.ErrSessionNotStarted
	}
	return s.view(s.quiz), nil
}

// Answer 回答第 round 輪；ids 為空表示都不要。
// round 必須是目前這一輪，重複送出的作答會回傳衝突。
func (s *Service) Answer(ctx context.Context, round int, ids []int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questioning()
	if err != nil {
		return View{}, err
	}
	if cur, ok := q.session.Current(); ok && cur.Number != round {
		return View{}, common.ErrConflict.Wrap(fmt.Errorf("%w: got %d, current %d", ErrStaleRound, round, cur.Number))
	}
	if err := q.session.Answer(ids...); err != nil {
		return View{}, mapSessionError(err)
	}
	if err := s.settle(q); err != nil {
		return View{}, err
	}
	return s.view(q), nil
}

// Finish 提前結束問答並以目前的 tag 配對
func (s *Service) Finish(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questioning()
	if err != nil {
		return View{}, err
	}
	if _, err := q.session.Finish(); err != nil {
		return View{}, mapSessionError(err)
	}
	if err := s.settle(q); err != nil {
		return View{}, err
	}
	return s.view(q), nil
}

// Next 顯示下一道相近的菜色，到底後回到第一道，並重新挑選台詞。
// 只有一道結果時畫面不變。
func (s *Service) Next(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil {
		return View{}, common.ErrSessionNotStarted
	}
	q := s.quiz
	switch q.phase() {
	case PhasePicky:
		return View{}, common.ErrElicitationAborted
	case PhaseQuestion:
		return View{}, common.ErrConflict.Wrap(errors.New("no result to browse yet"))
	}

	if q.browser.Len() <= 1 {
		return s.view(q), nil
	}
	r, _ := q.browser.Next()
	q.annotations = history.Annotate(r.ExtraTags, q.catalog.Quips, s.rng)
	return s.view(q), nil
}

// Close 關閉結果畫面：顯示中的菜色寫入歷史紀錄。
// 挑食結局或尚未作答完畢時不寫入，只放棄問答。
func (s *Service) Close(ctx context.Context) (CloseResult, error) {
	s.mu.Lock()
	q := s.quiz
	s.quiz = nil
	s.mu.Unlock()

	if q == nil {
		return CloseResult{}, common.ErrSessionNotStarted
	}
	if q.phase() != PhaseResult {
		common.LogInfo("問答已放棄", zap.String("phase", string(q.phase())))
		return CloseResult{}, nil
	}

	r, ok := q.browser.Current()
	if !ok {
		return CloseResult{}, nil
	}
	entry := history.NewEntry(r, q.tags, q.annotations, q.mode, s.now())
	s.history.Append(ctx, entry)

	common.LogInfo("推薦結果已記錄",
		zap.String("id", entry.ID),
		zap.String("dish", entry.Dish.Name),
		zap.Float64("score", r.Score),
	)
	return CloseResult{Committed: true, Entry: &entry}, nil
}

func (s *Service) questioning() (*quiz, error) {
	if s.quiz == nil {
		return nil, common.ErrSessionNotStarted
	}
	if s.quiz.phase() != PhaseQuestion {
		return nil, common.ErrConflict.Wrap(elicitation.ErrSessionClosed)
	}
	return s.quiz, nil
}

// settle 問答結束時轉為配對結果或挑食結局
func (s *Service) settle(q *quiz) error {
	if !q.session.Done() {
		return nil
	}
	out, err := q.session.Outcome()
	if err != nil {
		return mapSessionError(err)
	}
	q.tags = out.Tags

	if out.Aborted {
		q.picky = true
		q.pickyQuip = catalog.RandomQuip(q.catalog.PickyQuips, s.rng)
		common.LogInfo("挑食結局", zap.Int("rounds", out.Rounds))
		return nil
	}

	results, err := s.scorer.Rank(out.Tags, q.catalog.Dishes)
	if err != nil {
		return err
	}
	q.browser = matching.NewBrowser(results)
	top, _ := q.browser.Current()
	q.annotations = history.Annotate(top.ExtraTags, q.catalog.Quips, s.rng)

	common.LogInfo("問答完成",
		zap.Strings("tags", out.Tags),
		zap.Int("rounds", out.Rounds),
		zap.String("top", top.Dish.Name),
	)
	return nil
}

func (s *Service) view(q *quiz) View {
	v := View{
		Mode:     q.mode,
		Strategy: q.session.Rules().Strategy.String(),
		Phase:    q.phase(),
		Tags:     q.session.Tags(),
	}

	switch v.Phase {
	case PhaseQuestion:
		if r, ok := q.session.Current(); ok {
			v.Round = &r
		}
		v.CanFinish = q.session.Rules().AllowFinish
	case PhaseResult:
		r, _ := q.browser.Current()
		notes := make([]history.Annotation, len(q.annotations))
		copy(notes, q.annotations)
		v.Result = &ResultView{
			Result:      r,
			Image:       s.assets.ImagePath(q.mode, r.Dish.Image),
			Annotations: notes,
			Index:       q.browser.Index(),
			Total:       q.browser.Len(),
		}
	case PhasePicky:
		v.PickyQuip = q.pickyQuip
	}
	return v
}

// mapSessionError 將問答錯誤轉為帶代碼的錯誤
func mapSessionError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, elicitation.ErrInvalidSelection),
		errors.Is(err, elicitation.ErrSelectionExceedsCap):
		return common.ErrInvalidSelection.Wrap(err)
	case errors.Is(err, elicitation.ErrSessionClosed),
		errors.Is(err, elicitation.ErrFinishNotAllowed),
		errors.Is(err, elicitation.ErrInProgress):
		return common.ErrConflict.Wrap(err)
	default:
		return common.ErrInternalError.Wrap(err)
	}
}
