package recipe

import (
	"context"
	"errors"
	"sync"
	"time"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/infrastructure/config"
	"dish-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 推薦服務：管理單一問答、配對結果與歷史紀錄
type Service struct {
	mu      sync.Mutex
	loader  *catalog.Loader
	history *history.Store
	modes   *mode.Store
	assets  *mode.Assets
	scorer  matching.Scorer
	elicit  config.ElicitationConfig
	rng     Rand
	now     func() time.Time

	current mode.Mode
	quiz    *quiz
}

// NewService 創建推薦服務
func NewService(loader *catalog.Loader, hist *history.Store, modes *mode.Store, assets *mode.Assets, opts Options) (*Service, error) {
	if loader == nil || hist == nil || modes == nil || assets == nil {
		return nil, errors.New("recipe: loader, history, mode store and assets are required")
	}
	if opts.Rand == nil {
		return nil, errors.New("recipe: random source is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		loader:  loader,
		history: hist,
		modes:   modes,
		assets:  assets,
		scorer:  matching.NewScorer(opts.PenaltyWeight),
		elicit:  opts.Elicitation,
		rng:     opts.Rand,
		now:     opts.Now,
		current: mode.Default,
	}, nil
}

// Init 讀取上次的模式與歷史紀錄，並預先載入該模式的菜單
func (s *Service) Init(ctx context.Context) error {
	m := s.modes.Load(ctx)
	entries := s.history.Load(ctx)

	s.mu.Lock()
	s.current = m
	s.mu.Unlock()

	common.LogInfo("推薦服務已初始化",
		zap.String("mode", m.String()),
		zap.Int("history", len(entries)),
	)

	_, err := s.loader.Load(ctx, m.String())
	return err
}

// Ready 目前模式的菜單是否可用
func (s *Service) Ready(ctx context.Context) error {
	_, err := s.loader.Load(ctx, s.Mode().String())
	return err
}

// Mode 目前模式
func (s *Service) Mode() mode.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetMode 切換模式；進行中的問答會被放棄
func (s *Service) SetMode(ctx context.Context, m mode.Mode) error {
	if !m.Valid() {
		return common.ErrInvalidRequest.Wrap(errors.New("unknown mode"))
	}

	s.mu.Lock()
	changed := s.current != m
	s.current = m
	if changed {
		s.quiz = nil
	}
	s.mu.Unlock()

	s.modes.Save(ctx, m)
	if changed {
		common.LogInfo("模式已切換", zap.String("mode", m.String()))
	}
	return nil
}

// Match 直接以 tag 對目前模式的菜單排序，不影響問答狀態
func (s *Service) Match(ctx context.Context, tags []string) ([]matching.Result, error) {
	c, err := s.loader.Load(ctx, s.Mode().String())
	if err != nil {
		return nil, err
	}
	return s.scorer.Rank(tags, c.Dishes)
}

// ImagePath 解析菜色圖片路徑
func (s *Service) ImagePath(m mode.Mode, image string) string {
	return s.assets.ImagePath(m, image)
}

// History 回傳歷史紀錄；m 為 nil 時回傳全部
func (s *Service) History(m *mode.Mode) []history.Entry {
	if m == nil {
		return s.history.Entries()
	}
	return s.history.ByMode(*m)
}

// ClearHistory 清空歷史紀錄
func (s *Service) ClearHistory(ctx context.Context) {
	s.history.Clear(ctx)
	common.LogInfo("歷史紀錄已清空")
}
