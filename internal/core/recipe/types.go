package recipe

import (
	"math/rand"
	"time"

	"dish-recommender/internal/core/elicitation"
	"dish-recommender/internal/core/history"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/infrastructure/config"
)

// Rand 服務使用的隨機來源，*rand.Rand 滿足此介面
type Rand interface {
	elicitation.Rand
	Intn(n int) int
}

// Options 服務參數
type Options struct {
	Elicitation   config.ElicitationConfig
	PenaltyWeight float64
	Rand          Rand
	Now           func() time.Time
}

// OptionsFromConfig 由設定產生服務參數；Seed 為 0 時以目前時間為種子
func OptionsFromConfig(cfg *config.Config) Options {
	seed := cfg.Elicitation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Options{
		Elicitation:   cfg.Elicitation,
		PenaltyWeight: cfg.Matching.PenaltyWeight,
		Rand:          rand.New(rand.NewSource(seed)),
		Now:           time.Now,
	}
}

// Phase 目前畫面
type Phase string

const (
	PhaseQuestion Phase = "question"
	PhaseResult   Phase = "result"
	PhasePicky    Phase = "picky"
)

// ResultView 目前顯示的推薦結果
type ResultView struct {
	matching.Result
	Image       string               `json:"image"`
	Annotations []history.Annotation `json:"annotations"`
	Index       int                  `json:"index"`
	Total       int                  `json:"total"`
}

// View 呈現給呼叫端的問答狀態
type View struct {
	Mode      mode.Mode          `json:"mode"`
	Strategy  string             `json:"strategy"`
	Phase     Phase              `json:"phase"`
	Round     *elicitation.Round `json:"round,omitempty"`
	Tags      []string           `json:"tags"`
	CanFinish bool               `json:"can_finish"`
	Result    *ResultView        `json:"result,omitempty"`
	PickyQuip string             `json:"picky_quip,omitempty"`
}

// CloseResult 關閉結果畫面後的回傳
type CloseResult struct {
	Committed bool           `json:"committed"`
	Entry     *history.Entry `json:"entry,omitempty"`
}
