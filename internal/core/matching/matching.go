// Package matching 依使用者選出的 tag 為所有菜色評分並排序。
package matching

import (
	"errors"
	"sort"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/pkg/common"
)

// DefaultPenaltyWeight 缺少或多餘 tag 的扣分權重
const DefaultPenaltyWeight = 0.1

// Result 單一菜色的比對結果
type Result struct {
	Dish        catalog.Dish `json:"dish"`
	MatchedTags []string     `json:"matched_tags"`
	MissingTags []string     `json:"missing_tags"`
	ExtraTags   []string     `json:"extra_tags"`
	Score       float64      `json:"score"`
}

// Perfect 菜色的 tag 與使用者完全一致
func (r Result) Perfect() bool {
	return len(r.MissingTags) == 0 && len(r.ExtraTags) == 0
}

// Scorer 評分器
type Scorer struct {
	PenaltyWeight float64
}

// NewScorer 建立評分器；weight 不合法時使用預設值
func NewScorer(weight float64) Scorer {
	if weight < 0 || weight >= 1 {
		weight = DefaultPenaltyWeight
	}
	return Scorer{PenaltyWeight: weight}
}

// RankMatches 以預設權重排序
func RankMatches(userTags []string, dishes []catalog.Dish) ([]Result, error) {
	return NewScorer(DefaultPenaltyWeight).Rank(userTags, dishes)
}

// Rank 為每道菜評分，分數高者在前；同分維持菜單原順序
func (s Scorer) Rank(userTags []string, dishes []catalog.Dish) ([]Result, error) {
	if len(dishes) == 0 {
		return nil, common.ErrInvalidCatalog.Wrap(errors.New("no dishes to rank"))
	}

	user := dedupe(userTags)
	results := make([]Result, len(dishes))
	for i, d := range dishes {
		results[i] = s.score(user, d)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (s Scorer) score(user []string, d catalog.Dish) Result {
	dishTags := dedupe(d.Tags)
	userSet := toSet(user)
	dishSet := toSet(dishTags)

	r := Result{
		Dish:        d.Clone(),
		MatchedTags: []string{},
		MissingTags: []string{},
		ExtraTags:   []string{},
	}
	for _, t := range dishTags {
		if _, ok := userSet[t]; ok {
			r.MatchedTags = append(r.MatchedTags, t)
		} else {
			r.MissingTags = append(r.MissingTags, t)
		}
	}
	for _, t := range user {
		if _, ok := dishSet[t]; !ok {
			r.ExtraTags = append(r.ExtraTags, t)
		}
	}

	r.Score = float64(len(r.MatchedTags)) -
		s.PenaltyWeight*float64(len(r.MissingTags)) -
		s.PenaltyWeight*float64(len(r.ExtraTags))
	return r
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
