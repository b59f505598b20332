// Package history 保存使用者接受過的推薦結果：最新的在前，超過容量時淘汰最舊的。
package history

import (
	"time"

	"dish-recommender/internal/core/catalog"
	"dish-recommender/internal/core/matching"
	"dish-recommender/internal/core/mode"
	"dish-recommender/internal/pkg/common"
)

// SchemaVersion 目前的紀錄格式版本
const SchemaVersion = 2

// DefaultCapacity 預設最多保留的筆數
const DefaultCapacity = 50

// Annotation 多出來的 tag 對應的一句台詞
type Annotation struct {
	Tag  string `json:"tag"`
	Note string `json:"note"`
}

// Entry 一筆歷史紀錄；建立後不再修改
type Entry struct {
	ID          string       `json:"id"`
	Timestamp   int64        `json:"timestamp"`
	Dish        catalog.Dish `json:"dish"`
	UserTags    []string     `json:"user_tags"`
	MatchedTags []string     `json:"matched_tags"`
	MissingTags []string     `json:"missing_tags"`
	ExtraTags   []string     `json:"extra_tags"`
	Annotations []Annotation `json:"annotations"`
	Mode        mode.Mode    `json:"mode"`
	LegacyNote  string       `json:"quip,omitempty"`
	Version     int          `json:"version"`
}

// Time 回傳建立時間
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// NewEntry 以比對結果建立紀錄快照
func NewEntry(result matching.Result, userTags []string, annotations []Annotation, m mode.Mode, now time.Time) Entry {
	notes := make([]Annotation, len(annotations))
	copy(notes, annotations)

	e := Entry{
		ID:          common.NewEntryID(),
		Timestamp:   now.UnixMilli(),
		Dish:        result.Dish.Clone(),
		UserTags:    common.CloneStrings(userTags),
		MatchedTags: common.CloneStrings(result.MatchedTags),
		MissingTags: common.CloneStrings(result.MissingTags),
		ExtraTags:   common.CloneStrings(result.ExtraTags),
		Annotations: notes,
		Mode:        m,
		Version:     SchemaVersion,
	}
	if len(notes) > 0 {
		e.LegacyNote = notes[0].Note
	}
	return e
}

// Annotate 為每個多出來的 tag 隨機挑一句台詞
func Annotate(extraTags []string, quips []catalog.Quip, rng catalog.Intn) []Annotation {
	out := make([]Annotation, 0, len(extraTags))
	for _, tag := range extraTags {
		out = append(out, Annotation{Tag: tag, Note: catalog.RandomQuip(quips, rng)})
	}
	return out
}

// legacyDish 第一版紀錄的菜色欄位
type legacyDish struct {
	ID          int      `json:"id"`
	Name        string   `json:"nazev"`
	Tags        []string `json:"tagy"`
	Image       string   `json:"obrazek"`
	Description string   `json:"popis"`
}

type legacyNote struct {
	Tag  string `json:"tag"`
	Note string `json:"hlaska"`
}

// storedEntry 解碼用：同時接受目前與第一版（camelCase）的欄位名稱
type storedEntry struct {
	Entry
	OldDish        *legacyDish  `json:"jidlo,omitempty"`
	OldUserTags    []string     `json:"userTags,omitempty"`
	OldMatchedTags []string     `json:"matchedTags,omitempty"`
	OldMissingTags []string     `json:"missingTags,omitempty"`
	OldExtraTags   []string     `json:"extraTags,omitempty"`
	OldNotes       []legacyNote `json:"hlasky,omitempty"`
	OldNote        string       `json:"hlaska,omitempty"`
	OldMode        string       `json:"gameMode,omitempty"`
}

// upgrade 以第一版欄位補上目前欄位沒有的值，再交給 migrate
func (r storedEntry) upgrade() Entry {
	e := r.Entry
	if r.OldDish != nil && e.Dish.Name == "" && len(e.Dish.Tags) == 0 {
		e.Dish = catalog.Dish{
			ID:          r.OldDish.ID,
			Name:        r.OldDish.Name,
			Tags:        r.OldDish.Tags,
			Image:       r.OldDish.Image,
			Description: r.OldDish.Description,
		}
	}
	if e.UserTags == nil {
		e.UserTags = r.OldUserTags
	}
	if e.MatchedTags == nil {
		e.MatchedTags = r.OldMatchedTags
	}
	if e.MissingTags == nil {
		e.MissingTags = r.OldMissingTags
	}
	if e.ExtraTags == nil {
		e.ExtraTags = r.OldExtraTags
	}
	if e.Annotations == nil && len(r.OldNotes) > 0 {
		e.Annotations = make([]Annotation, len(r.OldNotes))
		for i, n := range r.OldNotes {
			e.Annotations[i] = Annotation{Tag: n.Tag, Note: n.Note}
		}
	}
	if e.LegacyNote == "" {
		e.LegacyNote = r.OldNote
	}
	if e.Mode == "" {
		e.Mode = mode.Mode(r.OldMode)
	}
	return migrate(e)
}

// migrate 補齊舊版紀錄缺少的欄位
func migrate(e Entry) Entry {
	if e.Annotations == nil {
		e.Annotations = []Annotation{}
	}
	if m, err := mode.Parse(string(e.Mode)); err == nil {
		e.Mode = m
	} else {
		e.Mode = mode.Default
	}
	if e.UserTags == nil {
		e.UserTags = []string{}
	}
	if e.MatchedTags == nil {
		e.MatchedTags = []string{}
	}
	if e.MissingTags == nil {
		e.MissingTags = []string{}
	}
	if e.ExtraTags == nil {
		e.ExtraTags = []string{}
	}
	if e.Dish.Tags == nil {
		e.Dish.Tags = []string{}
	}
	if e.Version < SchemaVersion {
		e.Version = SchemaVersion
	}
	return e
}
