// Package catalog 提供菜單資料（食材、菜色、台詞）的型別、解析與載入。
// 載入後的集合不可變，供問答與配對引擎唯讀使用。
package catalog

// Ingredient 食材選項，Tag 為配對用的鍵
type Ingredient struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

// Dish 菜色；Tags 保留原始順序，可能有重複
type Dish struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// Clone 回傳不共用切片的副本（歷史紀錄快照用）
func (d Dish) Clone() Dish {
	out := d
	out.Tags = make([]string, len(d.Tags))
	copy(out.Tags, d.Tags)
	return out
}

// Quip 台詞，核心邏輯不解讀內容
type Quip struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Catalog 一次載入的完整菜單
type Catalog struct {
	Mode        string
	Ingredients []Ingredient
	Dishes      []Dish
	Quips       []Quip // 每個多餘食材的藉口台詞
	PickyQuips  []Quip // 挑食結局的台詞
}

// Ready 判斷菜單是否可開始問答與配對
func (c *Catalog) Ready() bool {
	return c != nil && len(c.Ingredients) > 0 && len(c.Dishes) > 0
}
