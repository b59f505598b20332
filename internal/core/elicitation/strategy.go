// Package elicitation 實作問答流程：每一輪抽出尚未出現過的食材，
// 累積使用者選擇的 tag，並判斷何時完成或以「挑食」結束。
package elicitation

import "errors"

// Strategy 問答方式
type Strategy int

const (
	// Paired 每輪兩個食材擇一，或兩個都不要
	Paired Strategy = iota
	// MultiSelect 每輪最多三個食材，可複選，可提前結束
	MultiSelect
)

// String 回傳可讀名稱
func (s Strategy) String() string {
	switch s {
	case Paired:
		return "paired"
	case MultiSelect:
		return "multi_select"
	default:
		return "unknown"
	}
}

// 預設參數
const (
	DefaultPairedTarget   = 3
	DefaultMultiCap       = 5
	DefaultMultiRoundSize = 3
)

// Rules 每種問答方式的參數，以資料描述而非子類別
type Rules struct {
	Strategy       Strategy
	RoundSize      int  // 每輪最多抽出的食材數
	MinPool        int  // 剩餘食材少於此數時結束
	TagTarget      int  // 累積到此數量即完成（MultiSelect 為上限）
	AllowNeither   bool // 可以一個都不選
	AbortWhenEmpty bool // 食材耗盡且沒有任何 tag 時以挑食結束
	AllowFinish    bool // 呼叫端可以提前結束
}

// DefaultRules 回傳某問答方式的預設參數
func DefaultRules(s Strategy) Rules {
	switch s {
	case MultiSelect:
		return MultiSelectRules(DefaultMultiCap, DefaultMultiRoundSize)
	default:
		return PairedRules(DefaultPairedTarget)
	}
}

// PairedRules 兩兩擇一的參數
func PairedRules(target int) Rules {
	return Rules{
		Strategy:       Paired,
		RoundSize:      2,
		MinPool:        2,
		TagTarget:      target,
		AllowNeither:   true,
		AbortWhenEmpty: true,
	}
}

// MultiSelectRules 複選的參數
func MultiSelectRules(limit, roundSize int) Rules {
	return Rules{
		Strategy:     MultiSelect,
		RoundSize:    roundSize,
		MinPool:      1,
		TagTarget:    limit,
		AllowNeither: true,
		AllowFinish:  true,
	}
}

func (r Rules) validate() error {
	if r.RoundSize <= 0 || r.MinPool <= 0 || r.TagTarget <= 0 {
		return errors.New("elicitation: round size, min pool and tag target must be positive")
	}
	if r.MinPool > r.RoundSize {
		return errors.New("elicitation: min pool cannot exceed round size")
	}
	return nil
}
