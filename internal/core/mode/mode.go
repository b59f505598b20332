// Package mode 定義兩種使用模式，以及各模式對應的問答方式與素材路徑。
package mode

import (
	"fmt"
	"strings"

	"dish-recommender/internal/core/elicitation"
	"dish-recommender/internal/infrastructure/config"
)

// Mode 使用模式
type Mode string

const (
	// Experimental 兩兩擇一（A）
	Experimental Mode = "experimental"
	// Serious 複選（B）
	Serious Mode = "serious"
)

// Default 未設定或無法辨識時使用的模式
const Default = Experimental

// All 所有模式
var All = []Mode{Experimental, Serious}

// Parse 解析模式名稱，也接受 A / B
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "experimental", "a":
		return Experimental, nil
	case "serious", "b":
		return Serious, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Valid 是否為已知模式
func (m Mode) Valid() bool {
	return m == Experimental || m == Serious
}

// Letter 回傳 A 或 B
func (m Mode) Letter() string {
	if m == Serious {
		return "B"
	}
	return "A"
}

// String 回傳模式名稱
func (m Mode) String() string { return string(m) }

// Strategy 模式對應的問答方式
func (m Mode) Strategy() elicitation.Strategy {
	switch m {
	case Serious:
		return elicitation.MultiSelect
	default:
		return elicitation.Paired
	}
}

// Rules 依設定產生問答參數；設定為零值時使用預設
func (m Mode) Rules(cfg config.ElicitationConfig) elicitation.Rules {
	switch m.Strategy() {
	case elicitation.MultiSelect:
		limit, size := cfg.MultiCap, cfg.MultiRoundSize
		if limit <= 0 {
			limit = elicitation.DefaultMultiCap
		}
		if size <= 0 {
			size = elicitation.DefaultMultiRoundSize
		}
		return elicitation.MultiSelectRules(limit, size)
	default:
		target := cfg.PairedTarget
		if target <= 0 {
			target = elicitation.DefaultPairedTarget
		}
		return elicitation.PairedRules(target)
	}
}
