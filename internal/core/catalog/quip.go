package catalog

// FallbackQuip 台詞清單為空時使用
const FallbackQuip = "The chef has nothing to say right now..."

// Intn 隨機來源；*rand.Rand 滿足此介面
type Intn interface {
	Intn(n int) int
}

// RandomQuip 均勻隨機挑一句台詞
func RandomQuip(quips []Quip, rng Intn) string {
	if len(quips) == 0 {
		return FallbackQuip
	}
	text := quips[rng.Intn(len(quips))].Text
	if text == "" {
		return FallbackQuip
	}
	return text
}
