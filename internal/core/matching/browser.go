package matching

// Browser 依序瀏覽排序後的結果，到底後回到第一筆
type Browser struct {
	results []Result
	index   int
}

// NewBrowser 建立瀏覽器，從最佳結果開始
func NewBrowser(results []Result) *Browser {
	return &Browser{results: results}
}

// Len 結果數
func (b *Browser) Len() int { return len(b.results) }

// Index 目前位置
func (b *Browser) Index() int { return b.index }

// Current 目前顯示的結果
func (b *Browser) Current() (Result, bool) {
	if len(b.results) == 0 {
		return Result{}, false
	}
	return b.results[b.index], true
}

// Next 移到下一筆並回傳
func (b *Browser) Next() (Result, bool) {
	if len(b.results) == 0 {
		return Result{}, false
	}
	b.index = (b.index + 1) % len(b.results)
	return b.results[b.index], true
}
