package mode

import (
	"path"
	"strings"
)

// Assets 依模式解析菜色圖片路徑
type Assets struct {
	base string
}

// NewAssets 建立路徑解析器
func NewAssets(base string) *Assets {
	return &Assets{base: strings.TrimRight(base, "/")}
}

// ImagePath 回傳 <base>/<mode>/dish-img/<image>，.webp 換成 .png
func (a *Assets) ImagePath(m Mode, image string) string {
	if image == "" {
		return ""
	}
	if !m.Valid() {
		m = Default
	}
	name := strings.Replace(image, ".webp", ".png", 1)
	p := path.Join(m.String(), "dish-img", name)
	if a.base == "" {
		return p
	}
	return a.base + "/" + p
}
