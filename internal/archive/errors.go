package archive

import (
	"fmt"
	"strings"
)

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
// Fetch* 返回该错误，让上层生成更可操作的 error_msg（404 通常意味着比赛不存在）。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// StructureError 表示页面中缺失了期望的结构标记（站点布局漂移，或该比赛
// 从未举行/页面不存在）。每个解析函数都声明自己依赖的标记，缺失必须显式
// 失败，不允许静默返回空值。
type StructureError struct {
	Marker string // 期望的标记，例如 "td.category_name"、"head title"
	Hint   string // 可选：给用户的定位提示
}

func (e *StructureError) Error() string {
	if e == nil {
		return "structure error"
	}
	if strings.TrimSpace(e.Hint) == "" {
		return fmt.Sprintf("页面缺少期望标记 %q", e.Marker)
	}
	return fmt.Sprintf("页面缺少期望标记 %q（%s）", e.Marker, e.Hint)
}

// ValueError 表示格子的面值文本无法解析（既不是 "$N" 也不是 "DD: $N"）。
type ValueError struct {
	ClueID string
	Label  string
}

func (e *ValueError) Error() string {
	if e == nil {
		return "value error"
	}
	return fmt.Sprintf("无法解析面值文本 %q（clue=%s）", e.Label, e.ClueID)
}
