package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// GameID 是一场比赛的唯一主键（站点内部的数字 id，例如 "4596"）。
//
// 约束：要么得到合法 GameID，要么失败；宁可失败，也不允许用空 id 构造 URL。
type GameID string

var gameIDRE = regexp.MustCompile(`^[0-9]{1,7}$`)

// ParseGameID 校验并解析 GameID 字符串（CLI 参数入口）。
func ParseGameID(s string) (GameID, bool) {
	s = strings.TrimSpace(s)
	if !gameIDRE.MatchString(s) {
		return "", false
	}
	return GameID(s), true
}

// GameIDFromURL 从比赛详情页链接中提取 GameID。
// 链接形如 "showgame.php?game_id=4596"（相对或绝对均可）。
func GameIDFromURL(href string) (GameID, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !strings.HasSuffix(u.Path, "showgame.php") && u.Path != "showgame.php" {
		return "", false
	}
	return ParseGameID(u.Query().Get("game_id"))
}
