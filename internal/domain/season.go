package domain

import (
	"sort"
	"time"
)

// GameRef 是赛季页上一条比赛链接的最小记录（id + 链接文本里的信息）。
type GameRef struct {
	ID         GameID `json:"game_id"`
	ShowNumber int    `json:"show_number,omitempty"`
	AirDate    string `json:"air_date,omitempty"`
}

// SeasonRecord 是一个赛季与其比赛 id 列表的聚合记录。
// 一次爬取生成一条；写入后不再修改。
type SeasonRecord struct {
	Season int    `json:"season"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Count  int    `json:"count"`

	Games []GameRef `json:"games"`
}

// Metadata 是 seasons 命令的唯一产物（metadata.json），也是 games 命令
// 无参运行时的输入。
type Metadata struct {
	Source     string         `json:"source"`
	SourceURL  string         `json:"source_url"`
	Seasons    []SeasonRecord `json:"seasons"`
	AccessedAt time.Time      `json:"accessed_at"`
}

// Finalize 做三件事：
// 1) AccessedAt 统一为 UTC（JSON 输出为 RFC3339 且后缀 Z）
// 2) seasons 按季号升序稳定排序
// 3) 每个赛季内去重 GameID（保留首次出现的顺序），并重算 Count
func (m *Metadata) Finalize() {
	m.AccessedAt = m.AccessedAt.UTC()

	sort.SliceStable(m.Seasons, func(i, j int) bool {
		return m.Seasons[i].Season < m.Seasons[j].Season
	})

	for i := range m.Seasons {
		s := &m.Seasons[i]
		seen := make(map[GameID]struct{}, len(s.Games))
		out := s.Games[:0]
		for _, g := range s.Games {
			if g.ID == "" {
				continue
			}
			if _, ok := seen[g.ID]; ok {
				continue
			}
			seen[g.ID] = struct{}{}
			out = append(out, g)
		}
		s.Games = out
		s.Count = len(out)
	}
}

// AllGames 按赛季顺序展开所有 GameRef（games 命令无参运行时的迭代来源）。
func (m *Metadata) AllGames() []GameRef {
	out := make([]GameRef, 0, 256)
	for i := range m.Seasons {
		out = append(out, m.Seasons[i].Games...)
	}
	return out
}
