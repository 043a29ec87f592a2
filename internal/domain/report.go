package domain

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

const (
	ErrCodeFetchFailed       = "fetch_failed"
	ErrCodeParseFailed       = "parse_failed"
	ErrCodeIOFailed          = "io_failed"
	ErrCodeConfigNotFound    = "config_not_found"
	ErrCodeConfigInvalid     = "config_invalid"
	ErrCodeConfigMissingPath = "config_missing_path"
)

// RunReport 是对外稳定输出（stdout JSON）的结构。
// 两个命令共用：seasons 的 item 以 Season 标识，games 的 item 以 GameID 标识。
type RunReport struct {
	Path    string `json:"path"`
	Command string `json:"command"` // "seasons" | "games"
	DryRun  bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Items   []ItemResult  `json:"items"`
}

type ReportSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type ItemResult struct {
	Season  int    `json:"season,omitempty"`
	GameID  string `json:"game_id,omitempty"`
	AirDate string `json:"air_date,omitempty"`
	URL     string `json:"url,omitempty"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`

	// Output 是写入文件的相对路径（dry-run 或失败时为空）。
	Output string `json:"output,omitempty"`
	// Clues 是该比赛解析出的格子数（games 命令；seasons 命令恒为 0）。
	Clues int `json:"clues,omitempty"`
	// GamesFound 是该赛季解析出的比赛数（seasons 命令；games 命令恒为 0）。
	GamesFound int `json:"games_found,omitempty"`
}

// Key 返回 item 的排序锚点：赛季用季号，比赛用数字 id；合成条目排在最后。
func (it ItemResult) Key() (int, bool) {
	if it.GameID != "" {
		if n, err := strconv.Atoi(it.GameID); err == nil {
			return n, true
		}
		return 0, false
	}
	if it.Season > 0 {
		return it.Season, true
	}
	return 0, false
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按季号/比赛 id 升序；无锚点的合成条目排在最后
// 3) summary 由 items 计算得出
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a, aok := r.Items[i].Key()
		b, bok := r.Items[j].Key()
		if !aok && !bok {
			return false
		}
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		return a < b
	})

	var s ReportSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusProcessed:
			s.Processed++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
