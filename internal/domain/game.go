package domain

// Round 是棋盘轮次。输出中只允许出现这三个值（轮次由页面中 round 容器的
// id 唯一决定，不从别处推断）。
type Round string

const (
	RoundSingle Round = "single"
	RoundDouble Round = "double"
	RoundFinal  Round = "final"
)

// Clue 是棋盘上的一个格子（解析后不再修改）。
//
// 约束：
// - Value 是“棋盘面值”（美元整数）；final 轮没有面值，为 0
// - ValueLabel 保留页面上的原始文本（例如 "$400"、"DD: $1,000"），用于追溯
// - Row/Col 从 1 开始；final 轮没有棋盘位置，为 0/0
type Clue struct {
	Round           Round  `json:"round"`
	Category        string `json:"category"`
	CategoryComment string `json:"category_comment,omitempty"`

	Value       int    `json:"value"`
	ValueLabel  string `json:"value_label,omitempty"`
	DailyDouble bool   `json:"daily_double,omitempty"`

	Text     string `json:"clue"`
	Response string `json:"answer"`

	Row    int    `json:"row"`
	Col    int    `json:"col"`
	ClueID string `json:"clue_id"`
}

// Game 是一场比赛的完整解析结果（最小可用集）。
//
// Clues 按棋盘出现顺序排列；每条 Clue 只属于这一个 Game。
type Game struct {
	ID         GameID `json:"game_id"`
	ShowNumber int    `json:"show_number"`
	AirDate    string `json:"air_date"` // ISO date, e.g. "2004-07-23"
	URL        string `json:"url"`

	Clues []Clue `json:"clues"`
}
