package record

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/John-Robertt/jarchive/internal/domain"
)

// header 是每场比赛输出文件的固定列（对外契约，顺序不可变）。
var header = []string{"round", "category", "value", "clue", "answer"}

// Encode 把 Game 编码为 CSV：一行一个格子，按棋盘出现顺序。
//
// 规则：
// - value 列是棋盘面值的十进制整数；final 轮没有面值，留空
// - 题面里的换行（来自 <br>）依赖 CSV 引号转义原样保留
func Encode(g domain.Game) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, c := range g.Clues {
		value := ""
		if c.Round != domain.RoundFinal {
			value = strconv.Itoa(c.Value)
		}
		row := []string{string(c.Round), c.Category, value, c.Text, c.Response}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName 返回比赛输出文件名（确定性命名，方便“已存在即跳过”）。
func FileName(id domain.GameID) string {
	return string(id) + ".csv"
}
