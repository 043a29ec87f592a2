package archive

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/jarchive/internal/domain"
)

// roundMarkers 把轮次容器 id 映射到输出轮次。页面中三个轮次容器的 id 是
// 稳定标记，且其顺序与“第一张表=single、第二张=double、第三张=final”一致。
var roundMarkers = []struct {
	DivID string
	Round domain.Round
	Token string // clue id 里的轮次段：clue_<Token>_<col>_<row>
}{
	{"jeopardy_round", domain.RoundSingle, "J"},
	{"double_jeopardy_round", domain.RoundDouble, "DJ"},
	{"final_jeopardy_round", domain.RoundFinal, "FJ"},
}

// baseValue 是推导棋盘面值的行基数（daily double 的可见标签是选手下注额，
// 不是棋盘面值，所以 DD 格子一律按位置推导）。
func baseValue(round domain.Round) int {
	switch round {
	case domain.RoundSingle:
		return 200
	case domain.RoundDouble:
		return 400
	default:
		return 0
	}
}

var correctResponseRE = regexp.MustCompile(`(?s)<em class=.correct_response.[^>]*>(.*?)</em>`)

// ParseGame 把比赛详情页 HTML 解析为 domain.Game。
//
// 纯函数：相同 (id, html, pageURL) => 相同输出。任何期望标记缺失都以
// *StructureError 显式失败，不产出残缺的 Game。
func (s Site) ParseGame(id domain.GameID, htmlBody []byte, pageURL string) (domain.Game, error) {
	if id == "" {
		return domain.Game{}, errors.New("game id 不能为空")
	}
	if len(htmlBody) == 0 {
		return domain.Game{}, errors.New("html 为空")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return domain.Game{}, err
	}

	// 先校验“是不是比赛详情页”：标题必须携带场次号与播出日期。
	// 不存在的比赛（game_id 越界）返回的页面没有这两项。
	title := normSpace(doc.Find("head title").First().Text())
	if title == "" {
		return domain.Game{}, &StructureError{Marker: "head title", Hint: "疑似返回了非详情页内容"}
	}
	m := showNumRE.FindStringSubmatch(title)
	airDate := airDateRE.FindString(title)
	if m == nil || airDate == "" {
		return domain.Game{}, &StructureError{Marker: "head title", Hint: fmt.Sprintf("标题缺少场次号或播出日期：%q", title)}
	}
	showNumber, _ := strconv.Atoi(m[1])

	game := domain.Game{
		ID:         id,
		ShowNumber: showNumber,
		AirDate:    airDate,
		URL:        strings.TrimSpace(pageURL),
		Clues:      make([]domain.Clue, 0, 61),
	}

	roundsFound := 0
	for _, rm := range roundMarkers {
		div := doc.Find("div#" + rm.DivID)
		if div.Length() == 0 {
			continue
		}
		roundsFound++

		clues, err := parseRound(doc, div, rm.Round, rm.Token)
		if err != nil {
			return domain.Game{}, err
		}
		game.Clues = append(game.Clues, clues...)
	}
	if roundsFound == 0 {
		return domain.Game{}, &StructureError{Marker: "div#jeopardy_round", Hint: "未找到任何轮次容器（比赛不存在或布局变化）"}
	}

	return game, nil
}

// parseRound 解析一个轮次容器内的全部格子。
func parseRound(doc *goquery.Document, div *goquery.Selection, round domain.Round, token string) ([]domain.Clue, error) {
	categories, err := parseCategories(div, round)
	if err != nil {
		return nil, err
	}

	var parseErr error
	clues := make([]domain.Clue, 0, 30)

	div.Find("td.clue").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		clueText := findClueText(cell)
		if clueText == nil {
			// 没有 clue_text 的格子是未揭示/未使用的格子，跳过（不算错误）。
			return true
		}
		clueID, ok := clueText.Attr("id")
		if !ok || strings.TrimSpace(clueID) == "" {
			parseErr = &StructureError{Marker: "td.clue_text[id]", Hint: "格子缺少 clue id"}
			return false
		}

		cellToken, col, row, ok := parseCluePosition(clueID)
		if !ok {
			parseErr = &StructureError{Marker: "td.clue_text[id]", Hint: fmt.Sprintf("无法解析 clue id：%q", clueID)}
			return false
		}
		if cellToken == "TB" {
			// 加赛（tiebreaker）格子不属于三个轮次的任何一个，跳过。
			return true
		}
		if cellToken != token {
			parseErr = &StructureError{Marker: "td.clue_text[id]", Hint: fmt.Sprintf("clue id %q 与轮次 %s 不匹配", clueID, round)}
			return false
		}

		clue := domain.Clue{
			Round:  round,
			Text:   textWithNewlines(clueText),
			Row:    row,
			Col:    col,
			ClueID: clueID,
		}

		// 类目按列对齐：clue_J_<col>_<row> 的 col 从 1 开始。
		catIdx := col - 1
		if round == domain.RoundFinal {
			catIdx = 0
		}
		if catIdx < 0 || catIdx >= len(categories) {
			parseErr = &StructureError{Marker: "td.category_name", Hint: fmt.Sprintf("clue %q 的列号超出类目数 %d", clueID, len(categories))}
			return false
		}
		clue.Category = categories[catIdx].Name
		clue.CategoryComment = categories[catIdx].Comment

		value, label, dd, err := clueValue(cell, round, row, clueID)
		if err != nil {
			parseErr = err
			return false
		}
		clue.Value = value
		clue.ValueLabel = label
		clue.DailyDouble = dd

		resp, err := findResponse(doc, clueID)
		if err != nil {
			parseErr = err
			return false
		}
		clue.Response = resp

		clues = append(clues, clue)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return clues, nil
}

type category struct {
	Name    string
	Comment string
}

func parseCategories(div *goquery.Selection, round domain.Round) ([]category, error) {
	cells := div.Find("td.category")
	if cells.Length() == 0 {
		return nil, &StructureError{Marker: "td.category", Hint: fmt.Sprintf("%s 轮未找到类目行", round)}
	}

	out := make([]category, 0, cells.Length())
	var bad error
	cells.EachWithBreak(func(_ int, c *goquery.Selection) bool {
		name := normSpace(c.Find("td.category_name").First().Text())
		if name == "" {
			bad = &StructureError{Marker: "td.category_name", Hint: fmt.Sprintf("%s 轮类目名为空", round)}
			return false
		}
		out = append(out, category{
			Name:    name,
			Comment: normSpace(c.Find("td.category_comments").First().Text()),
		})
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}

// findClueText 在格子内定位题面元素。响应揭示元素（id 以 _r 结尾）与题面
// 共用 clue_text class，必须按 id 区分。
func findClueText(cell *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	cell.Find("td.clue_text").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if strings.HasSuffix(id, "_r") {
			return true
		}
		found = s
		return false
	})
	return found
}

// parseCluePosition 解析 clue id：
// "clue_J_3_2" => ("J", col=3, row=2)；"clue_FJ" => ("FJ", 0, 0)。
func parseCluePosition(clueID string) (token string, col, row int, ok bool) {
	parts := strings.Split(clueID, "_")
	if len(parts) < 2 || parts[0] != "clue" {
		return "", 0, 0, false
	}
	token = parts[1]
	if token == "FJ" || token == "TB" {
		return token, 0, 0, true
	}
	if len(parts) != 4 {
		return "", 0, 0, false
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil || col < 1 {
		return "", 0, 0, false
	}
	row, err = strconv.Atoi(parts[3])
	if err != nil || row < 1 {
		return "", 0, 0, false
	}
	return token, col, row, true
}

// clueValue 确定格子的棋盘面值。
//
// 规则（显式的 tie-break，且两条路径都有测试）：
// - 普通格子：可见标签 "$N" 优先；文本不合法 => *ValueError
// - daily double 格子：标签是下注额（"DD: $N"），面值按位置推导 row×基数
// - 无标签：按位置推导
// - final 轮没有面值
func clueValue(cell *goquery.Selection, round domain.Round, row int, clueID string) (value int, label string, dailyDouble bool, err error) {
	if round == domain.RoundFinal {
		return 0, "", false, nil
	}

	if plain := normSpace(cell.Find("td.clue_value").First().Text()); plain != "" {
		v, perr := parseDollar(plain)
		if perr != nil {
			return 0, "", false, &ValueError{ClueID: clueID, Label: plain}
		}
		return v, plain, false, nil
	}

	if dd := normSpace(cell.Find("td.clue_value_daily_double").First().Text()); dd != "" {
		return row * baseValue(round), dd, true, nil
	}

	return row * baseValue(round), "", false, nil
}

// parseDollar 解析 "$400" / "$1,000" 形态的面值文本。
func parseDollar(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "$") {
		return 0, fmt.Errorf("面值不以 $ 开头：%q", s)
	}
	digits := strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	if digits == "" {
		return 0, fmt.Errorf("面值没有数字：%q", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// findResponse 提取正确答案。
//
// 答案藏在两种位置（站点不同年代的布局）：
// 1) 鼠标事件属性：onmouseover 的脚本里携带 <em class="correct_response">…</em>
// 2) 静态揭示元素：#<clueID>_r 下的 em.correct_response
// 两处都没有 => *StructureError。
func findResponse(doc *goquery.Document, clueID string) (string, error) {
	sel := fmt.Sprintf("[onmouseover*='%s']", clueID)
	var resp string
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		code, _ := s.Attr("onmouseover")
		m := correctResponseRE.FindStringSubmatch(code)
		if m == nil {
			return true
		}
		resp = stripTags(m[1])
		return false
	})
	if resp != "" {
		return resp, nil
	}

	if em := doc.Find("#" + clueID + "_r").Find("em.correct_response").First(); em.Length() > 0 {
		if r := normSpace(em.Text()); r != "" {
			return r, nil
		}
	}

	return "", &StructureError{Marker: "em.correct_response", Hint: fmt.Sprintf("clue %q 未找到答案揭示元素", clueID)}
}
