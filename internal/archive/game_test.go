package archive

import (
	"errors"
	"reflect"
	"testing"

	"github.com/John-Robertt/jarchive/internal/domain"
)

// gameFixture 覆盖三种答案藏匿方式与三种面值形态：
// - clue_J_1_1：onmouseover 答案 + 普通面值标签
// - clue_J_2_1：静态 _r 揭示元素答案
// - clue_J_1_2：daily double（标签是下注额）
// - 一个未揭示的空格子（不产出 Clue）
const gameFixture = `<html><head><title>J! Archive - Show #4596, aired 2004-11-30</title></head><body>
<div id="jeopardy_round">
<table>
<tr>
 <td class="category"><table><tr><td class="category_name">U.S. HISTORY</td></tr><tr><td class="category_comments">(Alex: Presidents only.)</td></tr></table></td>
 <td class="category"><table><tr><td class="category_name">SCIENCE</td></tr></table></td>
</tr>
<tr>
 <td class="clue">
  <table><tr><td><div onmouseover="toggle('clue_J_1_1', 'clue_J_1_1_r', '&lt;em class=&quot;correct_response&quot;&gt;George &lt;i&gt;Washington&lt;/i&gt;&lt;/em&gt;')"><table><tr><td class="clue_value">$200</td></tr></table></div></td></tr>
  <tr><td id="clue_J_1_1" class="clue_text">First president<br />of the U.S.</td></tr></table>
 </td>
 <td class="clue">
  <table><tr><td><table><tr><td class="clue_value">$200</td></tr></table></td></tr>
  <tr><td id="clue_J_2_1" class="clue_text">He formulated a law of gravity</td></tr>
  <tr><td id="clue_J_2_1_r" class="clue_text" style="display:none;">The correct response: <em class="correct_response">Isaac Newton</em></td></tr></table>
 </td>
</tr>
<tr>
 <td class="clue">
  <table><tr><td><div onmouseover="toggle('clue_J_1_2', 'clue_J_1_2_r', '&lt;em class=&quot;correct_response&quot;&gt;John Adams&lt;/em&gt;')"><table><tr><td class="clue_value_daily_double">DD: $1,500</td></tr></table></div></td></tr>
  <tr><td id="clue_J_1_2" class="clue_text">Second president</td></tr></table>
 </td>
 <td class="clue"></td>
</tr>
</table>
</div>
<div id="double_jeopardy_round">
<table>
<tr>
 <td class="category"><table><tr><td class="category_name">OPERA</td></tr></table></td>
</tr>
<tr>
 <td class="clue">
  <table><tr><td><div onmouseover="toggle('clue_DJ_1_3', 'clue_DJ_1_3_r', '&lt;em class=&quot;correct_response&quot;&gt;Carmen&lt;/em&gt;')"><table><tr><td class="clue_value">$1,200</td></tr></table></div></td></tr>
  <tr><td id="clue_DJ_1_3" class="clue_text">Bizet opera set in Seville</td></tr></table>
 </td>
</tr>
</table>
</div>
<div id="final_jeopardy_round">
<table>
<tr><td class="category"><table><tr><td class="category_name">WORLD CAPITALS</td></tr></table></td></tr>
<tr><td class="clue">
 <div onmouseover="toggle('clue_FJ', 'clue_FJ_r', '&lt;em class=&quot;correct_response&quot;&gt;Canberra&lt;/em&gt;')"><table><tr><td id="clue_FJ" class="clue_text">Australia&#39;s capital city</td></tr></table></div>
</td></tr>
</table>
</div>
</body></html>`

func mustParseGame(t *testing.T, html string) domain.Game {
	t.Helper()
	site := New("")
	id, _ := domain.ParseGameID("4596")
	g, err := site.ParseGame(id, []byte(html), site.GameURL(id))
	if err != nil {
		t.Fatalf("ParseGame 失败：%v", err)
	}
	return g
}

func TestParseGame_Board(t *testing.T) {
	g := mustParseGame(t, gameFixture)

	if g.ShowNumber != 4596 || g.AirDate != "2004-11-30" {
		t.Fatalf("标题解析不正确：show=%d air=%q", g.ShowNumber, g.AirDate)
	}

	// 可解析格子数 == 揭示过的格子数（空格子不产出 Clue）。
	if len(g.Clues) != 5 {
		t.Fatalf("期望 5 条 Clue，实际 %d：%+v", len(g.Clues), g.Clues)
	}

	// 轮次只允许出现 single/double/final。
	for _, c := range g.Clues {
		switch c.Round {
		case domain.RoundSingle, domain.RoundDouble, domain.RoundFinal:
		default:
			t.Fatalf("非法轮次：%q（clue=%s）", c.Round, c.ClueID)
		}
	}

	byID := make(map[string]domain.Clue, len(g.Clues))
	for _, c := range g.Clues {
		byID[c.ClueID] = c
	}

	// onmouseover 答案 + <br> 分行 + 类目注释。
	c := byID["clue_J_1_1"]
	if c.Response != "George Washington" {
		t.Fatalf("clue_J_1_1 答案不正确：%q", c.Response)
	}
	if c.Text != "First president\nof the U.S." {
		t.Fatalf("clue_J_1_1 题面不正确：%q", c.Text)
	}
	if c.Value != 200 || c.ValueLabel != "$200" || c.DailyDouble {
		t.Fatalf("clue_J_1_1 面值不正确：%+v", c)
	}
	if c.Category != "U.S. HISTORY" || c.CategoryComment != "(Alex: Presidents only.)" {
		t.Fatalf("clue_J_1_1 类目不正确：%+v", c)
	}
	if c.Row != 1 || c.Col != 1 {
		t.Fatalf("clue_J_1_1 位置不正确：row=%d col=%d", c.Row, c.Col)
	}

	// 静态 _r 揭示元素答案。
	if byID["clue_J_2_1"].Response != "Isaac Newton" {
		t.Fatalf("clue_J_2_1 答案不正确：%q", byID["clue_J_2_1"].Response)
	}
	if byID["clue_J_2_1"].Category != "SCIENCE" {
		t.Fatalf("clue_J_2_1 类目不正确：%q", byID["clue_J_2_1"].Category)
	}

	// daily double：面值按位置推导（row 2 × 200），标签保留下注额。
	dd := byID["clue_J_1_2"]
	if !dd.DailyDouble || dd.Value != 400 || dd.ValueLabel != "DD: $1,500" {
		t.Fatalf("daily double 面值规则不正确：%+v", dd)
	}
	if dd.Response != "John Adams" {
		t.Fatalf("clue_J_1_2 答案不正确：%q", dd.Response)
	}

	// double 轮普通标签优先（带千分位）。
	dj := byID["clue_DJ_1_3"]
	if dj.Round != domain.RoundDouble || dj.Value != 1200 || dj.Category != "OPERA" {
		t.Fatalf("clue_DJ_1_3 解析不正确：%+v", dj)
	}

	// final：无面值、无位置。
	fj := byID["clue_FJ"]
	if fj.Round != domain.RoundFinal || fj.Value != 0 || fj.Row != 0 || fj.Col != 0 {
		t.Fatalf("clue_FJ 解析不正确：%+v", fj)
	}
	if fj.Category != "WORLD CAPITALS" || fj.Response != "Canberra" {
		t.Fatalf("clue_FJ 类目/答案不正确：%+v", fj)
	}
}

func TestParseGame_Idempotent(t *testing.T) {
	// 同一输入重复解析必须得到相同输出（面值提取尤其如此）。
	a := mustParseGame(t, gameFixture)
	b := mustParseGame(t, gameFixture)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("重复解析结果不一致：\n%+v\n%+v", a, b)
	}
}

func TestParseGame_MissingLabelDerivesFromPosition(t *testing.T) {
	const fixture = `<html><head><title>J! Archive - Show #100, aired 1999-01-04</title></head><body>
<div id="double_jeopardy_round">
<table>
<tr><td class="category"><table><tr><td class="category_name">WORDS</td></tr></table></td></tr>
<tr><td class="clue">
 <table><tr><td id="clue_DJ_1_4" class="clue_text">No value label on this one</td></tr>
 <tr><td id="clue_DJ_1_4_r" class="clue_text"><em class="correct_response">palindrome</em></td></tr></table>
</td></tr>
</table>
</div>
</body></html>`

	g := mustParseGame(t, fixture)
	if len(g.Clues) != 1 {
		t.Fatalf("期望 1 条 Clue，实际 %d", len(g.Clues))
	}
	// 无标签：row 4 × 400。
	if g.Clues[0].Value != 1600 || g.Clues[0].ValueLabel != "" || g.Clues[0].DailyDouble {
		t.Fatalf("位置推导面值不正确：%+v", g.Clues[0])
	}
}

func TestParseGame_NotAGamePage(t *testing.T) {
	site := New("")
	id, _ := domain.ParseGameID("999999")

	_, err := site.ParseGame(id, []byte("<html><head><title>J! Archive</title></head><body>No game here.</body></html>"), site.GameURL(id))
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("期望 *StructureError，实际 %T：%v", err, err)
	}
}

func TestParseGame_BadValueLabel(t *testing.T) {
	const fixture = `<html><head><title>J! Archive - Show #100, aired 1999-01-04</title></head><body>
<div id="jeopardy_round">
<table>
<tr><td class="category"><table><tr><td class="category_name">WORDS</td></tr></table></td></tr>
<tr><td class="clue">
 <table><tr><td><table><tr><td class="clue_value">four hundred</td></tr></table></td></tr>
 <tr><td id="clue_J_1_2" class="clue_text">Bad label</td></tr>
 <tr><td id="clue_J_1_2_r" class="clue_text"><em class="correct_response">x</em></td></tr></table>
</td></tr>
</table>
</div>
</body></html>`

	site := New("")
	id, _ := domain.ParseGameID("100")
	_, err := site.ParseGame(id, []byte(fixture), site.GameURL(id))
	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 *ValueError，实际 %T：%v", err, err)
	}
}

func TestParseGame_MissingResponse(t *testing.T) {
	const fixture = `<html><head><title>J! Archive - Show #100, aired 1999-01-04</title></head><body>
<div id="jeopardy_round">
<table>
<tr><td class="category"><table><tr><td class="category_name">WORDS</td></tr></table></td></tr>
<tr><td class="clue">
 <table><tr><td><table><tr><td class="clue_value">$400</td></tr></table></td></tr>
 <tr><td id="clue_J_1_2" class="clue_text">No answer anywhere</td></tr></table>
</td></tr>
</table>
</div>
</body></html>`

	site := New("")
	id, _ := domain.ParseGameID("100")
	_, err := site.ParseGame(id, []byte(fixture), site.GameURL(id))
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("期望 *StructureError，实际 %T：%v", err, err)
	}
}
