package crawl

import (
	"fmt"
	"strings"
	"time"

	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/domain"
)

// nopObserver 用于测试：吞掉所有事件。
type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig, string)             {}
func (nopObserver) OnPhaseDone(string, map[string]any, time.Duration)  {}
func (nopObserver) OnItemDone(int, int, domain.ItemResult, time.Duration) {}
func (nopObserver) OnProgress(int, int, int, int, int, time.Duration)  {}

func testEff(baseURL, path string, apply bool) config.EffectiveConfig {
	return config.EffectiveConfig{
		Path:        path,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		SeasonFirst: 1,
		OnError:     config.OnErrorSkip,
		Apply:       apply,
	}
}

// boardHTML 生成一张完整的 single 轮棋盘：6 个类目 × 5 行，每格都有
// "$row×200" 面值标签与静态 _r 答案揭示元素。
func boardHTML(show int, airDate string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>J! Archive - Show #%d, aired %s</title></head><body>`, show, airDate)
	b.WriteString(`<div id="jeopardy_round"><table><tr>`)
	for col := 1; col <= 6; col++ {
		fmt.Fprintf(&b, `<td class="category"><table><tr><td class="category_name">CATEGORY %d</td></tr></table></td>`, col)
	}
	b.WriteString(`</tr>`)
	for row := 1; row <= 5; row++ {
		b.WriteString(`<tr>`)
		for col := 1; col <= 6; col++ {
			fmt.Fprintf(&b, `<td class="clue">
 <table><tr><td><table><tr><td class="clue_value">$%d</td></tr></table></td></tr>
 <tr><td id="clue_J_%d_%d" class="clue_text">Clue %d-%d</td></tr>
 <tr><td id="clue_J_%d_%d_r" class="clue_text"><em class="correct_response">Answer %d-%d</em></td></tr></table>
</td>`, row*200, col, row, col, row, col, row, col, row)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table></div></body></html>`)
	return b.String()
}
