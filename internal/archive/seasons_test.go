package archive

import (
	"errors"
	"testing"
)

const seasonListFixture = `<html><head><title>J! Archive - Seasons</title></head><body>
<table>
<tr><td><a href="showseason.php?season=41">[current season]</a></td></tr>
<tr><td><a href="showseason.php?season=41">Season 41</a></td></tr>
<tr><td><a href="showseason.php?season=21">Season 21</a></td></tr>
<tr><td><a href="showseason.php?season=21">Season 21</a></td></tr>
<tr><td><a href="showseason.php?season=superjeopardy">Super Jeopardy!</a></td></tr>
<tr><td><a href="showseason.php?season=3">Season 3</a></td></tr>
</table>
</body></html>`

func TestParseSeasonList(t *testing.T) {
	site := New("https://j-archive.com")

	links, err := site.ParseSeasonList([]byte(seasonListFixture), 1, 0)
	if err != nil {
		t.Fatalf("ParseSeasonList 失败：%v", err)
	}

	// [current season] 跳过、重复季号去重、非数字赛季跳过、升序输出。
	if len(links) != 3 {
		t.Fatalf("期望 3 个赛季，实际 %d：%+v", len(links), links)
	}
	if links[0].Season != 3 || links[1].Season != 21 || links[2].Season != 41 {
		t.Fatalf("赛季顺序不符合契约：%+v", links)
	}
	if links[1].Title != "Season 21" {
		t.Fatalf("赛季标题不正确：%q", links[1].Title)
	}
	if links[1].URL != "https://j-archive.com/showseason.php?season=21" {
		t.Fatalf("赛季 URL 不正确：%q", links[1].URL)
	}
}

func TestParseSeasonList_Bounds(t *testing.T) {
	site := New("")

	links, err := site.ParseSeasonList([]byte(seasonListFixture), 3, 21)
	if err != nil {
		t.Fatalf("ParseSeasonList 失败：%v", err)
	}
	if len(links) != 2 || links[0].Season != 3 || links[1].Season != 21 {
		t.Fatalf("范围过滤不正确：%+v", links)
	}
}

func TestParseSeasonList_MissingMarker(t *testing.T) {
	site := New("")

	_, err := site.ParseSeasonList([]byte("<html><body><p>nothing</p></body></html>"), 1, 0)
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("期望 *StructureError，实际 %T：%v", err, err)
	}
}

const seasonFixture = `<html><head><title>J! Archive - Season 21</title></head><body>
<table>
<tr>
 <td align="left"><a href="showgame.php?game_id=4596">#4596, aired 2004-11-30</a></td>
 <td align="left">Ken vs. A vs. B</td>
</tr>
<tr>
 <td align="left"><a href="showgame.php?game_id=4595">#4595, aired 2004-11-29</a></td>
</tr>
<tr>
 <td align="left"><a href="showgame.php?game_id=4594">#4594, aired 2004-11-26</a></td>
</tr>
<tr>
 <td align="right"><a href="showgame.php?game_id=9999">not a game cell</a></td>
</tr>
</table>
</body></html>`

func TestParseSeason(t *testing.T) {
	site := New("")

	refs, err := site.ParseSeason([]byte(seasonFixture))
	if err != nil {
		t.Fatalf("ParseSeason 失败：%v", err)
	}

	// 场景：赛季页有 3 条比赛链接 => 恰好 3 个 id（右对齐单元格里的链接不算）。
	if len(refs) != 3 {
		t.Fatalf("期望 3 场比赛，实际 %d：%+v", len(refs), refs)
	}
	if refs[0].ID != "4596" || refs[1].ID != "4595" || refs[2].ID != "4594" {
		t.Fatalf("比赛 id 不正确：%+v", refs)
	}
	if refs[0].ShowNumber != 4596 || refs[0].AirDate != "2004-11-30" {
		t.Fatalf("链接文本解析不正确：%+v", refs[0])
	}
}

func TestParseSeason_MissingMarker(t *testing.T) {
	site := New("")

	_, err := site.ParseSeason([]byte("<html><body></body></html>"))
	var se *StructureError
	if !errors.As(err, &se) {
		t.Fatalf("期望 *StructureError，实际 %T：%v", err, err)
	}
}
