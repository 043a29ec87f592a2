package archive

import (
	"bytes"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/jarchive/internal/domain"
)

// SeasonLink 是赛季索引页上的一条赛季入口。
type SeasonLink struct {
	Season int
	Title  string
	URL    string
}

const seasonLinkMarker = "a[href*='showseason.php?season=']"

var (
	showNumRE = regexp.MustCompile(`#(\d+)`)
	airDateRE = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ParseSeasonList 从赛季索引页提取 [first, last] 范围内的赛季入口。
// last==0 表示不设上界。
//
// 规则：
// - 跳过 "[current season]" / "[last season]" 两个快捷重复链接
// - season 参数不是数字的条目（特别节目）不在数字范围语义内，跳过
// - 同一季号只保留首次出现；输出按季号升序（索引页本身是降序）
func (s Site) ParseSeasonList(htmlBody []byte, first, last int) ([]SeasonLink, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	anchors := doc.Find(seasonLinkMarker)
	if anchors.Length() == 0 {
		return nil, &StructureError{Marker: seasonLinkMarker, Hint: "赛季索引页结构可能变化"}
	}

	seen := make(map[int]struct{}, 64)
	out := make([]SeasonLink, 0, 64)

	anchors.Each(func(_ int, a *goquery.Selection) {
		text := normSpace(a.Text())
		if text == "[current season]" || text == "[last season]" {
			return
		}
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		season, err := strconv.Atoi(u.Query().Get("season"))
		if err != nil || season < 1 {
			return
		}
		if season < first || (last > 0 && season > last) {
			return
		}
		if _, dup := seen[season]; dup {
			return
		}
		seen[season] = struct{}{}
		out = append(out, SeasonLink{
			Season: season,
			Title:  text,
			URL:    s.SeasonURL(season),
		})
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out, nil
}

const gameLinkMarker = "td[align='left'] a[href*='showgame.php?game_id=']"

// ParseSeason 从单个赛季页提取比赛链接列表（按页面出现顺序）。
// 链接文本形如 "#4596, aired 2004-07-23"；文本缺项不算错误（id 才是主键）。
func (s Site) ParseSeason(htmlBody []byte) ([]domain.GameRef, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	anchors := doc.Find(gameLinkMarker)
	if anchors.Length() == 0 {
		return nil, &StructureError{Marker: gameLinkMarker, Hint: "赛季页结构可能变化或该赛季没有比赛"}
	}

	out := make([]domain.GameRef, 0, anchors.Length())
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		id, ok := domain.GameIDFromURL(href)
		if !ok {
			return
		}

		ref := domain.GameRef{ID: id}
		text := normSpace(a.Text())
		if m := showNumRE.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				ref.ShowNumber = n
			}
		}
		ref.AirDate = airDateRE.FindString(text)

		out = append(out, ref)
	})

	if len(out) == 0 {
		return nil, &StructureError{Marker: gameLinkMarker, Hint: "找到链接但无一携带合法 game_id"}
	}
	return out, nil
}
