package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/John-Robertt/jarchive/internal/domain"
)

// DefaultBaseURL 是档案站点的默认入口（可通过配置切换到镜像域名）。
const DefaultBaseURL = "https://j-archive.com"

// Site 把“站点布局变化”限制在 archive 包内部；核心流程只依赖稳定的
// domain 结构（SeasonRecord/Game/Clue）。
//
// 约束：
// - Fetch* 不做缓存、不做限速（这些由上层 crawl/store 统一实现）
// - Parse* 必须是纯函数：相同输入 => 相同输出
type Site struct {
	BaseURL string
}

func New(baseURL string) Site {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Site{BaseURL: baseURL}
}

// SeasonListURL 返回“全部赛季”索引页地址。
func (s Site) SeasonListURL() string {
	return s.BaseURL + "/listseasons.php"
}

// SeasonURL 返回单个赛季页地址。
func (s Site) SeasonURL(season int) string {
	return fmt.Sprintf("%s/showseason.php?season=%d", s.BaseURL, season)
}

// GameURL 返回比赛详情页地址。
func (s Site) GameURL(id domain.GameID) string {
	return s.BaseURL + "/showgame.php?game_id=" + url.QueryEscape(string(id))
}

// FetchSeasonList 抓取赛季索引页，返回 HTML 与页面地址。
func (s Site) FetchSeasonList(ctx context.Context, c *http.Client) ([]byte, string, error) {
	u := s.SeasonListURL()
	b, err := fetchURL(ctx, c, u)
	return b, u, err
}

// FetchSeason 抓取单个赛季页。
func (s Site) FetchSeason(ctx context.Context, c *http.Client, season int) ([]byte, string, error) {
	u := s.SeasonURL(season)
	b, err := fetchURL(ctx, c, u)
	return b, u, err
}

// FetchGame 抓取比赛详情页。
func (s Site) FetchGame(ctx context.Context, c *http.Client, id domain.GameID) ([]byte, string, error) {
	if id == "" {
		return nil, "", fmt.Errorf("game id 不能为空")
	}
	u := s.GameURL(id)
	b, err := fetchURL(ctx, c, u)
	return b, u, err
}
