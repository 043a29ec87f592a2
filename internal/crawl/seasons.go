package crawl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/John-Robertt/jarchive/internal/archive"
	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/domain"
	"github.com/John-Robertt/jarchive/internal/store"
)

// Seasons 执行 seasons 命令：抓取赛季索引页，逐季抓取并解析比赛列表，
// apply 模式下把聚合结果原子写入 <path>/metadata.json。
//
// 约束：
// - 抓取严格顺序执行，两次请求之间休眠 eff.RequestInterval（对站点克制）。
// - 索引页失败属于运行级失败：生成一条合成 failed 条目后立即结束。
// - 单季失败按 eff.OnError 决定继续（skip）还是停止（abort）。
// - 函数本身不返回 error：所有结果（包括失败）都在 RunReport 里。
func Seasons(ctx context.Context, eff config.EffectiveConfig, client *http.Client, obs Observer) domain.RunReport {
	started := time.Now()
	rr := domain.RunReport{
		Path:      eff.Path,
		Command:   "seasons",
		DryRun:    !eff.Apply,
		StartedAt: started,
	}

	obs.OnStart(eff, "seasons")

	site := archive.New(eff.BaseURL)
	st := store.New(eff.Path, !eff.Apply)

	// 阶段 1：赛季索引页。失败即整次运行失败（没有可迭代的对象）。
	phaseStart := time.Now()
	listHTML, listURL, err := site.FetchSeasonList(ctx, client)
	if err != nil {
		it := syntheticFailed(domain.ErrCodeFetchFailed, humanizeFetchError(err))
		it.URL = listURL
		rr.Items = append(rr.Items, it)
		return finish(&rr)
	}
	links, err := site.ParseSeasonList(listHTML, eff.SeasonFirst, eff.SeasonLast)
	if err != nil {
		it := syntheticFailed(domain.ErrCodeParseFailed, humanizeParseError(err))
		it.URL = listURL
		rr.Items = append(rr.Items, it)
		return finish(&rr)
	}
	obs.OnPhaseDone("list", map[string]any{
		"seasons": len(links),
		"first":   eff.SeasonFirst,
		"last":    eff.SeasonLast,
	}, time.Since(phaseStart))

	meta := domain.Metadata{
		Source:     "J! Archive",
		SourceURL:  eff.BaseURL + "/",
		AccessedAt: time.Now(),
	}

	// 阶段 2：逐季抓取。
	for i, ln := range links {
		if i > 0 {
			if err := waitInterval(ctx, eff.RequestInterval); err != nil {
				it := syntheticFailed(domain.ErrCodeFetchFailed, fmt.Sprintf("运行被取消：%v", err))
				rr.Items = append(rr.Items, it)
				return finish(&rr)
			}
		}

		itemStart := time.Now()
		item := domain.ItemResult{Season: ln.Season, URL: ln.URL}

		seasonHTML, pageURL, err := site.FetchSeason(ctx, client, ln.Season)
		if err != nil {
			fillFetchError(&item, err)
		} else {
			item.URL = pageURL
			refs, perr := site.ParseSeason(seasonHTML)
			if perr != nil {
				fillParseError(&item, perr)
			} else {
				item.Status = domain.StatusProcessed
				item.GamesFound = len(refs)
				meta.Seasons = append(meta.Seasons, domain.SeasonRecord{
					Season: ln.Season,
					Title:  ln.Title,
					URL:    pageURL,
					Games:  refs,
				})
			}
		}

		rr.Items = append(rr.Items, item)
		obs.OnItemDone(i, len(links), item, time.Since(itemStart))

		if item.Status == domain.StatusFailed && eff.OnError == config.OnErrorAbort {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	// 阶段 3：落盘。dry-run 只汇总不写；部分失败不阻止已成功赛季写入。
	if eff.Apply && len(meta.Seasons) > 0 {
		meta.Finalize()
		if err := st.WriteMetadata(meta); err != nil {
			it := syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("metadata.json 写入失败：%v", err))
			rr.Items = append(rr.Items, it)
			return finish(&rr)
		}
		obs.OnPhaseDone("write", map[string]any{"output": "metadata.json"}, 0)
	}

	return finish(&rr)
}

func finish(rr *domain.RunReport) domain.RunReport {
	rr.FinishedAt = time.Now()
	rr.Finalize()
	return *rr
}

// waitInterval 可被 ctx 取消地休眠 d。
func waitInterval(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
