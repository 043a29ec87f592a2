package crawl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/John-Robertt/jarchive/internal/archive"
	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/domain"
	"github.com/John-Robertt/jarchive/internal/record"
	"github.com/John-Robertt/jarchive/internal/store"
)

// Games 执行 games 命令：对每个比赛 id 抓取详情页、解析出全部格子并写出
// games/<id>.csv。
//
// id 来源（二选一）：
// - CLI 显式给出 id 列表
// - 未给出时读取 <path>/metadata.json，按赛季顺序展开
//
// 约束：
// - 输出文件已存在 => skipped（不打网络、不计入抓取间隔）。
// - cache/html/<id>.html 命中 => 直接用缓存解析（同样不打网络）。
// - 只有真正发起了抓取的比赛之间才休眠 eff.RequestInterval。
// - 失败的比赛绝不留下输出文件（解析失败 => 不写 CSV）。
// - 单场失败按 eff.OnError 决定继续（skip）还是停止（abort）。
func Games(ctx context.Context, eff config.EffectiveConfig, client *http.Client, ids []domain.GameID, obs Observer) domain.RunReport {
	started := time.Now()
	rr := domain.RunReport{
		Path:      eff.Path,
		Command:   "games",
		DryRun:    !eff.Apply,
		StartedAt: started,
	}

	obs.OnStart(eff, "games")

	site := archive.New(eff.BaseURL)
	st := store.New(eff.Path, !eff.Apply)

	// 阶段 1：确定待处理 id 列表。
	phaseStart := time.Now()
	fromMetadata := false
	if len(ids) == 0 {
		meta, ok, err := st.ReadMetadata()
		if err != nil {
			it := syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("读取 metadata.json 失败：%v", err))
			rr.Items = append(rr.Items, it)
			return finish(&rr)
		}
		if !ok {
			it := syntheticFailed(domain.ErrCodeIOFailed,
				"metadata.json 不存在。先运行 seasons --apply 生成，或在命令行显式给出比赛 id。")
			rr.Items = append(rr.Items, it)
			return finish(&rr)
		}
		fromMetadata = true
		seen := make(map[domain.GameID]struct{}, 256)
		for _, ref := range meta.AllGames() {
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			ids = append(ids, ref.ID)
		}
	}
	obs.OnPhaseDone("plan", map[string]any{
		"games":         len(ids),
		"from_metadata": fromMetadata,
	}, time.Since(phaseStart))

	// 阶段 2：逐场处理。
	fetched := false
	for i, id := range ids {
		itemStart := time.Now()
		item := processGame(ctx, eff, client, site, st, id, &fetched)
		rr.Items = append(rr.Items, item)
		obs.OnItemDone(i, len(ids), item, time.Since(itemStart))

		if item.Status == domain.StatusFailed && eff.OnError == config.OnErrorAbort {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return finish(&rr)
}

// processGame 处理单场比赛。fetched 记录本次运行是否已发起过网络抓取，
// 用于只在相邻两次真实抓取之间休眠。
func processGame(ctx context.Context, eff config.EffectiveConfig, client *http.Client, site archive.Site, st store.Store, id domain.GameID, fetched *bool) domain.ItemResult {
	item := domain.ItemResult{GameID: string(id), URL: site.GameURL(id)}

	if st.HasGameCSV(id) {
		item.Status = domain.StatusSkipped
		item.Output = "games/" + record.FileName(id)
		return item
	}

	// 优先用本地缓存的页面；未命中才打网络。
	htmlBody, cached, err := st.ReadGameHTML(id)
	if err != nil {
		item.Status = domain.StatusFailed
		item.ErrorCode = domain.ErrCodeIOFailed
		item.ErrorMsg = fmt.Sprintf("读取页面缓存失败：%v", err)
		return item
	}
	pageURL := site.GameURL(id)
	if !cached {
		if *fetched {
			if werr := waitInterval(ctx, eff.RequestInterval); werr != nil {
				item.Status = domain.StatusFailed
				item.ErrorCode = domain.ErrCodeFetchFailed
				item.ErrorMsg = fmt.Sprintf("运行被取消：%v", werr)
				return item
			}
		}
		*fetched = true

		htmlBody, pageURL, err = site.FetchGame(ctx, client, id)
		if err != nil {
			fillFetchError(&item, err)
			return item
		}
		if eff.Apply {
			// 缓存写失败不致命：本场仍可继续解析，只是下次要重新抓。
			_ = st.WriteGameHTML(id, htmlBody)
		}
	}

	game, err := site.ParseGame(id, htmlBody, pageURL)
	if err != nil {
		fillParseError(&item, err)
		return item
	}
	item.AirDate = game.AirDate
	item.Clues = len(game.Clues)
	item.Status = domain.StatusProcessed

	if !eff.Apply {
		return item
	}
	data, err := record.Encode(game)
	if err != nil {
		item.Status = domain.StatusFailed
		item.ErrorCode = domain.ErrCodeIOFailed
		item.ErrorMsg = fmt.Sprintf("CSV 编码失败：%v", err)
		return item
	}
	if err := st.WriteGameCSV(id, data); err != nil {
		item.Status = domain.StatusFailed
		item.ErrorCode = domain.ErrCodeIOFailed
		item.ErrorMsg = fmt.Sprintf("输出文件写入失败：%v", err)
		return item
	}
	item.Output = "games/" + record.FileName(id)
	return item
}
