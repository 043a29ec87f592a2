package main

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/crawl"
	"github.com/John-Robertt/jarchive/internal/domain"
)

var _ crawl.Observer = (*progressUI)(nil)

// progressUI 是一个“简洁版”的交互终端进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：crawl 层只发事件，CLI 决定如何展示
// - keepalive：长时间无条目完成时也会定期输出一行，降低等待焦虑
//   （抓取间隔默认 2 秒，大批量比赛会跑很久）
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time

	total int
	done  int
	ok    int
	fail  int
	skip  int

	keepaliveThreshold time.Duration
	tickerInterval     time.Duration

	stopCh        chan struct{}
	tickerStarted bool
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{
		w:                  w,
		keepaliveThreshold: 6 * time.Second,
		tickerInterval:     2 * time.Second,
	}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig, command string) {
	now := time.Now()

	p.mu.Lock()
	if p.startedAt.IsZero() {
		p.startedAt = now
	}

	mode := "dry-run"
	modeHint := " (不写入任何文件)"
	if eff.Apply {
		mode = "apply"
		modeHint = ""
	}

	fmt.Fprintf(p.w, "[%s] jarchive %s (%s)\n", now.Format("15:04:05"), command, mode)
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  path: %s\n", eff.Path)
	fmt.Fprintf(p.w, "  mode: %s%s\n", mode, modeHint)
	fmt.Fprintf(p.w, "  base_url: %s\n", eff.BaseURL)
	fmt.Fprintf(p.w, "  seasons: %s\n", formatSeasonBounds(eff.SeasonFirst, eff.SeasonLast))
	fmt.Fprintf(p.w, "  on_error: %s\n", eff.OnError)
	fmt.Fprintf(p.w, "  request_interval: %s\n", eff.RequestInterval)
	fmt.Fprintf(p.w, "  proxy: %s\n", formatProxy(eff.ProxyURL))

	fmt.Fprintln(p.w, "输出:")
	fmt.Fprintf(p.w, "  metadata: %s\n", filepath.Join(eff.Path, "metadata.json"))
	fmt.Fprintf(p.w, "  games: %s\n", filepath.Join(eff.Path, "games"))
	fmt.Fprintf(p.w, "  cache: %s\n", filepath.Join(eff.Path, "cache", "html"))
	fmt.Fprintln(p.w)

	p.lastPrinted = time.Now()
	p.mu.Unlock()
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch name {
	case "list":
		p.total = intField(fields, "seasons")
		fmt.Fprintf(p.w, "赛季索引: seasons=%d 范围=%s (%s)\n",
			p.total,
			formatSeasonBounds(intField(fields, "first"), intField(fields, "last")),
			formatShortDuration(dur),
		)
		if p.total > 0 && !p.tickerStarted {
			p.startTickerLocked()
		}
	case "plan":
		p.total = intField(fields, "games")
		src := "命令行参数"
		if boolField(fields, "from_metadata") {
			src = "metadata.json"
		}
		fmt.Fprintf(p.w, "规划: games=%d 来源=%s (%s)\n", p.total, src, formatShortDuration(dur))
		if p.total > 0 && !p.tickerStarted {
			p.startTickerLocked()
		}
	case "write":
		fmt.Fprintf(p.w, "落盘: %s\n", stringField(fields, "output"))
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}

	p.lastPrinted = time.Now()
}

func (p *progressUI) OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = idx + 1
	p.total = total

	switch res.Status {
	case domain.StatusProcessed:
		p.ok++
	case domain.StatusFailed:
		p.fail++
	case domain.StatusSkipped:
		p.skip++
	}

	status := "OK"
	switch res.Status {
	case domain.StatusSkipped:
		status = "SKIP"
	case domain.StatusFailed:
		status = "FAIL"
	}

	key := res.GameID
	if key == "" && res.Season > 0 {
		key = fmt.Sprintf("season %d", res.Season)
	}

	switch res.Status {
	case domain.StatusFailed:
		fmt.Fprintf(p.w, "[%d/%d] %s %s %s: %s (%s)\n",
			p.done, total, key, status, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	case domain.StatusSkipped:
		fmt.Fprintf(p.w, "[%d/%d] %s %s (产物已存在) (%s)\n",
			p.done, total, key, status, formatShortDuration(dur),
		)
	default:
		switch {
		case res.GameID != "":
			fmt.Fprintf(p.w, "[%d/%d] %s %s aired=%s clues=%d (%s)\n",
				p.done, total, key, status, res.AirDate, res.Clues, formatShortDuration(dur),
			)
		default:
			fmt.Fprintf(p.w, "[%d/%d] %s %s games=%d (%s)\n",
				p.done, total, key, status, res.GamesFound, formatShortDuration(dur),
			)
		}
	}

	p.lastPrinted = time.Now()

	// 最后一条完成：停止 ticker，避免在结束打印后又冒出 keepalive。
	if p.tickerStarted && p.done >= p.total {
		close(p.stopCh)
		p.tickerStarted = false
	}
}

func (p *progressUI) OnProgress(done, total, ok, fail, skip int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "进度: done=%d/%d ok=%d fail=%d skip=%d elapsed=%s\n",
		done, total, ok, fail, skip, formatElapsed(elapsed),
	)
	p.lastPrinted = time.Now()
}

func (p *progressUI) startTickerLocked() {
	p.stopCh = make(chan struct{})
	p.tickerStarted = true

	interval := p.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := p.keepaliveThreshold
	if threshold <= 0 {
		threshold = 6 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				p.mu.Lock()
				// 已完成：安全退出（OnItemDone 会 close stopCh，但这里也做兜底）。
				if p.total > 0 && p.done >= p.total {
					p.mu.Unlock()
					return
				}

				if p.total > 0 && time.Since(p.lastPrinted) > threshold {
					elapsed := time.Since(p.startedAt)
					fmt.Fprintf(p.w, "进度: done=%d/%d ok=%d fail=%d skip=%d elapsed=%s\n",
						p.done, p.total, p.ok, p.fail, p.skip, formatElapsed(elapsed),
					)
					p.lastPrinted = time.Now()
				}
				p.mu.Unlock()
			case <-p.stopCh:
				return
			}
		}
	}()
}

func formatSeasonBounds(first, last int) string {
	if last <= 0 {
		return fmt.Sprintf("%d..（不设上界）", first)
	}
	return fmt.Sprintf("%d..%d", first, last)
}

func formatProxy(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "off"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "on (" + truncate(raw, 120) + ")"
	}
	auth := "off"
	if u.User != nil {
		auth = "on"
	}
	return fmt.Sprintf("on (%s://%s, auth=%s)", u.Scheme, u.Host, auth)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d.Seconds())
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	v, ok := fields[key]
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	default:
		return 0
	}
}

func boolField(fields map[string]any, key string) bool {
	if fields == nil {
		return false
	}
	v, _ := fields[key].(bool)
	return v
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	v, _ := fields[key].(string)
	return v
}
