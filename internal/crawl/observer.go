package crawl

import (
	"time"

	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/domain"
)

// Observer 用于把“运行进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - crawl 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 执行是顺序的，但 Observer 实现仍应并发安全（CLI 的 keepalive ticker
//   会从另一个 goroutine 调用 OnProgress）。
type Observer interface {
	// OnStart 在运行开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig, command string)
	// OnPhaseDone 在阶段结束/就绪时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnItemDone 在某个赛季/比赛处理完成时调用（用于每条结果的一行输出）。
	OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration)
	// OnProgress 用于 keepalive（通常由 CLI 自己 ticker 触发）。
	OnProgress(done, total, ok, fail, skip int, elapsed time.Duration)
}
