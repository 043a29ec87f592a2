package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/jarchive/internal/config"
	"github.com/John-Robertt/jarchive/internal/crawl"
	"github.com/John-Robertt/jarchive/internal/domain"
	"github.com/John-Robertt/jarchive/internal/infra/httpx"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "seasons", "games":
		if code := runCmd(args[0], args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func runCmd(command string, args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printCmdUsage(command)
			return 0
		}
	}

	ca, err := parseCmdArgs(command, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printCmdUsage(command)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}
	cwdAbs, _ := filepath.Abs(cwd)

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:       ca.Path,
		OnError:    ca.OnError,
		OnErrorSet: ca.OnErrorSet,
		Apply:      ca.Apply,
		ApplySet:   ca.ApplySet,
	})
	if err != nil {
		emitReport(reportForConfigError(cwdAbs, command, ca, err))
		return 1
	}

	client, err := httpx.NewArchiveClient(eff.ProxyURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 HTTP 客户端失败：%v\n", err)
		return 1
	}

	progressW, interactive := pickProgressWriter()
	var obs crawl.Observer = nopObserver{}
	if interactive {
		obs = newProgressUI(progressW)
	}

	var rr domain.RunReport
	switch command {
	case "seasons":
		rr = crawl.Seasons(context.Background(), eff, client, obs)
	case "games":
		rr = crawl.Games(context.Background(), eff, client, ca.GameIDs, obs)
	}

	emitReport(rr)
	if interactive {
		emitLocations(progressW, command, eff)
	}
	if rr.Summary.Failed == 0 {
		return 0
	}
	return 1
}

type cmdArgs struct {
	Path    string
	GameIDs []domain.GameID

	OnError    string
	OnErrorSet bool

	Apply    bool
	ApplySet bool
}

// parseCmdArgs 解析子命令参数。
//
// 位置参数的归属规则（games 命令）：纯数字的 token 是比赛 id，其余是
// path（最多一个）。seasons 命令没有 id，全部位置参数都是 path。
func parseCmdArgs(command string, args []string) (cmdArgs, error) {
	ca := cmdArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--on-error":
			if i+1 >= len(args) {
				return cmdArgs{}, fmt.Errorf("--on-error 需要一个值")
			}
			i++
			ca.OnError = args[i]
			ca.OnErrorSet = true
		case strings.HasPrefix(a, "--on-error="):
			ca.OnError = strings.TrimPrefix(a, "--on-error=")
			ca.OnErrorSet = true
		case a == "--apply":
			ca.Apply = true
			ca.ApplySet = true
		case strings.HasPrefix(a, "--apply="):
			v := strings.TrimPrefix(a, "--apply=")
			switch v {
			case "true":
				ca.Apply = true
			case "false":
				ca.Apply = false
			default:
				return cmdArgs{}, fmt.Errorf("--apply 只能是 true 或 false，实际是 %q", v)
			}
			ca.ApplySet = true
		case strings.HasPrefix(a, "-"):
			return cmdArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if command == "games" {
				if id, ok := domain.ParseGameID(a); ok {
					ca.GameIDs = append(ca.GameIDs, id)
					continue
				}
			}
			if ca.Path != "" {
				return cmdArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ca.Path, a)
			}
			ca.Path = a
		}
	}

	if ca.OnErrorSet {
		switch ca.OnError {
		case config.OnErrorSkip, config.OnErrorAbort:
			// ok
		case "":
			return cmdArgs{}, fmt.Errorf("--on-error 不能为空")
		default:
			return cmdArgs{}, fmt.Errorf("--on-error 只能是 skip 或 abort，实际是 %q", ca.OnError)
		}
	}

	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  jarchive seasons [path] [--on-error skip|abort] [--apply[=true|false]]
  jarchive games [path] [id ...] [--on-error skip|abort] [--apply[=true|false]]

命令：
  seasons  爬取赛季索引，生成 <path>/metadata.json（默认 dry-run）
  games    抓取比赛详情，生成 <path>/games/<id>.csv（默认 dry-run）

使用 "jarchive <命令> --help" 查看详细说明。
`)
}

func printCmdUsage(command string) {
	switch command {
	case "seasons":
		fmt.Fprint(os.Stdout, `用法：
  jarchive seasons [path] [--on-error skip|abort] [--apply[=true|false]]

参数：
  --on-error  单季失败策略：skip 继续 | abort 停止（默认 skip）
  --apply     执行落盘（默认 dry-run）；支持 --apply=false 覆盖配置中的 apply=true
  -h, --help  显示帮助
`)
	case "games":
		fmt.Fprint(os.Stdout, `用法：
  jarchive games [path] [id ...] [--on-error skip|abort] [--apply[=true|false]]

参数：
  id          一个或多个比赛 id（纯数字）；未给出则读 <path>/metadata.json
  --on-error  单场失败策略：skip 继续 | abort 停止（默认 skip）
  --apply     执行落盘（默认 dry-run）；支持 --apply=false 覆盖配置中的 apply=true
  -h, --help  显示帮助
`)
	}
}

func emitReport(rr domain.RunReport) {
	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：processed=%d skipped=%d failed=%d\n",
			rr.Summary.Processed, rr.Summary.Skipped, rr.Summary.Failed,
		)
		if rr.Summary.Failed > 0 {
			for _, it := range rr.Items {
				if it.Status != domain.StatusFailed {
					continue
				}
				key := it.GameID
				if key == "" && it.Season > 0 {
					key = fmt.Sprintf("season %d", it.Season)
				}
				if key == "" {
					key = "<run>"
				}
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", key, it.ErrorCode, it.ErrorMsg)
			}
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 RunReport JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	fmt.Fprintf(os.Stderr, "完成：processed=%d skipped=%d failed=%d\n",
		rr.Summary.Processed, rr.Summary.Skipped, rr.Summary.Failed,
	)
}

func reportForConfigError(cwdAbs, command string, ca cmdArgs, err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		Path:       cwdAbs,
		Command:    command,
		DryRun:     !(ca.ApplySet && ca.Apply),
		StartedAt:  now,
		FinishedAt: now,
		Items: []domain.ItemResult{{
			Status:    domain.StatusFailed,
			ErrorCode: config.Code(err),
			ErrorMsg:  err.Error(),
		}},
	}
	rr.Finalize()
	return rr
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}

func emitLocations(w io.Writer, command string, eff config.EffectiveConfig) {
	// 这两行用于降低“完成后不知道产物在哪”的摩擦，且不影响 stdout JSON 契约。
	if w == nil || !eff.Apply {
		return
	}
	switch command {
	case "seasons":
		fmt.Fprintf(w, "metadata: %s\n", filepath.Join(eff.Path, "metadata.json"))
	case "games":
		fmt.Fprintf(w, "games: %s\n", filepath.Join(eff.Path, "games"))
	}
}

// nopObserver 在非交互环境下吞掉进度事件（stdout JSON 契约之外不输出）。
type nopObserver struct{}

func (nopObserver) OnStart(config.EffectiveConfig, string)                {}
func (nopObserver) OnPhaseDone(string, map[string]any, time.Duration)     {}
func (nopObserver) OnItemDone(int, int, domain.ItemResult, time.Duration) {}
func (nopObserver) OnProgress(int, int, int, int, int, time.Duration)     {}
