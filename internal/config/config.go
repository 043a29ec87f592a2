package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ErrCodeNotFound 表示无参运行但 cwd 下没有 jarchive.json。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingPath 表示无参运行但配置文件缺少 path 字段。
	ErrCodeMissingPath = "config_missing_path"
)

const (
	// OnErrorSkip / OnErrorAbort 是单季/单场抓取失败时的两种策略。
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"

	// DefaultOnError 是策略的最终默认值（当 CLI 与配置文件都未指定时）。
	DefaultOnError = OnErrorSkip
	// DefaultBaseURL 是档案站点的默认入口。
	DefaultBaseURL = "https://j-archive.com"
	// DefaultSeasonFirst 是赛季范围的内置下界。
	DefaultSeasonFirst = 1
	// DefaultRequestIntervalMS 是两次页面抓取之间的间隔（对站点保持克制；
	// 原始抓取节奏即每 2 秒一页）。
	DefaultRequestIntervalMS = 2000
)

// CLIArgs 只包含 CLI 暴露的入口（path/on-error/apply），并保留“是否显式
// 指定”的信息。这能保证覆盖优先级可实现：例如 --apply=false 必须能覆盖
// config.apply=true。
type CLIArgs struct {
	Path string

	OnError    string
	OnErrorSet bool

	Apply    bool
	ApplySet bool
}

// FileConfig 对应 jarchive.json 的解析结构。
type FileConfig struct {
	Path              string       `json:"path"`
	BaseURL           string       `json:"base_url"`
	SeasonFirst       int          `json:"season_first"`
	SeasonLast        int          `json:"season_last"`
	OnError           string       `json:"on_error"`
	Apply             *bool        `json:"apply"`
	RequestIntervalMS *int         `json:"request_interval_ms"`
	Proxy             *ProxyConfig `json:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，
// 不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Path string

	BaseURL string

	// SeasonFirst/SeasonLast 是爬取范围的显式边界；SeasonLast==0 表示不设上界。
	SeasonFirst int
	SeasonLast  int

	// OnError 决定单季/单场失败后是继续（skip）还是停止（abort）。
	OnError string

	Apply bool

	RequestInterval time.Duration
	ProxyURL        string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingPath:
		return fmt.Sprintf("%s：配置文件 %q 缺少必填字段 path", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 按约定发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 path：尝试读取 <path>/jarchive.json（可选）
// 2) CLI 未提供 path：必须读取 <cwd>/jarchive.json（必选），且其中必须包含 path
//
// 覆盖优先级（固定）：
// - path：CLI path > config path
// - on_error：CLI > config > 默认 skip
// - apply：CLI --apply/--apply=false > config > 默认 false
// - 其他字段：仅由 config 控制（CLI 不暴露）
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	if strings.TrimSpace(cli.Path) != "" {
		// CLI 给了 path：配置文件可选，位置固定在 <path>/jarchive.json。
		absPath := absCleanFrom(cwdAbs, cli.Path)
		cfgPath := filepath.Join(absPath, "jarchive.json")

		fc, _, err := readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		return merge(absPath, cli, fc, cfgPath)
	}

	// CLI 没给 path：必须读取 <cwd>/jarchive.json，且其中必须包含 path。
	cfgPath := filepath.Join(cwdAbs, "jarchive.json")
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}
	if strings.TrimSpace(fc.Path) == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingPath, Path: cfgPath}
	}

	absPath := absCleanFrom(cwdAbs, fc.Path)
	return merge(absPath, cli, fc, cfgPath)
}

func merge(absPath string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// on_error：CLI > config > 默认
	onError := DefaultOnError
	if cli.OnErrorSet {
		onError = cli.OnError
	} else if strings.TrimSpace(fc.OnError) != "" {
		onError = fc.OnError
	}
	if err := validateOnError(onError); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	// apply：CLI > config > 默认 false
	apply := false
	if cli.ApplySet {
		apply = cli.Apply
	} else if fc.Apply != nil {
		apply = *fc.Apply
	}

	baseURL := strings.TrimSpace(fc.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 无效：%q", baseURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("base_url 必须是 http/https：%q", baseURL)}
	}

	first := fc.SeasonFirst
	if first == 0 {
		first = DefaultSeasonFirst
	}
	if first < 1 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("season_first 必须 >= 1，实际是 %d", fc.SeasonFirst)}
	}
	last := fc.SeasonLast
	if last < 0 || (last > 0 && last < first) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("season_last 必须是 0（不设上界）或 >= season_first，实际是 %d", fc.SeasonLast)}
	}

	intervalMS := DefaultRequestIntervalMS
	if fc.RequestIntervalMS != nil {
		intervalMS = *fc.RequestIntervalMS
	}
	// 范围建议 [0, 60000]；超出截断。
	if intervalMS < 0 {
		intervalMS = 0
	}
	if intervalMS > 60000 {
		intervalMS = 60000
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	return EffectiveConfig{
		Path:            absPath,
		BaseURL:         strings.TrimSuffix(baseURL, "/"),
		SeasonFirst:     first,
		SeasonLast:      last,
		OnError:         onError,
		Apply:           apply,
		RequestInterval: time.Duration(intervalMS) * time.Millisecond,
		ProxyURL:        proxyURL,
	}, nil
}

func validateOnError(p string) error {
	switch p {
	case OnErrorSkip, OnErrorAbort:
		return nil
	case "":
		return fmt.Errorf("on_error 不能为空")
	default:
		return fmt.Errorf("on_error 只能是 skip 或 abort，实际是 %q", p)
	}
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
