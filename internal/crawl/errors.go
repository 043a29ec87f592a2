package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/jarchive/internal/archive"
	"github.com/John-Robertt/jarchive/internal/domain"
)

func fillFetchError(item *domain.ItemResult, err error) {
	item.Status = domain.StatusFailed
	item.ErrorCode = domain.ErrCodeFetchFailed
	item.ErrorMsg = humanizeFetchError(err)
}

func fillParseError(item *domain.ItemResult, err error) {
	item.Status = domain.StatusFailed
	item.ErrorCode = domain.ErrCodeParseFailed
	item.ErrorMsg = humanizeParseError(err)
}

func humanizeFetchError(err error) string {
	if err == nil {
		return "抓取失败"
	}

	// HTTP 非 2xx：尽量给出可操作提示（404/限流是最常见问题）。
	var hs *archive.HTTPStatusError
	if errors.As(err, &hs) {
		switch hs.StatusCode {
		case 404:
			return fmt.Sprintf("HTTP 404（该赛季/比赛可能不存在或已移除）：%s", hs.URL)
		case 403, 429:
			return fmt.Sprintf("HTTP %d（可能触发反爬/限流）。建议增大 request_interval_ms 或配置 proxy.url。", hs.StatusCode)
		default:
			return hs.Error()
		}
	}

	low := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(low, "timeout") {
		return "抓取超时。建议检查网络/代理，或增大 request_interval_ms 后重试。"
	}
	return fmt.Sprintf("抓取失败：%v", err)
}

func humanizeParseError(err error) string {
	if err == nil {
		return "解析失败"
	}

	var ve *archive.ValueError
	if errors.As(err, &ve) {
		return fmt.Sprintf("面值文本无法解析（站点标注可能变化）：%v", err)
	}

	var se *archive.StructureError
	if errors.As(err, &se) {
		return fmt.Sprintf("解析失败（站点结构可能变化或返回了非预期页面）：%v", err)
	}
	return fmt.Sprintf("解析失败：%v", err)
}

func syntheticFailed(code, msg string) domain.ItemResult {
	return domain.ItemResult{
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
	}
}
