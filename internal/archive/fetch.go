package archive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		loc := strings.TrimSpace(resp.Header.Get("Location"))
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: loc}
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}
