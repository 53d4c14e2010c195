package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/projectboard/internal/domain"
)

// maxErrorBodySize limits how much of a rejection body is read.
const maxErrorBodySize = 64 << 10

// problemDetail is the subset of an RFC 9457 body a receiver may return.
type problemDetail struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// statusError maps a rejected delivery to an error. Receivers that are
// overloaded or broken (429, 5xx) yield domain.ErrUnavailable; any other
// rejection is reported with its status and detail only.
func statusError(resp *http.Response) error {
	detail := parseDetail(resp)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, detail, domain.ErrUnavailable)
	default:
		return fmt.Errorf("rejected with status %d: %s", resp.StatusCode, detail)
	}
}

func parseDetail(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/problem+json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return ""
	}

	var pd problemDetail
	if err := json.Unmarshal(body, &pd); err != nil {
		return ""
	}
	if pd.Detail != "" {
		return pd.Detail
	}
	return pd.Title
}
