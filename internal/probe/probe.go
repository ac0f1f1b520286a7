package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pingwatch/pingwatch/internal/domain"
)

const userAgent = "pingwatch URL Ping Service"

// DefaultTimeout bounds a single probe request.
const DefaultTimeout = 10 * time.Second

// Prober performs a single reachability check for a target URL.
// Implementations never return an error; failures are folded into the
// ProbeResult so one broken target cannot abort a run.
type Prober interface {
	Probe(ctx context.Context, target string) domain.ProbeResult
}

type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		Client: &http.Client{Timeout: timeout},
	}
}

// Normalize prefixes https:// when the target carries no scheme.
func Normalize(target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	return "https://" + target
}

// Probe issues one GET against the target. Redirects are followed by the
// client; classification applies to the final response: 2xx is up,
// anything else is down with the status kept, transport errors are down
// with status 0 and a DNS diagnosis appended when the name doesn't resolve.
func (p *HTTPProber) Probe(ctx context.Context, target string) domain.ProbeResult {
	url := Normalize(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProbeResult{Err: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		msg := err.Error()
		if class := Diagnose(url); class != "" && class != ClassResolves {
			msg = fmt.Sprintf("%s dns=%s", msg, class)
		}
		return domain.ProbeResult{Err: msg}
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return domain.ProbeResult{Reachable: true, StatusCode: resp.StatusCode}
	}
	return domain.ProbeResult{StatusCode: resp.StatusCode, Err: resp.Status}
}
