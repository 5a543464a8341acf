package llm

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"house-design-backend/pkg/logger"
)

const maxLoggedBody = 4096

var (
	sensitiveHeaders = []string{"authorization", "x-api-key", "x-auth-token", "cookie"}
	sensitiveFields  = regexp.MustCompile(`(?i)("(?:api_key|apikey|password|secret|token)"\s*:\s*)"[^"]*"`)
)

// DebugTransport 记录上游请求（请求头与请求体），敏感信息脱敏
type DebugTransport struct {
	base     http.RoundTripper
	provider string
	enabled  bool
}

func NewDebugTransport(base http.RoundTripper, provider string, enabled bool) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, provider: provider, enabled: enabled}
}

func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.enabled && req.Method == http.MethodPost {
		t.logRequest(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil && t.enabled {
		logger.WithFields(logger.Fields{"provider": t.provider}).Errorf("upstream request failed: %v", err)
	}
	return resp, err
}

func (t *DebugTransport) logRequest(req *http.Request) {
	fields := logger.Fields{
		"provider": t.provider,
		"method":   req.Method,
		"url":      req.URL.String(),
		"headers":  redactHeaders(req.Header),
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.WithFields(fields).Errorf("failed to read request body: %v", err)
			return
		}
		// 恢复请求体，以免影响实际请求
		req.Body = io.NopCloser(bytes.NewReader(body))
		fields["body_size"] = len(body)
		fields["body"] = redactBody(body)
	}

	logger.WithFields(fields).Info("upstream request")
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSensitiveHeader(name) {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isSensitiveHeader(name string) bool {
	for _, s := range sensitiveHeaders {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

func redactBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	s := sensitiveFields.ReplaceAllString(string(body), `$1"[REDACTED]"`)
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody] + "...(truncated)"
	}
	return s
}
