package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/go-resty/resty/v2"
)

// interpret maps a completed HTTP exchange to either a decoded body or a
// normalized error. It is the only place response bodies are inspected.
func interpret(resp *resty.Response, method, url string, out any) error {
	code := resp.StatusCode()

	if code >= 200 && code < 300 {
		if out == nil || len(resp.Body()) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return apierr.Server(fmt.Errorf("%s %s: decoding response: %w", method, url, err), "")
		}
		return nil
	}

	msg := extractMessage(resp.Body())
	err := fmt.Errorf("%s %s: status %d: %s", method, url, code, msg)

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apierr.Auth(err, msg, apierr.WithStatus(code))
	case code == http.StatusBadRequest:
		return apierr.Validation(err, msg, apierr.WithStatus(code))
	case code == http.StatusNotFound:
		return apierr.NotFound(err, msg, apierr.WithStatus(code))
	default:
		return apierr.Server(err, msg, apierr.WithStatus(code))
	}
}

// extractMessage pulls the most specific human-readable message out of the
// ad-hoc error shapes the backend produces: an object with an error/detail/
// message key, a bare JSON string, or a short plain-text body.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
		// Field-keyed validation errors: {"rating": ["..."]}.
		for _, raw := range obj {
			var list []string
			if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
				return list[0]
			}
		}
		return ""
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 0 && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return ""
}
