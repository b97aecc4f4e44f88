package tracing

import (
	"net/url"

	"activity-marketplace/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupRestyTracing 为出站请求（地理编码等）创建 http.client span
func SetupRestyTracing(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		target := sanitizeURL(req.URL)
		span := StartChild(req.Context(), "http.client", req.Method+" "+target)
		if span == nil {
			return nil
		}
		span.SetData("http.request.method", req.Method)
		span.SetData("url.full", target)
		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil || span.Op != "http.client" {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
		span.Finish()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		span := sentry.SpanFromContext(req.Context())
		if span == nil || span.Op != "http.client" {
			return
		}
		finish(span, true, err)
	})
}

// sanitizeURL 去掉查询参数，只保留 scheme://host/path
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path
}
