package customhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type middleware func(next httpCommandFunc) httpCommandFunc

func chainMiddleware(m ...middleware) middleware {
	return func(final httpCommandFunc) httpCommandFunc {
		last := final
		for i := len(m) - 1; i >= 0; i-- {
			last = m[i](last)
		}

		return func(req *http.Request) (resp *http.Response, err error) {
			return last(req)
		}
	}
}

func noOpsMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			return next(req)
		}
	}
}

func loggingMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			start := time.Now()
			resp, err = next(req)
			entry := log.WithContext(req.Context()).WithFields(log.Fields{
				"method":  req.Method,
				"url":     req.URL.String(),
				"latency": time.Since(start).String(),
			})
			if err != nil {
				entry.WithError(err).Warn("outbound request failed")
				return resp, err
			}
			entry.WithField("status", resp.StatusCode).Debug("outbound request")
			return resp, nil
		}
	}
}

func userAgentMiddleware(agent string) middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", agent)
			}
			return next(req)
		}
	}
}
