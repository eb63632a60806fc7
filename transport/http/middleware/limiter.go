package middleware

import (
	"errors"
	"housing/shared"
	"housing/shared/cache"
	"housing/shared/constant"
	"housing/shared/timezone"
	"housing/transport/http/response"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownClient     = "unknown"
)

// RateLimit counts requests per client and user agent in fixed windows. The limiter fails
// open: when the cache is unavailable requests are served without a limit.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limits.Enable || limits.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			window := timezone.Now().Unix() / int64(limits.WindowSeconds)
			key := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r), strconv.FormatInt(window, 10))

			var count int
			if err := a.cache.Get(r.Context(), key, &count); err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Msg("rate limiter unavailable, serving request")
				next.ServeHTTP(w, r)

				return
			}

			count++

			if count > limits.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), key, count, limits.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to record request count")
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(limits.MaxRequests-count))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.UserAgent(); ua != constant.Empty {
		return ua
	}

	return unknownClient
}

// getClientIP reads RemoteAddr, which the RealIP middleware has already rewritten from the
// proxy headers.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr == constant.Empty {
			return unknownClient
		}

		return r.RemoteAddr
	}

	return host
}
