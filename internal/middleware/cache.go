package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bike-rental-booking/internal/config"
)

// recordingWriter tees the response body into a buffer while it
// streams to the client, up to the configured size cap. Oversized
// catalog pages are still served in full; they just skip the cache.
type recordingWriter struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	written int64
	cap     int64
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.cap <= 0 {
		w.buf.Write(b)
	} else if room := w.cap - w.written; room > 0 {
		if int64(len(b)) <= room {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:room])
		}
	}
	w.written += int64(len(b))
	return w.ResponseWriter.Write(b)
}

// overflowed reports whether the body outgrew the cap; such entries
// must not be stored, a truncated bike listing is worse than a miss.
func (w *recordingWriter) overflowed() bool {
	return w.cap > 0 && w.written > w.cap
}

// catalogCacheKey hashes the request identity under the configured
// prefix. The default route_query strategy keys on the matched route
// plus the raw query, so /v1/bikes?brand=trek&page=2 and the
// unfiltered first page live under different entries, and a bike
// detail page never collides with the listing that contains it.
func catalogCacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := c.Path()

	var ident []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		ident = []string{"route", route}
	case "method_route":
		ident = []string{"method", r.Method, "route", route}
	case "method_route_query":
		ident = []string{"method", r.Method, "route", route, "q", r.URL.RawQuery}
	default: // route_query
		ident = []string{"route", route, "q", r.URL.RawQuery}
	}

	sum := sha1.Sum([]byte(strings.Join(ident, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// packEntry lays an entry out as
// [4 bytes status][4 bytes header length][header JSON][body].
// Headers ride along so a hit replays the handler's exact
// Content-Type and pagination headers, not a re-serialized copy.
func packEntry(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func unpackEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses from the public catalog
// routes in Redis. Only the configured methods (GET by default) are
// eligible and only 200 responses are stored, so an empty search or a
// transient 500 never gets pinned for a TTL. The middleware is wired
// exclusively onto the anonymous browse group; authenticated routes
// bypass it entirely. X-Cache reports HIT or MISS for debugging.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := catalogCacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := unpackEntry(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
				// Undecodable entry, fall through and overwrite it.
			}

			rw := &recordingWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				cap:            int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = rw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rw.status == http.StatusOK && !rw.overflowed() {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					hdr[k] = append([]string(nil), vals...)
				}
				if payload, err := packEntry(rw.status, hdr, rw.buf.Bytes()); err == nil {
					// Detached context: the client may be gone but the
					// entry is still worth keeping for the next rider.
					_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}
