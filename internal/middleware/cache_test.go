package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/config"
)

func cacheContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(req.URL.Path)
	return c
}

func TestCatalogCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "bikes", KeyStrategy: "route_query"}

	all := catalogCacheKey(cfg, cacheContext("/v1/bikes"))
	brand := catalogCacheKey(cfg, cacheContext("/v1/bikes?brand=trek"))
	page2 := catalogCacheKey(cfg, cacheContext("/v1/bikes?brand=trek&page=2"))
	detail := catalogCacheKey(cfg, cacheContext("/v1/bikes/5"))

	keys := map[string]string{all: "all", brand: "brand", page2: "page2", detail: "detail"}
	if len(keys) != 4 {
		t.Fatalf("catalog keys collided: %v", keys)
	}
	for k := range keys {
		if len(k) <= len("bikes:") {
			t.Errorf("key %q missing prefix or digest", k)
		}
	}

	// The same request always maps to the same entry.
	if again := catalogCacheKey(cfg, cacheContext("/v1/bikes?brand=trek")); again != brand {
		t.Errorf("key not stable: %q vs %q", again, brand)
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"bikes":[{"id":5,"name":"Gravel One"}]}`)

	payload, err := packEntry(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	status, gotHdr, gotBody, ok := unpackEntry(payload)
	if !ok {
		t.Fatal("packed entry did not unpack")
	}
	if status != http.StatusOK {
		t.Errorf("status: got %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header lost: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body: got %q", gotBody)
	}
}

func TestCacheEntryRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("not an entry")} {
		if _, _, _, ok := unpackEntry(bs); ok {
			t.Errorf("unpack accepted %q", bs)
		}
	}
	// Header length pointing past the payload must not be trusted.
	bad, err := packEntry(http.StatusOK, http.Header{}, nil)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	bad[7] = 0xFF
	if _, _, _, ok := unpackEntry(bad); ok {
		t.Error("unpack accepted a truncated header")
	}
}

func TestRecordingWriterCap(t *testing.T) {
	rw := &recordingWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, cap: 8}
	if _, err := rw.Write([]byte("12345")); err != nil {
		t.Fatal(err)
	}
	if _, err := rw.Write([]byte("6789ab")); err != nil {
		t.Fatal(err)
	}
	if !rw.overflowed() {
		t.Error("writer past the cap not flagged as overflowed")
	}
	if rw.buf.Len() > 8 {
		t.Errorf("buffered %d bytes past the cap", rw.buf.Len())
	}
}
