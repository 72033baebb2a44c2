package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Upstream maps a path prefix such as "/auth" to a backend base URL.
type Upstream struct {
	Prefix string
	Target string
}

// ProxyHandler forwards every request under a prefix to its backend. The
// prefix is kept in the forwarded path and the Host header is rewritten to
// the backend's.
type ProxyHandler struct {
	proxies map[string]*httputil.ReverseProxy
	logger  *zap.Logger
}

// NewProxyHandler builds one reverse proxy per upstream.
func NewProxyHandler(upstreams []Upstream, logger *zap.Logger) (*ProxyHandler, error) {
	h := &ProxyHandler{proxies: make(map[string]*httputil.ReverseProxy, len(upstreams)), logger: logger}
	for _, u := range upstreams {
		target, err := url.Parse(u.Target)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("upstream %s: invalid target %q", u.Prefix, u.Target)
		}
		h.proxies[u.Prefix] = h.newProxy(u.Prefix, target)
	}
	return h, nil
}

func (h *ProxyHandler) newProxy(prefix string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			h.logger.Warn("upstream unavailable",
				zap.String("prefix", prefix),
				zap.String("target", target.String()),
				zap.Error(err),
			)
			respondError(w, http.StatusBadGateway, "upstream unavailable: "+prefix)
		},
	}
}

// Prefixes returns the mounted prefixes in order.
func (h *ProxyHandler) Prefixes() []string {
	out := make([]string, 0, len(h.proxies))
	for p := range h.proxies {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Mount registers prefix and prefix/* on r for every upstream.
func (h *ProxyHandler) Mount(r chi.Router) {
	for _, prefix := range h.Prefixes() {
		p := h.proxies[prefix]
		r.Handle(prefix, p)
		r.Handle(prefix+"/*", p)
	}
}
