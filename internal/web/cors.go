package web

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/JonMunkholm/csvmanager/internal/config"
	"github.com/go-chi/cors"
)

// originPolicy decides which browser origins may call the API.
// Requests without an Origin header and localhost origins are always
// allowed; other origins must match an exact entry or a "*" pattern.
type originPolicy struct {
	exact    map[string]bool
	patterns []*regexp.Regexp
}

func newOriginPolicy(sec config.SecurityConfig) *originPolicy {
	p := &originPolicy{exact: make(map[string]bool)}

	origins := append([]string{sec.ClientURL}, sec.AllowedOrigins...)
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if !strings.Contains(o, "*") {
			p.exact[o] = true
			continue
		}
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(o), `\*`, ".*") + "$"
		p.patterns = append(p.patterns, regexp.MustCompile(expr))
	}
	return p
}

func (p *originPolicy) allow(origin string) bool {
	if origin == "" {
		return true
	}
	if isLocalOrigin(origin) || p.exact[origin] {
		return true
	}
	for _, re := range p.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// corsHandler answers preflights and sets CORS headers for allowed origins.
func (p *originPolicy) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return p.allow(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// rejectDisallowed refuses requests from origins outside the policy.
func (p *originPolicy) rejectDisallowed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.allow(r.Header.Get("Origin")) {
			writeError(w, http.StatusForbidden, "origin not allowed by CORS")
			return
		}
		next.ServeHTTP(w, r)
	})
}
