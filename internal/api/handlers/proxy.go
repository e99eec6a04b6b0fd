package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/pkg/httputil"
	"github.com/rdelorme/vaultlens/pkg/logger"
)

// ProxyHandler serves a sanitized copy of a Morpho vault page so it can be
// embedded in a frame. The upstream page sets frame-blocking headers, so a
// plain iframe cannot load it directly.
type ProxyHandler struct {
	httpClient *httputil.Client
	siteURL    string
	logger     *logger.Logger
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(httpClient *httputil.Client, siteURL string, log *logger.Logger) *ProxyHandler {
	return &ProxyHandler{
		httpClient: httpClient,
		siteURL:    strings.TrimRight(siteURL, "/"),
		logger:     log,
	}
}

// GetMorphoPage handles GET /proxy/morpho?network=...&address=...
func (h *ProxyHandler) GetMorphoPage(w http.ResponseWriter, r *http.Request) {
	network := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("network")))
	address := strings.TrimSpace(r.URL.Query().Get("address"))

	if !knownNetworkSlug(network) {
		respondError(w, http.StatusBadRequest, "unknown network")
		return
	}
	if !morpho.LooksLikeAddress(address) {
		respondError(w, http.StatusBadRequest, "invalid vault address")
		return
	}

	pageURL := fmt.Sprintf("%s/%s/vault/%s", h.siteURL, network, address)

	resp, err := h.httpClient.Get(r.Context(), pageURL)
	if err != nil {
		h.logger.WithError(err).WithField("url", pageURL).Error("Failed to fetch Morpho page")
		respondError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("upstream returned status %d", resp.StatusCode))
		return
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "invalid upstream url")
		return
	}

	html, err := sanitizeEmbedPage(resp.Body, base)
	if err != nil {
		h.logger.WithError(err).WithField("url", pageURL).Error("Failed to rewrite Morpho page")
		respondError(w, http.StatusBadGateway, "failed to process upstream page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, html)
}

// knownNetworkSlug reports whether the slug is one of the supported networks.
func knownNetworkSlug(slug string) bool {
	for _, n := range morpho.Networks {
		if n.Slug == slug {
			return true
		}
	}
	return false
}

// sanitizeEmbedPage strips frame-blocking meta tags and scripts from an
// upstream page and rewrites relative links against the page's own origin,
// so the result renders as a static snapshot inside a frame.
func sanitizeEmbedPage(body io.Reader, base *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse upstream page: %w", err)
	}

	doc.Find(`meta[http-equiv="Content-Security-Policy"]`).Remove()
	doc.Find(`meta[http-equiv="X-Frame-Options"]`).Remove()
	doc.Find("script").Remove()

	rewriteAttr(doc, "href", base)
	rewriteAttr(doc, "src", base)

	return doc.Html()
}

// rewriteAttr turns relative attr values into absolute URLs.
func rewriteAttr(doc *goquery.Document, attr string, base *url.URL) {
	doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
		value, _ := sel.Attr(attr)
		if !isRelativeRef(value) {
			return
		}
		ref, err := url.Parse(value)
		if err != nil {
			return
		}
		sel.SetAttr(attr, base.ResolveReference(ref).String())
	})
}

// isRelativeRef reports whether a link should be resolved against the base.
// Anchors, protocol-relative links and non-HTTP schemes are left alone.
func isRelativeRef(value string) bool {
	if value == "" {
		return false
	}
	for _, prefix := range []string{"#", "//", "http://", "https://", "mailto:", "javascript:", "data:"} {
		if strings.HasPrefix(value, prefix) {
			return false
		}
	}
	return true
}
