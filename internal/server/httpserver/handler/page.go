package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/yndnr/deskshare-go/internal/infra/qrcode"
)

//go:embed templates/index.html
var templateFS embed.FS

var landingTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// landingPage is the data rendered by templates/index.html.
type landingPage struct {
	StatusResponse
	// DisplayURL is the connect URL with the token cut to its preview. The
	// full URL only ever appears inside the QR image.
	DisplayURL string
	QRDataURI  template.URL
	Monitors   []int
}

// baseURL returns the scheme and host clients should connect to.
func (h *Handler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if h.trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	return scheme + "://" + r.Host
}

// handleIndex handles GET /. The QR code is only rendered while the token
// can still be claimed.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := landingPage{StatusResponse: h.status()}
	for i := 1; i <= data.MonitorCount; i++ {
		data.Monitors = append(data.Monitors, i)
	}

	if data.TokenValid {
		base := h.baseURL(r) + "/?token="
		data.DisplayURL = base + url.QueryEscape(data.TokenPreview) + "…"
		uri, err := qrcode.DataURI(base + url.QueryEscape(h.gate.TokenValue()))
		if err != nil {
			h.log(r).Error("failed to render qr code", "error", err)
		} else {
			// Generated locally as base64 PNG, safe for an img src.
			data.QRDataURI = template.URL(uri)
		}
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.log(r).Error("failed to render landing page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
