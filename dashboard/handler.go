package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/devsstudio/skillsview/request"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"formatInt": FormatInt,
	"pageSizes": func() []int { return []int{10, 20, 50, 100} },
}).ParseFS(templateFS, "templates/page.html"))

type Handler struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(client *Client, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, logger: logger, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	req := request.ParseUsersRequest(r.URL.Query())

	sections := FetchAll(r.Context(), h.client, req)
	if msg := sections.Users.Failure(); msg != "" {
		h.logger.WarnContext(r.Context(), "users section failed", "error", msg)
	}
	if msg := sections.Licenses.Failure(); msg != "" {
		h.logger.WarnContext(r.Context(), "licenses section failed", "error", msg)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, BuildPage(req, sections, h.now())); err != nil {
		h.logger.ErrorContext(r.Context(), "render dashboard", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
