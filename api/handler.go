package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devsstudio/skillsview/database"
	"github.com/devsstudio/skillsview/request"
	"github.com/devsstudio/skillsview/response"
	"github.com/devsstudio/skillsview/services"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// PoolProvider hands out the shared connection pool.
type PoolProvider interface {
	Pool() (*gorm.DB, error)
}

type Handler struct {
	pools  PoolProvider
	orders *services.OrderColumns
	logger *slog.Logger
}

func NewHandler(pools PoolProvider, schema string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pools:  pools,
		orders: services.NewOrderColumns(schema),
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
	r.Get("/licenses", h.ListLicenses)
	r.Get("/db-check", h.DBCheck)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := request.ParseUsersRequest(r.URL.Query())

	db, err := h.pools.Pool()
	if err != nil {
		h.fail(w, r, "GET /users", err)
		return
	}

	order := h.orderColumn(r.Context(), db, services.UsersTable)
	page, err := services.NewUserService(db, order).List(r.Context(), req)
	if err != nil {
		h.fail(w, r, "GET /users", err)
		return
	}

	writeJSON(w, http.StatusOK, response.Paginated(page))
}

func (h *Handler) ListLicenses(w http.ResponseWriter, r *http.Request) {
	db, err := h.pools.Pool()
	if err != nil {
		h.fail(w, r, "GET /licenses", err)
		return
	}

	order := h.orderColumn(r.Context(), db, services.LicensesTable)
	list, err := services.NewLicenseService(db, order).List(r.Context())
	if err != nil {
		h.fail(w, r, "GET /licenses", err)
		return
	}

	writeJSON(w, http.StatusOK, response.Ok(list))
}

func (h *Handler) DBCheck(w http.ResponseWriter, r *http.Request) {
	db, err := h.pools.Pool()
	if err == nil {
		var rows []map[string]any
		rows, err = services.Ping(r.Context(), db)
		if err == nil {
			writeJSON(w, http.StatusOK, response.DBCheckResponse{Success: true, Rows: rows})
			return
		}
	}

	h.logger.ErrorContext(r.Context(), "db check failed", "route", "GET /db-check", "error", err)
	writeJSON(w, http.StatusInternalServerError, response.DBCheckResponse{
		Success: false,
		Error:   database.PublicMessage(database.Classify(err)),
	})
}

// orderColumn resolves the sort column for table. A failed probe is logged
// and the listing falls back to database order.
func (h *Handler) orderColumn(ctx context.Context, db *gorm.DB, table string) string {
	col, err := h.orders.For(ctx, services.NewCatalogSource(db), table)
	if err != nil {
		h.logger.WarnContext(ctx, "order column probe failed, listing unordered", "table", table, "error", err)
		return ""
	}
	return col
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	err = database.Classify(err)
	h.logger.ErrorContext(r.Context(), "request failed", "route", route, "error", err)
	writeJSON(w, http.StatusInternalServerError, response.Fail(database.PublicMessage(err)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
