package handlers

import (
	"net/http"
	"time"

	"github.com/trendmart/storefront/internal/admin"
	"github.com/trendmart/storefront/internal/repository"
)

type AdminHandler struct {
	orders    *repository.OrderRepo
	lineLimit int
}

func NewAdminHandler(orderRepo *repository.OrderRepo, lineLimit int) *AdminHandler {
	return &AdminHandler{orders: orderRepo, lineLimit: lineLimit}
}

// Dashboard handles GET /admin/dashboard?month=&year=. Missing parameters
// default to the current month.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := time.Month(queryInt(r, "month", int(now.Month())))
	year := queryInt(r, "year", now.Year())
	if month < time.January || month > time.December {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	lines, err := h.orders.ListLines(r.Context(), h.lineLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, admin.MonthlyStats(lines, month, year))
}
