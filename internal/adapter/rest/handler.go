// Package rest serves the public read-only feeds and operational endpoints
// over plain HTTP.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/wire"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/usecase"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.uber.org/zap"
)

// FeedHandler serves guest views of the ads and directory feeds.
type FeedHandler struct {
	feed   *usecase.FeedUsecase
	logger *logger.Logger
}

func NewFeedHandler(feed *usecase.FeedUsecase, log *logger.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, logger: log.Named("FeedHTTPHandler")}
}

type adsResponse struct {
	Ads []wire.Ad `json:"ads"`
}

type directoryResponse struct {
	Premium []wire.DirectoryBuyer `json:"premium"`
	Regular []wire.DirectoryBuyer `json:"regular"`
}

// HandleListAds serves GET /api/ads.
func (h *FeedHandler) HandleListAds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ads, err := h.feed.ListAds(r.Context(), usecase.AdQuery{
		Filters: adFiltersFrom(q),
		Viewer:  domain.RoleGuest,
		ShowAll: boolParam(q, "showAll", false),
	})
	if err != nil {
		h.fail(w, "list ads", err)
		return
	}
	h.writeJSON(w, http.StatusOK, adsResponse{Ads: wire.FromAds(ads)})
}

// HandleListDirectory serves GET /api/directory.
func (h *FeedHandler) HandleListDirectory(w http.ResponseWriter, r *http.Request) {
	view, err := h.feed.ListDirectory(r.Context(), directoryFiltersFrom(r.URL.Query()))
	if err != nil {
		h.fail(w, "list directory", err)
		return
	}
	h.writeJSON(w, http.StatusOK, directoryResponse{
		Premium: wire.DirectoryBuyers(view.Premium),
		Regular: wire.DirectoryBuyers(view.Regular),
	})
}

// adFiltersFrom reads filters from the query string. Unparseable values
// keep their defaults.
func adFiltersFrom(q url.Values) domain.AdFilters {
	f := domain.DefaultAdFilters()
	f.Zip = q.Get("zip")
	f.Search = q.Get("search")
	f.CategoryDevices = boolParam(q, "devices", f.CategoryDevices)
	f.CategorySupplies = boolParam(q, "supplies", f.CategorySupplies)
	f.CategoryTestStrips = boolParam(q, "strips", f.CategoryTestStrips)
	f.PriceMin = q.Get("priceMin")
	f.PriceMax = q.Get("priceMax")
	if sortBy := q.Get("sortBy"); sortBy != "" {
		f.SortBy = sortBy
	}
	return f
}

func directoryFiltersFrom(q url.Values) domain.DirectoryFilters {
	f := domain.DefaultDirectoryFilters()
	f.Zip = q.Get("zip")
	f.Search = q.Get("search")
	if fulfillment := domain.Fulfillment(q.Get("fulfillment")); fulfillment.IsValid() {
		f.Fulfillment = fulfillment
	}
	if sortBy := q.Get("sortBy"); sortBy != "" {
		f.SortBy = sortBy
	}
	return f
}

func boolParam(q url.Values, key string, fallback bool) bool {
	v, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func (h *FeedHandler) fail(w http.ResponseWriter, action string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable), errors.Is(err, domain.ErrSubscriptionClosed):
		code = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	}
	h.logger.Error("Request failed", zap.String("action", action), zap.Int("status", code), zap.Error(err))
	h.writeJSON(w, code, map[string]string{"error": "failed to " + action})
}

func (h *FeedHandler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
