package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/vessel"
	"github.com/turtacn/GrayZone-Monitor/internal/domain/zone"
	"github.com/turtacn/GrayZone-Monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// ViewService is the part of the composer the handlers read.
// *viewmodel.Composer satisfies it.
type ViewService interface {
	Presented() (viewmodel.ViewModel, bool)
	State() viewmodel.RefreshState
	Refresh(ctx context.Context) (viewmodel.RefreshState, error)
	Registry() *vessel.Registry
	Zones() *zone.Index
	Hotspots() *zone.Index
}

var errViewNotLoaded = errors.New(errors.ErrCodeViewNotLoaded, "no snapshot has been loaded yet")

// ViewHandler serves the composed view and its sections.
type ViewHandler struct {
	svc    ViewService
	logger logging.Logger
}

func NewViewHandler(svc ViewService, logger logging.Logger) *ViewHandler {
	return &ViewHandler{svc: svc, logger: logger}
}

// NotLoadedResponse is the 503 body served before any view exists.
type NotLoadedResponse struct {
	ErrorResponse
	Status viewmodel.Status `json:"status"`
}

// presented returns the view or writes 503 when nothing is loaded.  A request
// whose If-None-Match matches the view's ETag is answered with 304.
func (h *ViewHandler) presented(w http.ResponseWriter, r *http.Request) (viewmodel.ViewModel, bool) {
	vm, ok := h.svc.Presented()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, NotLoadedResponse{
			ErrorResponse: ErrorResponse{Code: errViewNotLoaded.Code.String(), Message: errViewNotLoaded.Message},
			Status:        h.svc.State().Status,
		})
		return vm, false
	}
	etag := vm.ETag()
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return vm, false
	}
	return vm, true
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// GetView handles GET /api/v1/view.
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	if vm, ok := h.presented(w, r); ok {
		writeJSON(w, http.StatusOK, vm)
	}
}

// GetDarkVessels handles GET /api/v1/dark-vessels.
func (h *ViewHandler) GetDarkVessels(w http.ResponseWriter, r *http.Request) {
	if vm, ok := h.presented(w, r); ok {
		writeJSON(w, http.StatusOK, vm.Dark)
	}
}

// GetSuspicious handles GET /api/v1/suspicious.
func (h *ViewHandler) GetSuspicious(w http.ResponseWriter, r *http.Request) {
	if vm, ok := h.presented(w, r); ok {
		writeJSON(w, http.StatusOK, vm.Suspicious)
	}
}

// GetIdentity handles GET /api/v1/identity.
func (h *ViewHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	if vm, ok := h.presented(w, r); ok {
		writeJSON(w, http.StatusOK, vm.Identity)
	}
}

// GetStatus handles GET /api/v1/status.  It always answers 200 so callers
// can read the failure state itself.
func (h *ViewHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.State())
}

// Refresh handles POST /api/v1/refresh.
func (h *ViewHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.logger.Warn("manual refresh failed", logging.String("refresh_id", state.RefreshID), logging.Err(err))
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ZonesResponse lists drill zones with their current counts, and the
// fishing hotspots.
type ZonesResponse struct {
	Zones    []viewmodel.ZoneView `json:"zones"`
	Hotspots []viewmodel.ZoneView `json:"hotspots"`
}

// ListZones handles GET /api/v1/zones.  Before the first load the zones are
// listed with zero counts.
func (h *ViewHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	resp := ZonesResponse{Hotspots: plainZones(h.svc.Hotspots())}
	if vm, ok := h.svc.Presented(); ok {
		resp.Zones = vm.Zones
	} else {
		resp.Zones = plainZones(h.svc.Zones())
	}
	writeJSON(w, http.StatusOK, resp)
}

func plainZones(ix *zone.Index) []viewmodel.ZoneView {
	zones := ix.Zones()
	out := make([]viewmodel.ZoneView, 0, len(zones))
	for _, z := range zones {
		out = append(out, viewmodel.ZoneView{ID: z.ID, Name: z.Name, Color: z.Color, Bounds: z.Bounds(), Points: z.Polygon})
	}
	return out
}

// VesselsResponse is a vessel listing.
type VesselsResponse struct {
	Vessels []vessel.Record `json:"vessels"`
	Total   int             `json:"total"`
}

// ListZoneVessels handles GET /api/v1/zones/{zoneID}/vessels.
func (h *ViewHandler) ListZoneVessels(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "zoneID")
	if !h.svc.Zones().Has(zoneID) {
		writeAppError(w, errors.New(errors.ErrCodeZoneNotFound, "zone not found").WithDetail(zoneID))
		return
	}
	records := h.svc.Registry().InZone(zoneID)
	writeJSON(w, http.StatusOK, VesselsResponse{Vessels: records, Total: len(records)})
}

// ListVessels handles GET /api/v1/vessels.  Optional filters: type,
// suspicious=true, in_zone=true.
func (h *ViewHandler) ListVessels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ := vessel.Type(strings.ToLower(q.Get("type")))
	if typ != "" && !typ.IsValid() {
		writeAppError(w, errors.InvalidParam("unknown vessel type").WithDetail(string(typ)))
		return
	}
	suspiciousOnly := q.Get("suspicious") == "true"
	inZoneOnly := q.Get("in_zone") == "true"

	all := h.svc.Registry().List()
	out := make([]vessel.Record, 0, len(all))
	for _, rec := range all {
		if typ != "" && rec.Type != typ {
			continue
		}
		if suspiciousOnly && !rec.Suspicious {
			continue
		}
		if inZoneOnly && !rec.InZone() {
			continue
		}
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, VesselsResponse{Vessels: out, Total: len(out)})
}

// GetVessel handles GET /api/v1/vessels/{mmsi}.
func (h *ViewHandler) GetVessel(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "mmsi")
	mmsi, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || mmsi <= 0 {
		writeAppError(w, errors.InvalidParam("mmsi must be a positive integer").WithDetail(raw))
		return
	}
	rec, ok := h.svc.Registry().Get(mmsi)
	if !ok {
		writeAppError(w, errors.New(errors.ErrCodeVesselNotFound, "vessel not found").WithDetail(raw))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

//Personal.AI order the ending
