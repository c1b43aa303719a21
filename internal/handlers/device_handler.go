package handlers

//go:generate mockgen -source=device_handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	ownerauth "github.com/prudhvinik1/deviceprov/internal/middleware"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

// Service is the enrollment surface the handler exposes over HTTP.
type Service interface {
	Provision(ctx context.Context, owner *models.Owner, deviceName string) (*models.Artifact, error)
	Remove(ctx context.Context, deviceID string) (bool, error)
	Update(ctx context.Context, deviceID, name string) (bool, error)
	Get(ctx context.Context, deviceID string) (*models.Device, error)
	ListActiveForOwner(ctx context.Context, owner string) ([]*models.Device, error)
}

type DeviceHandler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewDeviceHandler(service Service, logger *zap.SugaredLogger) *DeviceHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DeviceHandler{service: service, logger: logger}
}

func (h *DeviceHandler) Register(r chi.Router) {
	r.Route("/enrollment", func(r chi.Router) {
		r.Get("/devices", h.HandleList)
		r.Get("/devices/download", h.HandleDownload)
		r.Get("/devices/{device_id}", h.HandleGet)
		r.Put("/devices/{device_id}", h.HandleUpdate)
		r.Delete("/devices/{device_id}", h.HandleRemove)
	})
}

func (h *DeviceHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")

	ok, err := h.service.Remove(r.Context(), deviceID)
	if err != nil {
		h.fail(w, r, "remove device", err, "device_id", deviceID)
		return
	}
	if !ok {
		WriteError(w, apperrors.New(apperrors.KindDeclined, "handlers.Remove", "device removal declined"))
		return
	}
	WriteJSON(w, http.StatusOK, true)
}

func (h *DeviceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	name := r.URL.Query().Get("name")

	ok, err := h.service.Update(r.Context(), deviceID, name)
	if err != nil {
		h.fail(w, r, "update device", err, "device_id", deviceID)
		return
	}
	if !ok {
		WriteError(w, apperrors.New(apperrors.KindDeclined, "handlers.Update", "device update declined"))
		return
	}
	WriteJSON(w, http.StatusOK, true)
}

func (h *DeviceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")

	device, err := h.service.Get(r.Context(), deviceID)
	if err != nil {
		h.fail(w, r, "get device", err, "device_id", deviceID)
		return
	}
	WriteJSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var username string
	if owner := ownerauth.OwnerFrom(r.Context()); owner != nil {
		username = owner.Username
	}

	devices, err := h.service.ListActiveForOwner(r.Context(), username)
	if err != nil {
		h.fail(w, r, "list devices", err, "owner", username)
		return
	}
	WriteJSON(w, http.StatusOK, devices)
}

// HandleDownload provisions a device and streams its bundle. The artifact
// holds live tokens and is discarded once written.
func (h *DeviceHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	owner := ownerauth.OwnerFrom(r.Context())
	deviceName := r.URL.Query().Get("deviceName")

	art, err := h.service.Provision(r.Context(), owner, deviceName)
	if err != nil {
		h.fail(w, r, "provision device", err, "device_name", deviceName)
		return
	}
	defer art.Discard()

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Payload)))
	w.Header().Set("X-Device-Id", art.DeviceID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Payload); err != nil {
		h.logger.Warnw("artifact write interrupted",
			"device_id", art.DeviceID,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}

func (h *DeviceHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error, kv ...any) {
	fields := append([]any{
		"request_id", middleware.GetReqID(r.Context()),
		"kind", apperrors.KindOf(err),
		"error", err,
	}, kv...)
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		h.logger.Errorw(action+" failed", fields...)
	} else {
		h.logger.Infow(action+" rejected", fields...)
	}
	WriteError(w, err)
}
