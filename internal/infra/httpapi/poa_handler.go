package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"poa_tracker/internal/app"
	"poa_tracker/internal/domain/poa"
	idb "poa_tracker/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// RecordStore is what the handlers need from the persistence layer.
type RecordStore interface {
	Create(ctx context.Context, rec *poa.Record) error
	ListAll(ctx context.Context) ([]*poa.Record, error)
	Delete(ctx context.Context, id int64) error
}

// ScanTrigger invokes one expiry scan tick on demand.
type ScanTrigger interface {
	RunScanOnce(ctx context.Context) (app.ScanReport, error)
}

// DBPinger is the health-check view of the database pool.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// POAHandler serves the power of attorney CRUD and trigger endpoints.
type POAHandler struct {
	store    RecordStore
	scanner  ScanTrigger
	db       DBPinger
	botReady bool
	port     string
	logger   *logrus.Logger
	now      func() time.Time
}

func NewPOAHandler(store RecordStore, scanner ScanTrigger, db DBPinger, botReady bool, port string, logger *logrus.Logger) *POAHandler {
	return &POAHandler{
		store:    store,
		scanner:  scanner,
		db:       db,
		botReady: botReady,
		port:     port,
		logger:   logger,
		now:      time.Now,
	}
}

type createPowerRequest struct {
	FullName     string `json:"full_name"`
	POAType      string `json:"poa_type"`
	EndDate      string `json:"end_date"`
	NotifyTarget string `json:"notify_target"`
}

type recordResponse struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	POAType          string `json:"poa_type"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	DaysRemaining    int    `json:"days_remaining"`
	NotifyTarget     string `json:"notify_target,omitempty"`
	NotificationSent bool   `json:"notification_sent"`
	CreatedAt        string `json:"created_at"`
}

// Root reports that the service is up.
// GET /
func (h *POAHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Power of Attorney Tracker",
		"status":  "running",
	})
}

// Health reports service, database and bot status.
// GET /api/health
func (h *POAHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not_configured"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warnf("Health check: database ping failed: %v", err)
			dbStatus = "disconnected"
		} else {
			dbStatus = "connected"
		}
	}

	botStatus := "not_configured"
	if h.botReady {
		botStatus = "ready"
	}

	status := "healthy"
	code := http.StatusOK
	if dbStatus != "connected" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":       status,
		"timestamp":    h.now().Format(time.RFC3339),
		"database":     dbStatus,
		"telegram_bot": botStatus,
		"port":         h.port,
	})
}

// CreatePower registers a new power of attorney record.
// POST /api/powers/
//
// Parameters arrive either as a JSON body or as query/form values:
// full_name, poa_type, end_date (YYYY-MM-DD) and optional notify_target.
func (h *POAHandler) CreatePower(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "database is not available")
		return
	}

	var req createPowerRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
	} else {
		req.FullName = r.FormValue("full_name")
		req.POAType = r.FormValue("poa_type")
		req.EndDate = r.FormValue("end_date")
		req.NotifyTarget = r.FormValue("notify_target")
	}

	if strings.TrimSpace(req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "full_name is required")
		return
	}
	if strings.TrimSpace(req.POAType) == "" {
		writeError(w, http.StatusBadRequest, "poa_type is required")
		return
	}

	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be a valid date in YYYY-MM-DD format")
		return
	}

	rec := &poa.Record{
		FullName:  strings.TrimSpace(req.FullName),
		POAType:   strings.TrimSpace(req.POAType),
		StartDate: poa.Midnight(h.now()),
		EndDate:   endDate,
	}
	if t := strings.TrimSpace(req.NotifyTarget); t != "" {
		rec.NotifyTarget.String = t
		rec.NotifyTarget.Valid = true
	}

	if err := h.store.Create(r.Context(), rec); err != nil {
		h.logger.Errorf("Failed to create record: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store record")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        rec.ID,
		"message":   "Power of attorney record created",
		"full_name": rec.FullName,
		"end_date":  rec.EndDate.Format("2006-01-02"),
	})
}

// ListPowers returns every record, soonest-expiring first.
// GET /api/powers/
func (h *POAHandler) ListPowers(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "database is not available")
		return
	}

	records, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to list records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	today := poa.Midnight(h.now())
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		resp := recordResponse{
			ID:               rec.ID,
			FullName:         rec.FullName,
			POAType:          rec.POAType,
			StartDate:        rec.StartDate.Format("2006-01-02"),
			EndDate:          rec.EndDate.Format("2006-01-02"),
			DaysRemaining:    rec.DaysRemaining(today),
			NotificationSent: rec.NotificationSent,
			CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
		}
		if rec.NotifyTarget.Valid {
			resp.NotifyTarget = rec.NotifyTarget.String
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, out)
}

// DeletePower removes a record by id.
// DELETE /api/powers/{id}
func (h *POAHandler) DeletePower(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "database is not available")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "record id must be an integer")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, idb.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		h.logger.Errorf("Failed to delete record %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Power of attorney record deleted",
	})
}

// CheckExpiring runs one expiry scan tick synchronously. Shares the exact
// routine with the cron trigger, so both paths behave identically.
// GET /api/check-expiring
func (h *POAHandler) CheckExpiring(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "expiry scan is not available")
		return
	}

	report, err := h.scanner.RunScanOnce(r.Context())
	if err != nil {
		h.logger.Errorf("Manual expiry check failed: %v", err)
		writeError(w, http.StatusInternalServerError, "expiry check failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "completed",
		"checked":  report.Checked,
		"notified": report.Notified,
		"failed":   report.Failed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
