package sightings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"regresa/internal/domain/report"
	"regresa/internal/matching"
	"regresa/internal/middleware"
	"regresa/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHTTPLimit = 10
	maxHTTPLimit     = 200
)

// Matcher es el pipeline de comparación por imagen.
type Matcher interface {
	Run(ctx context.Context, in matching.Input) ([]matching.Result, error)
}

func RegisterRoutes(r chi.Router, svc *Service, matcher Matcher, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"module": "sightings"})

	r.Route("/sightings", func(sr chi.Router) {
		sr.Get("/", listSightingsHandler(svc, log))
		sr.Post("/", createSightingHandler(svc, matcher, log))

		// Antes de /{sightingID} para que no lo capture el parámetro.
		sr.Post("/image-match", imageMatchHandler(svc, matcher, log))

		sr.Get("/{sightingID}", getSightingHandler(svc, log))
		sr.Delete("/{sightingID}", deleteSightingHandler(svc, log))
	})

	r.Get("/me/sightings", listMySightingsHandler(svc, log))
}

type ContactInfo struct {
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty" enums:"phone,email"`
}

type CoordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createSightingRequest struct {
	LostPetID    string           `json:"lostPetId"`
	AnimalType   string           `json:"animalType"`
	AnimalSize   string           `json:"animalSize"`
	AnimalColor  string           `json:"animalColor"`
	Description  string           `json:"description"`
	SightingType string           `json:"sightingType" enums:"solo-animal,resembles-lost,with-owner,in-danger"`
	Location     string           `json:"location"`
	Coordinates  *CoordinatesJSON `json:"coordinates,omitempty"`
	ImageURL     string           `json:"imageUrl"`
	// ImageData (data URL) dispara el matching contra este avistamiento.
	ImageData string `json:"imageData,omitempty"`

	ContactInfo   *ContactInfo `json:"contactInfo,omitempty"`
	ReporterName  string       `json:"reporterName"`
	ReporterEmail string       `json:"reporterEmail"`
	ReporterPhone string       `json:"reporterPhone"`

	SightedAt    string `json:"sightedAt"`    // RFC3339
	SightingDate string `json:"sightingDate"` // YYYY-MM-DD
	SightingTime string `json:"sightingTime"` // HH:MM
}

type imageMatchRequest struct {
	Image      string `json:"image"`
	SightingID string `json:"sightingId,omitempty"`
}

type sightingResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId,omitempty"`
	LostPetID    string           `json:"lostPetId,omitempty"`
	AnimalType   string           `json:"animalType,omitempty"`
	AnimalSize   string           `json:"animalSize,omitempty"`
	AnimalColor  string           `json:"animalColor,omitempty"`
	Description  string           `json:"description"`
	SightingType Kind             `json:"sightingType"`
	Location     string           `json:"location"`
	Coordinates  *CoordinatesJSON `json:"coordinates,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	ReporterName string           `json:"reporterName,omitempty"`
	ContactInfo  ContactInfo      `json:"contactInfo"`
	SightedAt    *time.Time       `json:"sightedAt,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type createdResponse struct {
	Message string                    `json:"message"`
	ID      string                    `json:"id"`
	Matches []matching.ResultResponse `json:"matches,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createSightingHandler godoc
// @Summary Reportar avistamiento
// @Description Registra un avistamiento (anónimo o con identidad). Si viene `imageData` se compara contra los casos abiertos y la respuesta incluye `matches` (máx. 5).
// @Tags sightings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createSightingRequest true "Datos del avistamiento; description, location y sightingType son obligatorios"
// @Success 201 {object} createdResponse
// @Failure 400 {object} errorResponse "invalid json / campo obligatorio faltante"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings [post]
func createSightingHandler(svc *Service, matcher Matcher, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSightingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		sightedAt, err := req.sightedAt()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		reporterID := ""
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			reporterID = claims.UserID
		}

		sg, err := svc.Create(r.Context(), reporterID, CreateInput{
			LostPetID:   req.LostPetID,
			AnimalType:  req.AnimalType,
			Size:        req.AnimalSize,
			Color:       req.AnimalColor,
			Description: req.Description,
			Kind:        Kind(req.SightingType),
			Location:    req.Location,
			Coordinates: req.Coordinates.toDomain(),
			ImageURL:    req.ImageURL,
			Contact:     req.contact(),
			SightedAt:   sightedAt,
		})
		if err != nil {
			writeServiceError(w, log, "create sighting", err)
			return
		}

		resp := createdResponse{
			Message: "Sighting report created",
			ID:      sg.ID,
		}

		if strings.TrimSpace(req.ImageData) != "" && matcher != nil {
			results, err := matcher.Run(r.Context(), matching.Input{
				Image:      req.ImageData,
				SightingID: sg.ID,
			})
			if err != nil {
				// El avistamiento ya quedó guardado; el matching es best-effort.
				log.Warn("image match after create failed", map[string]any{"sighting_id": sg.ID, "error": err})
			}
			resp.Matches = matching.Responses(results)
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

// listSightingsHandler godoc
// @Summary Listar avistamientos
// @Description Avistamientos más recientes primero. Si el almacenamiento no está disponible devuelve datos de ejemplo.
// @Tags sightings
// @Produce json
// @Param limit query int false "Máximo de avistamientos (0-200). Por defecto 10"
// @Success 200 {array} sightingResponse
// @Failure 400 {object} errorResponse "limit inválido"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings [get]
func listSightingsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.List(r.Context(), limit)
		if err != nil {
			writeServiceError(w, log, "list sightings", err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// getSightingHandler godoc
// @Summary Obtener avistamiento
// @Tags sightings
// @Produce json
// @Param sightingID path string true "ID del avistamiento"
// @Success 200 {object} sightingResponse
// @Failure 404 {object} errorResponse "sighting not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings/{sightingID} [get]
func getSightingHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sg, err := svc.GetByID(r.Context(), chi.URLParam(r, "sightingID"))
		if err != nil {
			writeServiceError(w, log, "get sighting", err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(sg))
	}
}

// deleteSightingHandler godoc
// @Summary Eliminar avistamiento
// @Description Elimina el avistamiento y sus coincidencias. Requiere identidad; si tiene reporter solo él puede borrarlo.
// @Tags sightings
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param sightingID path string true "ID del avistamiento"
// @Success 204
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "sighting not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings/{sightingID} [delete]
func deleteSightingHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "sightingID"), claims.UserID); err != nil {
			writeServiceError(w, log, "delete sighting", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listMySightingsHandler godoc
// @Summary Mis avistamientos
// @Tags sightings
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} sightingResponse
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 500 {object} errorResponse "internal error"
// @Router /me/sightings [get]
func listMySightingsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByReporter(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, log, "list my sightings", err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// imageMatchHandler godoc
// @Summary Comparar imagen con mascotas perdidas
// @Description Compara la imagen contra los casos abiertos con foto y devuelve hasta 5 coincidencias (confianza >= 0.6) de mayor a menor. Si se envía `sightingId` las coincidencias se guardan contra ese avistamiento; si no, contra el avistamiento creado en los últimos 5 minutos.
// @Tags sightings
// @Accept json
// @Produce json
// @Param payload body imageMatchRequest true "image: data URL o URL de la foto"
// @Success 200 {array} matching.ResultResponse
// @Failure 400 {object} errorResponse "image is required"
// @Failure 404 {object} errorResponse "sighting not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /sightings/image-match [post]
func imageMatchHandler(svc *Service, matcher Matcher, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req imageMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(req.Image) == "" {
			writeError(w, http.StatusBadRequest, "image is required")
			return
		}

		if id := strings.TrimSpace(req.SightingID); id != "" {
			if _, err := svc.GetByID(r.Context(), id); err != nil {
				writeServiceError(w, log, "resolve sighting", err)
				return
			}
		}

		if matcher == nil {
			writeJSON(w, http.StatusOK, []matching.ResultResponse{})
			return
		}

		results, err := matcher.Run(r.Context(), matching.Input{
			Image:      req.Image,
			SightingID: req.SightingID,
		})
		if err != nil {
			if errors.Is(err, matching.ErrImageRequired) {
				writeError(w, http.StatusBadRequest, "image is required")
				return
			}
			log.Error("image match failed", map[string]any{"error": err})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, matching.Responses(results))
	}
}

// sightedAt acepta sightedAt (RFC3339) o el par sightingDate/sightingTime del formulario.
func (req createSightingRequest) sightedAt() (*time.Time, error) {
	if v := strings.TrimSpace(req.SightedAt); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.New("sightedAt must be RFC3339")
		}
		return &t, nil
	}

	date := strings.TrimSpace(req.SightingDate)
	if date == "" {
		return nil, nil
	}
	clock := strings.TrimSpace(req.SightingTime)
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return nil, errors.New("sightingDate must be YYYY-MM-DD and sightingTime HH:MM")
	}
	return &t, nil
}

func (req createSightingRequest) contact() report.Contact {
	c := report.Contact{
		Name:  req.ReporterName,
		Phone: req.ReporterPhone,
		Email: req.ReporterEmail,
	}
	if req.ContactInfo != nil {
		if req.ContactInfo.Phone != "" {
			c.Phone = req.ContactInfo.Phone
		}
		if req.ContactInfo.Email != "" {
			c.Email = req.ContactInfo.Email
		}
		c.Preferred = report.ContactChannel(req.ContactInfo.PreferredContact)
	}
	return c
}

func (c *CoordinatesJSON) toDomain() *report.Coordinates {
	if c == nil {
		return nil
	}
	return &report.Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultHTTPLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	if n > maxHTTPLimit {
		n = maxHTTPLimit
	}
	return n, nil
}

func toResponse(sg Sighting) sightingResponse {
	out := sightingResponse{
		ID:           sg.ID,
		UserID:       sg.ReporterUserID,
		LostPetID:    sg.LostPetID,
		AnimalType:   sg.AnimalType,
		AnimalSize:   sg.Size,
		AnimalColor:  sg.Color,
		Description:  sg.Description,
		SightingType: sg.Kind,
		Location:     sg.Location,
		ImageURL:     sg.ImageURL,
		ReporterName: sg.Contact.Name,
		ContactInfo: ContactInfo{
			Phone:            sg.Contact.Phone,
			Email:            sg.Contact.Email,
			PreferredContact: string(sg.Contact.Preferred),
		},
		SightedAt: sg.SightedAt,
		CreatedAt: sg.CreatedAt,
	}
	if sg.Coordinates != nil {
		out.Coordinates = &CoordinatesJSON{Lat: sg.Coordinates.Lat, Lng: sg.Coordinates.Lng}
	}
	return out
}

func toResponses(items []Sighting) []sightingResponse {
	out := make([]sightingResponse, 0, len(items))
	for _, sg := range items {
		out = append(out, toResponse(sg))
	}
	return out
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "sighting not found")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		log.Error(op+" failed", map[string]any{"error": err})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
