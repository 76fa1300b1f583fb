package lostpets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"regresa/internal/domain/report"
	"regresa/internal/middleware"
	"regresa/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHTTPLimit = 10
	maxHTTPLimit     = 200
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"module": "lostpets"})

	r.Route("/pets/lost", func(pr chi.Router) {
		pr.Get("/", listLostPetsHandler(svc, log))
		pr.Post("/", createLostPetHandler(svc, log))

		pr.Get("/{petID}", getLostPetHandler(svc, log))
		pr.Patch("/{petID}", updateLostPetHandler(svc, log))
		pr.Delete("/{petID}", deleteLostPetHandler(svc, log))

		// lost -> found, una sola vía
		pr.Post("/{petID}/found", markFoundHandler(svc, log))
	})

	// Reportes propios (requiere identidad)
	r.Get("/me/pets/lost", listMyLostPetsHandler(svc, log))
}

// ContactInfo es el bloque de contacto tal como lo manda el formulario.
type ContactInfo struct {
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	PreferredContact string `json:"preferredContact,omitempty" enums:"phone,email"`
}

type CoordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// createLostPetRequest acepta contactInfo anidado o los campos planos owner*
// que mandaba la versión anterior del formulario.
type createLostPetRequest struct {
	PetName     string           `json:"petName"`
	PetType     string           `json:"petType"`
	PetBreed    string           `json:"petBreed"`
	PetColor    string           `json:"petColor"`
	PetSize     string           `json:"petSize"`
	PetAge      string           `json:"petAge"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Coordinates *CoordinatesJSON `json:"coordinates,omitempty"`
	ImageURL    string           `json:"imageUrl"`
	ContactInfo *ContactInfo     `json:"contactInfo,omitempty"`

	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
	OwnerPhone string `json:"ownerPhone"`
}

type updateLostPetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	PetName     *string          `json:"petName"`
	PetType     *string          `json:"petType"`
	PetBreed    *string          `json:"petBreed"`
	PetColor    *string          `json:"petColor"`
	PetSize     *string          `json:"petSize"`
	PetAge      *string          `json:"petAge"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	ImageURL    *string          `json:"imageUrl"`
	Coordinates *CoordinatesJSON `json:"coordinates"`
	ContactInfo *ContactInfo     `json:"contactInfo"`
}

// Response es la representación pública de un reporte. Exportada porque
// el matching la embebe en sus resultados.
type Response struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId,omitempty"`
	PetName     string           `json:"petName"`
	PetType     string           `json:"petType"`
	PetBreed    string           `json:"petBreed,omitempty"`
	PetColor    string           `json:"petColor"`
	PetSize     string           `json:"petSize,omitempty"`
	PetAge      string           `json:"petAge,omitempty"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Coordinates *CoordinatesJSON `json:"coordinates,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	OwnerName   string           `json:"ownerName,omitempty"`
	ContactInfo ContactInfo      `json:"contactInfo"`
	Status      Status           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createLostPetHandler godoc
// @Summary Reportar mascota perdida
// @Description Crea un reporte de mascota perdida con status `lost`. Se permite reporte anónimo; si hay identidad (`X-Debug-User-ID` en dev o `Authorization: Bearer <token>`) queda como dueño del reporte.
// @Tags lost-pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createLostPetRequest true "Datos del reporte; petName, petType, petColor, description y un teléfono o email son obligatorios"
// @Success 201 {object} createdResponse
// @Failure 400 {object} errorResponse "invalid json / campo obligatorio faltante"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost [post]
func createLostPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLostPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		ownerID := ""
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			ownerID = claims.UserID
		}

		p, err := svc.Create(r.Context(), ownerID, CreateInput{
			Name:        req.PetName,
			Type:        req.PetType,
			Breed:       req.PetBreed,
			Color:       req.PetColor,
			Size:        req.PetSize,
			Age:         req.PetAge,
			Description: req.Description,
			Location:    req.Location,
			Coordinates: req.Coordinates.toDomain(),
			ImageURL:    req.ImageURL,
			Contact:     req.contact(),
		})
		if err != nil {
			writeServiceError(w, log, "create lost pet", err)
			return
		}

		writeJSON(w, http.StatusCreated, createdResponse{
			Message: "Lost pet report created",
			ID:      p.ID,
		})
	}
}

// listLostPetsHandler godoc
// @Summary Listar mascotas perdidas
// @Description Lista reportes ordenados por fecha de creación descendente. Por defecto solo casos abiertos (`lost`). Si el almacenamiento no está disponible devuelve datos de ejemplo.
// @Tags lost-pets
// @Produce json
// @Param limit query int false "Máximo de reportes (0-200). Por defecto 10"
// @Param status query string false "lost (default) o found"
// @Param type query string false "Tipo de animal (perro, gato, ...)"
// @Param location query string false "Texto contenido en la ubicación"
// @Success 200 {array} Response
// @Failure 400 {object} errorResponse "parámetros inválidos"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost [get]
func listLostPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, err := parseLimit(q.Get("limit"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		status := Status(strings.ToLower(strings.TrimSpace(q.Get("status"))))
		if status != "" && !status.Valid() {
			writeError(w, http.StatusBadRequest, "status must be lost or found")
			return
		}

		items, err := svc.List(r.Context(), ListFilter{
			Status:   status,
			Type:     q.Get("type"),
			Location: q.Get("location"),
			Limit:    limit,
		})
		if err != nil {
			writeServiceError(w, log, "list lost pets", err)
			return
		}

		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// getLostPetHandler godoc
// @Summary Obtener reporte de mascota perdida
// @Tags lost-pets
// @Produce json
// @Param petID path string true "ID del reporte"
// @Success 200 {object} Response
// @Failure 404 {object} errorResponse "lost pet not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost/{petID} [get]
func getLostPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeServiceError(w, log, "get lost pet", err)
			return
		}
		writeJSON(w, http.StatusOK, NewResponse(p))
	}
}

// updateLostPetHandler godoc
// @Summary Actualizar reporte
// @Description PATCH parcial. Requiere identidad; si el reporte tiene dueño solo él puede editarlo.
// @Tags lost-pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID del reporte"
// @Param payload body updateLostPetRequest true "Campos a modificar"
// @Success 200 {object} Response
// @Failure 400 {object} errorResponse "invalid json / campo vacío"
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "lost pet not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost/{petID} [patch]
func updateLostPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateLostPetRequest
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in := UpdateInput{
			Name:        req.PetName,
			Type:        req.PetType,
			Breed:       req.PetBreed,
			Color:       req.PetColor,
			Size:        req.PetSize,
			Age:         req.PetAge,
			Description: req.Description,
			Location:    req.Location,
			ImageURL:    req.ImageURL,
			Coordinates: req.Coordinates.toDomain(),
		}
		if req.ContactInfo != nil {
			c := req.ContactInfo.toDomain("")
			in.Contact = &c
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), userID, in)
		if err != nil {
			writeServiceError(w, log, "update lost pet", err)
			return
		}
		writeJSON(w, http.StatusOK, NewResponse(p))
	}
}

// markFoundHandler godoc
// @Summary Marcar como encontrada
// @Description Pasa el reporte a `found`. Idempotente. No existe la transición inversa.
// @Tags lost-pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID del reporte"
// @Success 200 {object} Response
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "lost pet not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost/{petID}/found [post]
func markFoundHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		p, err := svc.MarkFound(r.Context(), chi.URLParam(r, "petID"), userID)
		if err != nil {
			writeServiceError(w, log, "mark found", err)
			return
		}
		writeJSON(w, http.StatusOK, NewResponse(p))
	}
}

// deleteLostPetHandler godoc
// @Summary Eliminar reporte
// @Description Elimina el reporte y sus coincidencias registradas.
// @Tags lost-pets
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID del reporte"
// @Success 204
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 403 {object} errorResponse "forbidden"
// @Failure 404 {object} errorResponse "lost pet not found"
// @Failure 500 {object} errorResponse "internal error"
// @Router /pets/lost/{petID} [delete]
func deleteLostPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), userID); err != nil {
			writeServiceError(w, log, "delete lost pet", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listMyLostPetsHandler godoc
// @Summary Mis reportes
// @Description Reportes creados por el usuario autenticado, más recientes primero.
// @Tags lost-pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} Response
// @Failure 401 {object} errorResponse "unauthorized"
// @Failure 500 {object} errorResponse "internal error"
// @Router /me/pets/lost [get]
func listMyLostPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			writeServiceError(w, log, "list my lost pets", err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// parseLimit interpreta ?limit=. Vacío = default HTTP, tope maxHTTPLimit.
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

func NewResponse(p LostPet) Response {
	out := Response{
		ID:          p.ID,
		UserID:      p.OwnerUserID,
		PetName:     p.Name,
		PetType:     p.Type,
		PetBreed:    p.Breed,
		PetColor:    p.Color,
		PetSize:     p.Size,
		PetAge:      p.Age,
		Description: p.Description,
		Location:    p.Location,
		ImageURL:    p.ImageURL,
		OwnerName:   p.Contact.Name,
		ContactInfo: ContactInfo{
			Phone:            p.Contact.Phone,
			Email:            p.Contact.Email,
			PreferredContact: string(p.Contact.Preferred),
		},
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Coordinates != nil {
		out.Coordinates = &CoordinatesJSON{Lat: p.Coordinates.Lat, Lng: p.Coordinates.Lng}
	}
	return out
}

func toResponses(items []LostPet) []Response {
	out := make([]Response, 0, len(items))
	for _, p := range items {
		out = append(out, NewResponse(p))
	}
	return out
}

func (c *CoordinatesJSON) toDomain() *report.Coordinates {
	if c == nil {
		return nil
	}
	return &report.Coordinates{Lat: c.Lat, Lng: c.Lng}
}

func (c *ContactInfo) toDomain(name string) report.Contact {
	if c == nil {
		return report.Contact{Name: name}
	}
	return report.Contact{
		Name:      name,
		Phone:     c.Phone,
		Email:     c.Email,
		Preferred: report.ContactChannel(c.PreferredContact),
	}
}

// contact prioriza contactInfo y completa con los campos owner* planos.
func (req createLostPetRequest) contact() report.Contact {
	c := req.ContactInfo.toDomain(req.OwnerName)
	if strings.TrimSpace(c.Phone) == "" {
		c.Phone = req.OwnerPhone
	}
	if strings.TrimSpace(c.Email) == "" {
		c.Email = req.OwnerEmail
	}
	return c
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return claims.UserID, true
}

// writeServiceError traduce errores del servicio. Los 500 solo se loguean con detalle.
func writeServiceError(w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "lost pet not found")
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

// writeJSON está duplicado en cada módulo con handlers; ver nota en sightings.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
