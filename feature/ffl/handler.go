package ffl

import (
	"errors"
	"strconv"

	"ffl-directory/core/logger"
	"ffl-directory/core/middleware/auth"
	"ffl-directory/feature/ffl/search"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the directory.
type Handler struct {
	service        *Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, cfg SyncConfig, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger, maxUploadBytes: cfg.MaxUploadBytes}
}

// RegisterRoutes registers the directory routes. /search must precede /:license.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/ffl")
	group.Post("/sync", h.HandleSync)
	group.Get("/search", h.HandleSearch)
	group.Get("/:license", h.HandleGetLicense)
}

// HandleSync applies an uploaded directory file.
// @Summary Sync Directory
// @Description Upload a CSV or XLSX directory file. Rows are merged into the directory; nothing is deleted.
// @Tags ffl
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Directory file (.csv or .xlsx)"
// @Success 200 {object} models.SyncResult "Sync summary"
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 413 {object} map[string]string "Upload too large"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /ffl/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field 'file' is required"})
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "upload exceeds " + strconv.FormatInt(h.maxUploadBytes, 10) + " bytes",
		})
	}

	f, err := file.Open()
	if err != nil {
		l.Error("Failed to open upload", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read upload"})
	}
	defer f.Close()

	result, err := h.service.SyncFile(c.UserContext(), file.Filename, f, auth.Actor(c))
	if err != nil {
		return h.fail(c, l, "Directory sync failed", err)
	}
	return c.JSON(result)
}

// HandleSearch searches the directory.
// @Summary Search Directory
// @Description Search by license number, business name or address.
// @Tags ffl
// @Produce json
// @Param q query string true "Query"
// @Param type query string false "ffl, name or both" default(both)
// @Param limit query int false "Maximum results (default 20, max 200)"
// @Param state query string false "2-letter state code"
// @Success 200 {array} models.SearchResult "Ranked results"
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /ffl/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	t, err := search.ParseType(c.Query("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be an integer"})
		}
	}

	results, err := h.service.Search(c.UserContext(), c.Query("q"), search.Options{
		Type:  t,
		Limit: limit,
		State: c.Query("state"),
	})
	if err != nil {
		return h.fail(c, l, "Directory search failed", err)
	}
	return c.JSON(results)
}

// HandleGetLicense returns a single directory entry.
// @Summary Get License
// @Description Look up a directory entry by license number. Any punctuation is accepted.
// @Tags ffl
// @Produce json
// @Param license path string true "License number (e.g. '1-23-456-78-9A-12345')"
// @Success 200 {object} models.FflRecord "Directory entry"
// @Failure 400 {object} map[string]string "Malformed license number"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /ffl/{license} [get]
func (h *Handler) HandleGetLicense(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	rec, err := h.service.GetByLicense(c.UserContext(), c.Params("license"))
	if err != nil {
		return h.fail(c, l, "License lookup failed", err)
	}
	return c.JSON(rec)
}

// fail maps service errors to status codes.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidUpload):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrStoreUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
