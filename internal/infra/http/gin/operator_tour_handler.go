package ginserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourbook/internal/app/commands"
	tourapp "tourbook/internal/app/handlers/tour"
	"tourbook/internal/infra/storage/s3"
)

const maxTourPhotoSizeBytes int64 = 10 * 1024 * 1024

type OperatorTourHandler struct {
	Commands commands.Bus
	Uploader s3.Uploader
	Logger   *slog.Logger
}

type createTourRequest struct {
	OperatorID      string `json:"operator_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Region          string `json:"region"`
	DeparturePoint  string `json:"departure_point"`
	MinParticipants int    `json:"min_participants"`
	MaxParticipants int    `json:"max_participants"`
	StartDate       string `json:"start_date"`
	PriceAmount     int64  `json:"price"`
}

func (h OperatorTourHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req createTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	startDate, ok := parseFlexibleTime(req.StartDate)
	if !ok {
		h.respondWithError(c, http.StatusBadRequest, errors.New("start_date must be a valid date"))
		return
	}
	cmd := tourapp.CreateTourCommand{
		CommandID:       uuid.NewString(),
		OperatorID:      req.OperatorID,
		Title:           req.Title,
		Description:     req.Description,
		Region:          req.Region,
		DeparturePoint:  req.DeparturePoint,
		MinParticipants: req.MinParticipants,
		MaxParticipants: req.MaxParticipants,
		StartDate:       startDate,
		PriceAmount:     req.PriceAmount,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.CreateTourCommand, *tourapp.CreateTourResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/tours/%s/overview", result.TourID))
	c.JSON(http.StatusCreated, result)
}

type applyDiscountRequest struct {
	Percent int `json:"percent"`
}

func (h OperatorTourHandler) ApplyDiscount(c *gin.Context) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req applyDiscountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondWithError(c, http.StatusBadRequest, err)
			return
		}
	}
	cmd := tourapp.ApplyDiscountCommand{
		TourID:          c.Param("id"),
		Percent:         req.Percent,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.ApplyDiscountCommand, *tourapp.ApplyDiscountResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		if errors.Is(err, tourapp.ErrNotEligible) {
			h.respondWithError(c, http.StatusConflict, err)
			return
		}
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelTourRequest struct {
	Reason string `json:"reason"`
}

func (h OperatorTourHandler) Cancel(c *gin.Context) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req cancelTourRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondWithError(c, http.StatusBadRequest, err)
			return
		}
	}
	cmd := tourapp.CancelTourCommand{
		TourID:          c.Param("id"),
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.CancelTourCommand, *tourapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OperatorTourHandler) Deactivate(c *gin.Context) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	cmd := tourapp.DeactivateTourCommand{
		TourID:          c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.DeactivateTourCommand, *tourapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OperatorTourHandler) Activate(c *gin.Context) {
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	cmd := tourapp.ActivateTourCommand{
		TourID:          c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.ActivateTourCommand, *tourapp.LifecycleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h OperatorTourHandler) UploadPhoto(c *gin.Context) {
	if h.Commands == nil || h.Uploader == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("photo upload unavailable"))
		return
	}

	tourID := strings.TrimSpace(c.Param("id"))
	if tourID == "" {
		h.respondWithError(c, http.StatusBadRequest, errors.New("tour id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}
	if fileHeader.Size <= 0 {
		h.respondWithError(c, http.StatusBadRequest, errors.New("file is empty"))
		return
	}
	if fileHeader.Size > maxTourPhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file too large (max %d MB)", maxTourPhotoSizeBytes/1024/1024))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxTourPhotoSizeBytes+1024))
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, fmt.Errorf("cannot read file: %w", err))
		return
	}
	if len(data) == 0 {
		h.respondWithError(c, http.StatusBadRequest, errors.New("file is empty"))
		return
	}
	if int64(len(data)) > maxTourPhotoSizeBytes {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("file too large (max %d MB)", maxTourPhotoSizeBytes/1024/1024))
		return
	}

	contentType := http.DetectContentType(data)
	if !isAllowedImageType(contentType) {
		h.respondWithError(c, http.StatusBadRequest, fmt.Errorf("unsupported content type: %s", contentType))
		return
	}

	objectKey := buildPhotoObjectKey(tourID, fileHeader.Filename, contentType)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()
	publicURL, err := h.Uploader.Upload(ctx, objectKey, bytes.NewReader(data), contentType)
	if err != nil {
		h.respondWithError(c, http.StatusBadGateway, err)
		return
	}

	cmd := tourapp.AttachPhotoCommand{
		TourID:          tourID,
		PhotoURL:        publicURL,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[tourapp.AttachPhotoCommand, *tourapp.AttachPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tour_id": result.TourID, "photo_count": result.PhotoCount, "url": publicURL})
}

func (h OperatorTourHandler) handleError(c *gin.Context, err error) {
	h.respondWithError(c, statusFor(err), err)
}

func (h OperatorTourHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		h.Logger.Error("operator tour request failed", "status", status, "error", err, "path", c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func buildPhotoObjectKey(tourID, filename, contentType string) string {
	ext := extensionForContentType(contentType)
	if ext == "" {
		ext = strings.ToLower(path.Ext(filename))
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("tours/%s/%s%s", sanitizePathToken(tourID), uuid.NewString(), ext)
}

func sanitizePathToken(value string) string {
	if strings.TrimSpace(value) == "" {
		return "tour"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	result := strings.Trim(b.String(), "-")
	if result == "" {
		return "tour"
	}
	return result
}

var _ OperatorTourHTTP = OperatorTourHandler{}
