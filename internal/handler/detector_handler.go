package handler

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"baldguard/internal/auth"
	apperrors "baldguard/internal/errors"
	"baldguard/internal/service"
)

// DetectorHandler handles baldness detection endpoints.
type DetectorHandler struct {
	detector service.DetectorService
}

// NewDetectorHandler creates a new detector handler.
func NewDetectorHandler(detector service.DetectorService) *DetectorHandler {
	return &DetectorHandler{detector: detector}
}

// Detect godoc
// @Summary Detect baldness level from an uploaded photo
// @Tags detector
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Photo to analyze"
// @Success 200 {object} model.BaldnessResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /detect-baldness [post]
func (h *DetectorHandler) Detect(c echo.Context) error {
	claims, err := auth.CurrentClaims(c)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}
	log.Printf("processing baldness detection for %s", claims.Email)

	data, err := readPhoto(c)
	if err != nil {
		return err
	}

	result, err := h.detector.ProcessImage(c.Request().Context(), data)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}
	return c.JSON(http.StatusOK, result)
}

// DetectStream godoc
// @Summary Stream baldness detection results
// @Description Returns length-prefixed metadata JSON followed by the processed image bytes.
// @Tags detector
// @Accept multipart/form-data
// @Produce octet-stream
// @Security BearerAuth
// @Param photo formData file true "Photo to analyze"
// @Success 200 {string} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /detect-baldness/stream [post]
func (h *DetectorHandler) DetectStream(c echo.Context) error {
	if _, err := auth.CurrentClaims(c); err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	data, err := readPhoto(c)
	if err != nil {
		return err
	}

	result, err := h.detector.ProcessImage(c.Request().Context(), data)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"baldnessLevel":    result.BaldnessLevel,
		"baldnessCategory": result.BaldnessCategory,
		"baldnessAreas":    result.BaldnessAreas,
	})
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(result.ProcessedImage)
	if err != nil {
		return apperrors.MapErrorToHTTP(err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/octet-stream")
	resp.WriteHeader(http.StatusOK)

	// Frame layout: 4-byte big-endian length then payload, for the metadata
	// JSON and again for the raw image bytes.
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(metadata)))
	if _, err := resp.Write(size[:]); err != nil {
		return err
	}
	if _, err := resp.Write(metadata); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(size[:], uint32(len(imageBytes)))
	if _, err := resp.Write(size[:]); err != nil {
		return err
	}
	if _, err := resp.Write(imageBytes); err != nil {
		return err
	}
	return nil
}

// readPhoto extracts and validates the uploaded image. A missing file part is
// a validation error; a non-image upload is a bad request.
func readPhoto(c echo.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, apperrors.NewHTTPError(http.StatusUnprocessableEntity, "photo file is required", "validation_error")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "file must be an image", "bad_request")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "could not read uploaded file", "bad_request")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewHTTPError(http.StatusBadRequest, "could not read uploaded file", "bad_request")
	}
	return data, nil
}
