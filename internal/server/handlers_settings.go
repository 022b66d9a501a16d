package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Naimul0307/DigitalPlaget-Wall/internal/domain"
	apperrors "github.com/Naimul0307/DigitalPlaget-Wall/internal/platform/errors"
)

const (
	settingsUpdatedMessage = "Settings updated successfully!"
	settingsFailedMessage  = "Error updating settings."
	backgroundFormField    = "bg_image_upload"
)

func (s *Server) handleCurrentSettings(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.app.CurrentSettings(c.Request().Context())); err != nil {
		return fmt.Errorf("failed to write settings response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateSettings(c echo.Context) error {
	update := domain.SettingsUpdate{
		ImageWidth:  strings.TrimSpace(c.FormValue("image_width")),
		ImageMargin: strings.TrimSpace(c.FormValue("image_margin")),
		MaxImages:   strings.TrimSpace(c.FormValue("max_images")),
	}

	fh, err := c.FormFile(backgroundFormField)
	switch {
	case err == nil && fh.Filename != "":
		f, err := fh.Open()
		if err != nil {
			return respondPlain(c, apperrors.InternalError("failed to open background upload", err), settingsFailedMessage)
		}
		defer f.Close()
		update.Background = &domain.BackgroundUpload{Filename: fh.Filename, Content: f}
	case err == nil, errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no upload
	default:
		return respondPlain(c, apperrors.ValidationError("malformed multipart form", err), settingsFailedMessage)
	}

	if err := s.app.UpdateSettings(c.Request().Context(), update); err != nil {
		if errors.Is(err, domain.ErrInvalidSettings) {
			return respondPlain(c, apperrors.ValidationError("invalid settings", err), err.Error())
		}
		return respondPlain(c, apperrors.InternalError("failed to update settings", err), settingsFailedMessage)
	}

	if err := c.String(http.StatusOK, settingsUpdatedMessage); err != nil {
		return fmt.Errorf("failed to write settings response: %w", err)
	}
	return nil
}
