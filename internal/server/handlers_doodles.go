package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type latestDoodlesResponse struct {
	Doodles []string `json:"doodles"`
}

func (s *Server) handleLatestDoodles(c echo.Context) error {
	resp := latestDoodlesResponse{Doodles: s.app.LatestDoodles(s.config.MaxImages)}
	if resp.Doodles == nil {
		resp.Doodles = []string{}
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write doodles response: %w", err)
	}
	return nil
}
