package projection

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/steamopera/steamsync/internal/core/errors"
)

// RegisterRoutes registers the mirror query routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/profiles/:steam_id", s.HandleGetProfile)
	r.GET("/v1/players/:steam_id/friends", s.HandleGetFriends)
	r.GET("/v1/players/:steam_id/playtime-deltas", s.HandleGetPlaytimeDeltas)
}

// HandleGetProfile handles GET /v1/profiles/:steam_id
func (s *Service) HandleGetProfile(c *gin.Context) {
	resp, err := s.GetProfile(c.Request.Context(), c.Param("steam_id"))
	if err != nil {
		writeError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetFriends handles GET /v1/players/:steam_id/friends
func (s *Service) HandleGetFriends(c *gin.Context) {
	resp, err := s.GetFriends(c.Request.Context(), c.Param("steam_id"))
	if err != nil {
		writeError(c, err, "Failed to load friend list")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetPlaytimeDeltas handles GET /v1/players/:steam_id/playtime-deltas
// Query parameters: year
func (s *Service) HandleGetPlaytimeDeltas(c *gin.Context) {
	var query struct {
		Year int `form:"year"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.GetPlaytimeDeltas(c.Request.Context(), DeltaQueryRequest{
		SteamID: c.Param("steam_id"),
		Year:    query.Year,
	})
	if err != nil {
		writeError(c, err, "Failed to load playtime deltas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid mirror query",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Player not mirrored",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
