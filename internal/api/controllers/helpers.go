package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

const (
	defaultAdminPageSize = 50
	defaultHistoryPage   = 20
)

// bindJSON writes a 400 and returns false when the body does not validate.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
	}
	return id, ok
}

// queryUUID parses an optional uuid query param.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// dateRange reads startDate and endDate. A bare endDate covers the whole day.
// Unparseable values answer 400 and return ok=false.
func dateRange(c *gin.Context) (from, to int64, ok bool) {
	for _, p := range []struct {
		name     string
		endOfDay bool
		dst      *int64
	}{
		{"startDate", false, &from},
		{"endDate", true, &to},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, parsed := utils.ParseDateParam(raw, p.endOfDay)
		if !parsed {
			utils.RespondError(c, http.StatusBadRequest, "Invalid "+p.name+", expected RFC3339 or YYYY-MM-DD")
			return 0, 0, false
		}
		*p.dst = v
	}
	return from, to, true
}

func pagination(c *gin.Context, defaultLimit int) (int, int, bool) {
	page, limit, err := utils.ParsePagination(c, defaultLimit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return 0, 0, false
	}
	return page, limit, true
}
