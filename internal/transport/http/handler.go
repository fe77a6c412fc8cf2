// Package http exposes the value pipeline over a JSON API.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/get_value"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_groups"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_values"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/clear_asset_references"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/create_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/inherit_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/remove_not_inherited"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/save_hierarchy"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/unlink_child"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/unlink_group"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/pkg/i18n"
)

// Usecases are the operations served by the API.
type Usecases struct {
	CreateValue          *create_value.Interactor
	UpdateValue          *update_value.Interactor
	DeleteValue          *delete_value.Interactor
	InheritValue         *inherit_value.Interactor
	SaveHierarchy        *save_hierarchy.Interactor
	UnlinkChild          *unlink_child.Interactor
	UnlinkGroup          *unlink_group.Interactor
	RemoveNotInherited   *remove_not_inherited.Interactor
	ClearAssetReferences *clear_asset_references.Interactor

	GetValue   *get_value.Query
	ListValues *list_values.Query
	ListGroups *list_groups.Query
	ListJobs   *list_jobs.Query
}

// Handler serves the value API.
type Handler struct {
	uc      Usecases
	catalog *i18n.Catalog
	logger  *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(uc Usecases, catalog *i18n.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		uc:      uc,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the API routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/values", h.CreateValue)
	api.GET("/values/:id", h.GetValue)
	api.PATCH("/values/:id", h.UpdateValue)
	api.DELETE("/values/:id", h.DeleteValue)
	api.POST("/values/:id/inherit", h.InheritValue)

	api.GET("/products/:id/values", h.ListValues)
	api.GET("/products/:id/groups", h.ListGroups)
	api.DELETE("/products/:id/groups/:groupId", h.UnlinkGroup)
	api.DELETE("/products/:id/tabs/values", h.RemoveNotInherited)
	api.DELETE("/products/:id/children/:childId", h.UnlinkChild)

	api.PUT("/hierarchy", h.SaveHierarchy)
	api.POST("/files/:id/removed", h.ClearAssetReferences)

	api.GET("/jobs", h.ListJobs)
}

func boolParam(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}

func bindInput(c echo.Context) (*domain.Input, error) {
	in := &domain.Input{}
	if err := json.NewDecoder(c.Request().Body).Decode(in); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return in, nil
}

// CreateValue handles POST /api/v1/values.
func (h *Handler) CreateValue(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	resp, err := h.uc.CreateValue.Execute(ctx, &create_value.Request{Input: in})
	if err != nil {
		return err
	}

	out := make([]*presentation.Value, 0, len(resp.Values))
	for _, v := range resp.Values {
		prepared, err := h.uc.GetValue.Execute(ctx, &get_value.Request{ID: v.ID, Locale: localeOf(c)})
		if err != nil {
			return err
		}
		out = append(out, prepared)
	}
	return c.JSON(http.StatusCreated, map[string]any{"values": out})
}

// GetValue handles GET /api/v1/values/:id.
func (h *Handler) GetValue(c echo.Context) error {
	v, err := h.uc.GetValue.Execute(c.Request().Context(), &get_value.Request{
		ID:     c.Param("id"),
		Locale: localeOf(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateValue handles PATCH /api/v1/values/:id.
func (h *Handler) UpdateValue(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	v, err := h.uc.UpdateValue.Execute(ctx, &update_value.Request{ID: c.Param("id"), Input: in})
	if err != nil {
		return err
	}
	prepared, err := h.uc.GetValue.Execute(ctx, &get_value.Request{ID: v.ID, Locale: localeOf(c)})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prepared)
}

// DeleteValue handles DELETE /api/v1/values/:id. ?simple=true skips the
// cascade to descendants.
func (h *Handler) DeleteValue(c echo.Context) error {
	simple, err := boolParam(c, "simple")
	if err != nil {
		return err
	}
	err = h.uc.DeleteValue.Execute(c.Request().Context(), &delete_value.Request{
		ID:           c.Param("id"),
		SimpleRemove: simple,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// InheritValue handles POST /api/v1/values/:id/inherit.
func (h *Handler) InheritValue(c echo.Context) error {
	inherited, err := h.uc.InheritValue.Execute(c.Request().Context(), &inherit_value.Request{ID: c.Param("id")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"inherited": inherited})
}

// ListValues handles GET /api/v1/products/:id/values.
func (h *Handler) ListValues(c echo.Context) error {
	values, err := h.uc.ListValues.Execute(c.Request().Context(), &list_values.Request{
		ProductID: c.Param("id"),
		Locale:    localeOf(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"values": values})
}

// ListGroups handles GET /api/v1/products/:id/groups?tab=.
func (h *Handler) ListGroups(c echo.Context) error {
	groups, err := h.uc.ListGroups.Execute(c.Request().Context(), &list_groups.Request{
		ProductID:    c.Param("id"),
		TabID:        c.QueryParam("tab"),
		NoGroupLabel: h.catalog.Label(localeOf(c), "noGroup"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"groups": groups})
}

// UnlinkGroup handles DELETE /api/v1/products/:id/groups/:groupId.
func (h *Handler) UnlinkGroup(c echo.Context) error {
	hierarchically, err := boolParam(c, "hierarchically")
	if err != nil {
		return err
	}
	removed, err := h.uc.UnlinkGroup.Execute(c.Request().Context(), &unlink_group.Request{
		ProductID:        c.Param("id"),
		AttributeGroupID: c.Param("groupId"),
		Hierarchically:   hierarchically,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

// RemoveNotInherited handles DELETE /api/v1/products/:id/tabs/values?tab=.
func (h *Handler) RemoveNotInherited(c echo.Context) error {
	removed, err := h.uc.RemoveNotInherited.Execute(c.Request().Context(), &remove_not_inherited.Request{
		ProductID: c.Param("id"),
		TabID:     c.QueryParam("tab"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"removed": removed})
}

// UnlinkChild handles DELETE /api/v1/products/:id/children/:childId.
func (h *Handler) UnlinkChild(c echo.Context) error {
	err := h.uc.UnlinkChild.Execute(c.Request().Context(), &unlink_child.Request{
		ParentID: c.Param("id"),
		ChildID:  c.Param("childId"),
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// EdgeRequest is the body of PUT /api/v1/hierarchy.
type EdgeRequest struct {
	ID        string `json:"id"`
	ParentID  string `json:"parentId"`
	ChildID   string `json:"childId"`
	MainChild bool   `json:"mainChild"`
}

// EdgeResponse describes a hierarchy edge.
type EdgeResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	ChildID   string    `json:"childId"`
	MainChild bool      `json:"mainChild"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveHierarchy handles PUT /api/v1/hierarchy.
func (h *Handler) SaveHierarchy(c echo.Context) error {
	var req EdgeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	edge, err := h.uc.SaveHierarchy.Execute(c.Request().Context(), &save_hierarchy.Request{
		ID:        req.ID,
		ParentID:  req.ParentID,
		ChildID:   req.ChildID,
		MainChild: req.MainChild,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, EdgeResponse{
		ID:        edge.ID,
		ParentID:  edge.ParentID,
		ChildID:   edge.EntityID,
		MainChild: edge.MainChild,
		CreatedAt: edge.CreatedAt,
	})
}

// ClearAssetReferences handles POST /api/v1/files/:id/removed.
func (h *Handler) ClearAssetReferences(c echo.Context) error {
	cleared, err := h.uc.ClearAssetReferences.Execute(c.Request().Context(), &clear_asset_references.Request{FileID: c.Param("id")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"cleared": cleared})
}

// Job describes a pseudo transaction job.
type Job struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	Action     string          `json:"action"`
	EntityID   string          `json:"entityId,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	ParentID   string          `json:"parentId,omitempty"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ListJobs handles GET /api/v1/jobs?parent=&limit=.
func (h *Handler) ListJobs(c echo.Context) error {
	req := &list_jobs.Request{ParentID: c.QueryParam("parent")}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
		req.Limit = limit
	}

	jobs, err := h.uc.ListJobs.Execute(c.Request().Context(), req)
	if err != nil {
		return err
	}
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, Job{
			ID:         j.ID,
			EntityType: j.EntityType,
			Action:     string(j.Action),
			EntityID:   j.EntityID,
			Input:      j.Input,
			ParentID:   j.ParentID,
			Status:     string(j.Status),
			Error:      j.Error,
			CreatedAt:  j.CreatedAt,
			UpdatedAt:  j.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"jobs": out})
}
