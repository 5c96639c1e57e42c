package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// SupplyRequestCreateRequest は補充申請の入力です。
type SupplyRequestCreateRequest struct {
	ProductID         int64 `json:"product_id"`
	QuantityRequested int64 `json:"quantity_requested"`
}

// SupplyRequestResolveRequest は承認/却下の入力です。
type SupplyRequestResolveRequest struct {
	Status        string `json:"status"`
	DeclineReason string `json:"decline_reason"`
}

// /supply-requests をまとめる
type SupplyRequestHandler struct {
	uc *usecase.SupplyRequestUsecase
}

// DI
func NewSupplyRequestHandler(uc *usecase.SupplyRequestUsecase) *SupplyRequestHandler {
	return &SupplyRequestHandler{uc: uc}
}

func (h *SupplyRequestHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	requests := e.Group("/supply-requests")
	requests.Use(middleware.AuthJWT(cfg))

	//申請はCLERK、解決はADMIN/MERCHANT
	requests.POST("", h.create, middleware.RequireRoles(model.RoleClerk))
	requests.GET("", h.list)
	requests.PUT("/:id", h.resolve, middleware.RequireRoles(model.RoleAdmin, model.RoleMerchant))
}

func (h *SupplyRequestHandler) create(c echo.Context) error {
	var req SupplyRequestCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	sr, err := h.uc.Create(c.Request().Context(), actor, usecase.CreateSupplyRequestInput{
		ProductID:         req.ProductID,
		QuantityRequested: req.QuantityRequested,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, sr)
}

func (h *SupplyRequestHandler) resolve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SupplyRequestResolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	sr, err := h.uc.Resolve(c.Request().Context(), actor, id, usecase.ResolveSupplyRequestInput{
		Status:        req.Status,
		DeclineReason: req.DeclineReason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sr)
}

func (h *SupplyRequestHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	var status *string
	if v := c.QueryParam("status"); v != "" {
		status = &v
	}

	out, err := h.uc.List(c.Request().Context(), actor, usecase.ListSupplyRequestsInput{
		Page:   page,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
