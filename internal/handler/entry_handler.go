package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Fields: he.Fields})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middlewareがcontextへ入れた認証情報からActorを組み立てる

func actorFromContext(c echo.Context) (usecase.Actor, bool) {
	rawID := c.Get(middleware.CtxUserIDKey)
	id, ok := rawID.(int64)
	if !ok || id <= 0 {
		return usecase.Actor{}, false
	}

	rawRole := c.Get(middleware.CtxUserRoleKey)
	role, ok := rawRole.(string)
	if !ok || role == "" {
		return usecase.Actor{}, false
	}

	var storeID *int64
	if raw := c.Get(middleware.CtxStoreIDKey); raw != nil {
		if sid, ok := raw.(*int64); ok {
			storeID = sid
		}
	}

	return usecase.Actor{ID: id, Role: model.Role(role), StoreID: storeID}, true
}

// EntryCreateRequest は在庫エントリ作成の入力です。
type EntryCreateRequest struct {
	ProductID        int64      `json:"product_id"`
	QuantityReceived int64      `json:"quantity_received"`
	QuantitySpoiled  int64      `json:"quantity_spoiled"`
	BuyingPrice      int64      `json:"buying_price"`
	SellingPrice     int64      `json:"selling_price"`
	PaymentStatus    string     `json:"payment_status"`
	SupplierID       *int64     `json:"supplier_id"`
	EntryDate        *time.Time `json:"entry_date"`
}

// EntryUpdateRequest は部分更新の入力です。nilのフィールドは触らない。
type EntryUpdateRequest struct {
	QuantityReceived *int64     `json:"quantity_received"`
	QuantitySpoiled  *int64     `json:"quantity_spoiled"`
	BuyingPrice      *int64     `json:"buying_price"`
	SellingPrice     *int64     `json:"selling_price"`
	PaymentStatus    *string    `json:"payment_status"`
	SupplierID       *int64     `json:"supplier_id"`
	EntryDate        *time.Time `json:"entry_date"`
}

// /entries をまとめる
type EntryHandler struct {
	uc *usecase.EntryUsecase
}

// DI
func NewEntryHandler(uc *usecase.EntryUsecase) *EntryHandler {
	return &EntryHandler{uc: uc}
}

func (h *EntryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	entries := e.Group("/entries")
	entries.Use(middleware.AuthJWT(cfg))

	//作成は全ロール、更新・削除はADMIN/MERCHANTだけ
	entries.POST("", h.create)
	entries.GET("", h.list)
	entries.PUT("/:id", h.update, middleware.RequireRoles(model.RoleAdmin, model.RoleMerchant))
	entries.DELETE("/:id", h.remove, middleware.RequireRoles(model.RoleAdmin, model.RoleMerchant))
}

func (h *EntryHandler) create(c echo.Context) error {
	var req EntryCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	entry, err := h.uc.CreateEntry(c.Request().Context(), actor, usecase.CreateEntryInput{
		ProductID:        req.ProductID,
		QuantityReceived: req.QuantityReceived,
		QuantitySpoiled:  req.QuantitySpoiled,
		BuyingPrice:      req.BuyingPrice,
		SellingPrice:     req.SellingPrice,
		PaymentStatus:    req.PaymentStatus,
		SupplierID:       req.SupplierID,
		EntryDate:        req.EntryDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req EntryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	entry, err := h.uc.UpdateEntry(c.Request().Context(), actor, id, usecase.UpdateEntryInput{
		QuantityReceived: req.QuantityReceived,
		QuantitySpoiled:  req.QuantitySpoiled,
		BuyingPrice:      req.BuyingPrice,
		SellingPrice:     req.SellingPrice,
		PaymentStatus:    req.PaymentStatus,
		SupplierID:       req.SupplierID,
		EntryDate:        req.EntryDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteEntry(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *EntryHandler) list(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	var productID *int64
	if v := c.QueryParam("product_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
		}
		productID = &x
	}

	out, err := h.uc.ListEntries(c.Request().Context(), actor, usecase.ListEntriesInput{
		Page:      page,
		Limit:     limit,
		ProductID: productID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
