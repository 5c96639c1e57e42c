package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/push"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// MarkAllReadResponse は一括既読の結果です。
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// /notifications をまとめる。フィードとライブ配信（SSE）。
type NotificationHandler struct {
	uc  *usecase.NotificationUsecase
	bus push.Bus
}

// DI
func NewNotificationHandler(uc *usecase.NotificationUsecase, bus push.Bus) *NotificationHandler {
	return &NotificationHandler{uc: uc, bus: bus}
}

func (h *NotificationHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	notifications := e.Group("/notifications")
	notifications.Use(middleware.AuthJWT(cfg))

	notifications.GET("", h.list)
	notifications.PUT("/read-all", h.markAllRead)
	notifications.PUT("/:id/read", h.markRead)
	notifications.DELETE("/:id", h.remove)
	notifications.GET("/stream", h.stream)
}

func (h *NotificationHandler) list(c echo.Context) error {
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

	// is_read=true/false で絞り込み
	var isRead *bool
	if v := c.QueryParam("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid is_read"})
		}
		isRead = &b
	}

	out, err := h.uc.List(c.Request().Context(), actor, usecase.ListNotificationsInput{
		Page:   page,
		Limit:  limit,
		IsRead: isRead,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	n, err := h.uc.MarkRead(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) markAllRead(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	count, err := h.uc.MarkAllRead(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MarkAllReadResponse{Updated: count})
}

func (h *NotificationHandler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// ユーザー単位のライブ配信（SSE）。
// 切断やバッファ詰まりで落ちたイベントは再送しない（ベストエフォート）。
// 見逃した分はGET /notificationsでいつでも取り直せる。
func (h *NotificationHandler) stream(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	ctx := c.Request().Context()
	events, cancel, err := h.bus.Subscribe(ctx, actor.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Kind, payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
