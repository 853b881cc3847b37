package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/logger"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/pkg/serverutils"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/service"
	internalWS "github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/websocket"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

type NotificationHandler struct {
	service service.INotificationService
	auth    fiber.Handler
	hub     *internalWS.Hub
	logger  logger.ILogger
}

// NewNotificationHandler builds the handler. hub may be nil, which disables
// the live feed.
func NewNotificationHandler(service service.INotificationService, auth fiber.Handler, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		auth:    auth,
		hub:     hub,
		logger:  log,
	}
}

// queryToken lets browsers, which cannot set headers on a websocket
// handshake, pass the bearer token as ?token=.
func queryToken(c *fiber.Ctx) error {
	if token := c.Query("token"); token != "" && c.Get(fiber.HeaderAuthorization) == "" {
		c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return c.Next()
}

// ServeWs upgrades to the live notification feed of the caller.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

// currentUser resolves the caller's account id from the token.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	principal, err := serverutils.Principal(c)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(string(principal))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindUnauthorized, "token does not name an account")
	}
	return userID, nil
}

// GetNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	res, err := h.service.List(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Success list notifications", res))
}

// MarkAsRead marks a specific notification as read.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.ValidationFailed("invalid id %q", c.Params("id"))
	}

	if err := h.service.MarkAsRead(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

// MarkAllAsRead marks all user's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), userID); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	if h.hub != nil {
		// Registered ahead of the group so queryToken runs before auth.
		router.Get("/notification/v1/ws", queryToken, h.auth, h.ServeWs)
	}

	notif := router.Group("/notification/v1")
	notif.Use(h.auth)
	notif.Get("", h.GetNotifications)
	notif.Patch("read-all", h.MarkAllAsRead) // before :id
	notif.Patch(":id/read", h.MarkAsRead)
}
