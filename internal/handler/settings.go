package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/permission"
	"github.com/sahanw/restopos/internal/settings"
)

type SettingsHandler struct {
	settings *settings.Service
}

func NewSettingsHandler(s *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: s}
}

func (h *SettingsHandler) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.GetAll(c.Request.Context()))
}

func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Param("key") {
	case model.SettingsKeyRestaurant:
		c.JSON(http.StatusOK, h.settings.Restaurant(ctx))
	case model.SettingsKeyReceipt:
		c.JSON(http.StatusOK, h.settings.Receipt(ctx))
	case model.SettingsKeySystem:
		c.JSON(http.StatusOK, h.settings.System(ctx))
	case model.SettingsKeyNotifications:
		c.JSON(http.StatusOK, h.settings.Notifications(ctx))
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown settings key"})
	}
}

// Set decodes and stores one key. Editing rights differ per key, so the
// capability check happens here instead of in route middleware.
func (h *SettingsHandler) Set(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("key")

	caps := permission.Resolve(roleFrom(c))
	if !canEdit(caps, key) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	var err error
	switch key {
	case model.SettingsKeyRestaurant:
		var v model.RestaurantSettings
		if err = c.ShouldBindJSON(&v); err == nil {
			err = h.settings.SetRestaurant(ctx, v)
		}
	case model.SettingsKeyReceipt:
		var v model.ReceiptSettings
		if err = c.ShouldBindJSON(&v); err == nil {
			err = h.settings.SetReceipt(ctx, v)
		}
	case model.SettingsKeySystem:
		var v model.SystemSettings
		if err = c.ShouldBindJSON(&v); err == nil {
			err = h.settings.SetSystem(ctx, v)
		}
	case model.SettingsKeyNotifications:
		var v model.NotificationSettings
		if err = c.ShouldBindJSON(&v); err == nil {
			err = h.settings.SetNotifications(ctx, v)
		}
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown settings key"})
		return
	}

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}
	c.Status(http.StatusNoContent)
}

func canEdit(caps permission.Capabilities, key string) bool {
	switch key {
	case model.SettingsKeyRestaurant:
		return caps.EditRestaurantSettings
	case model.SettingsKeyReceipt:
		return caps.EditReceiptSettings
	case model.SettingsKeySystem:
		return caps.EditSystemSettings
	case model.SettingsKeyNotifications:
		return caps.AccessSettings || caps.EditRestaurantSettings
	default:
		return false
	}
}
