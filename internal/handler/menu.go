package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/internal/menu"
	"github.com/sahanw/restopos/internal/menu/dto"
	menuusecase "github.com/sahanw/restopos/internal/menu/usecase"
)

type MenuHandler struct {
	menu menu.UseCase
}

func NewMenuHandler(uc menu.UseCase) *MenuHandler {
	return &MenuHandler{menu: uc}
}

func (h *MenuHandler) List(c *gin.Context) {
	includeDisabled := c.Query("include_disabled") == "true"
	items, err := h.menu.GetAll(c.Request.Context(), includeDisabled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MenuHandler) Create(c *gin.Context) {
	var input dto.CreateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item payload"})
		return
	}

	item, err := h.menu.Create(c.Request.Context(), &input)
	if err != nil {
		status := http.StatusInternalServerError
		if isMenuValidation(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) Update(c *gin.Context) {
	var input dto.UpdateMenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item payload"})
		return
	}
	input.ID = c.Param("id")

	item, err := h.menu.Update(c.Request.Context(), &input)
	switch {
	case errors.Is(err, menu.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
		return
	case isMenuValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete disables the item by default; ?hard=true removes the row.
func (h *MenuHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	var err error
	if c.Query("hard") == "true" {
		err = h.menu.Delete(ctx, id)
	} else {
		err = h.menu.SetAvailability(ctx, id, false)
	}

	switch {
	case errors.Is(err, menu.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete menu item"})
	default:
		c.Status(http.StatusNoContent)
	}
}

func isMenuValidation(err error) bool {
	return err != nil && (errors.Is(err, menuusecase.ErrNameRequired) ||
		errors.Is(err, menuusecase.ErrInvalidPrice) ||
		errors.Is(err, menuusecase.ErrInvalidCategory))
}
