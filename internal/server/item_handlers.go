package server

import (
	"net/http"

	"github.com/Pyle49R/littlenodedatabase/internal/lnerror"
	"github.com/Pyle49R/littlenodedatabase/internal/repository"
	"github.com/labstack/echo/v4"
)

// item contains all item handlers.
type item struct {
	repo *repository.Repository
}

type (
	createItemParams struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// Pointers keep absent and present-but-empty fields apart. An absent
	// field is left alone, a present but out-of-bounds one is ignored by
	// the repository's lenient update policy.
	updateItemParams struct {
		Name  *string `json:"name"`
		Value *string `json:"value"`
	}
)

// Create stores a new item built from the given name and value.
func (h *item) Create(c echo.Context) error {
	var params createItemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, lnerror.New("Could not get item params."))
	}

	record, err := h.repo.Create(params.Name, params.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"item":    record,
	})
}

// List renders all stored items in insertion order.
func (h *item) List(c echo.Context) error {
	items, err := h.repo.List()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// Query renders the items whose name equals the path parameter.
func (h *item) Query(c echo.Context) error {
	items, err := h.repo.QueryByName(c.Param("name"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// Update applies a partial update to the item matching the path parameter.
func (h *item) Update(c echo.Context) error {
	var params updateItemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, lnerror.New("Could not get item params."))
	}

	record, err := h.repo.Update(c.Param("id"), params.Name, params.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"item":    record,
	})
}

// Delete removes the item matching the path parameter and renders it.
func (h *item) Delete(c echo.Context) error {
	record, err := h.repo.Delete(c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"removed": record,
	})
}

// DeleteAll clears the whole collection and renders the prior count.
func (h *item) DeleteAll(c echo.Context) error {
	count, err := h.repo.DeleteAll()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"deletedCount": count,
	})
}
