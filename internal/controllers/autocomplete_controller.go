package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/middleware"
)

type AutoCompleteController struct {
	Deps
}

func NewAutoCompleteController(d Deps) *AutoCompleteController {
	return &AutoCompleteController{Deps: d}
}

// Harvest suggests harvests by crop id.
func (h *AutoCompleteController) Harvest(c *gin.Context) {
	h.search(c, dropdown.HarvestsByCrop)
}

// Worker suggests workers by "<id> <name>".
func (h *AutoCompleteController) Worker(c *gin.Context) {
	h.search(c, dropdown.WorkersByName)
}

func (h *AutoCompleteController) search(c *gin.Context, src dropdown.Source) {
	term := strings.TrimSpace(c.Query("term"))
	opts, err := h.Refs.Search(c.Request.Context(), src, term, h.Settings.AutoCompleteCount)
	if err != nil {
		middleware.Log(c).WithError(err).Error("autocomplete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, opts)
}
