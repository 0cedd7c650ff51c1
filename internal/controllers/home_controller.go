package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var entities = []string{"Crop", "Harvest", "Order", "Plot", "Task", "Worker"}

type HomeView struct {
	Links map[string]string      `json:"links"`
	Flash *ActionResponseMessage `json:"flash,omitempty"`
}

type HomeController struct {
	Deps
}

func NewHomeController(d Deps) *HomeController {
	return &HomeController{Deps: d}
}

// Index lists the entity pages and shows any pending message.
func (h *HomeController) Index(c *gin.Context) {
	links := make(map[string]string, len(entities))
	for _, e := range entities {
		links[e] = "/" + e + "/Index"
	}
	c.JSON(http.StatusOK, HomeView{Links: links, Flash: takeFlash(c)})
}

// Health pings the database.
func (h *HomeController) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
