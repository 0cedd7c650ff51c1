package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"agro_admin/internal/config"
	"agro_admin/internal/controllers"
	"agro_admin/internal/logger"
	"agro_admin/internal/middleware"
	"agro_admin/internal/routes"
	"agro_admin/internal/seed"
)

func main() {
	seedData := flag.Bool("seed", false, "fill an empty database with reference and demo rows")
	flag.Parse()

	cfg := config.Load()

	// Initialize structured logging to file
	logWriter := logger.Setup(cfg.Log)

	// Connect to the database
	config.InitDB(cfg.Database)
	db := config.GetDB()

	if *seedData {
		if err := seed.IfEmpty(context.Background(), db); err != nil {
			logrus.WithError(err).Fatal("seeding failed")
		}
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router
	r := routes.SetupRouter(controllers.NewDeps(db, cfg.App), logWriter)

	// Wrap with CORS
	handler := middleware.EnableCORS(cfg.Server.CorsAllowedOrigins)(r)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	logrus.Infof("server running at %s", addr)
	logrus.Fatal(http.ListenAndServe(addr, handler))
}
