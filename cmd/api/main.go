package main

import (
	"context"
	"net/http"
	"time"

	_ "cafe-finder/docs"
	"cafe-finder/internal/config"
	"cafe-finder/internal/handler"
	"cafe-finder/internal/logging"
	"cafe-finder/internal/repository"
	"cafe-finder/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title		Cafe Finder API
//	@version	1.0
//	@BasePath	/

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.ValidateForAPI(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	switch cfg.CheckMapboxToken() {
	case config.MapboxTokenMissing:
		log.Warn().Msg("no Mapbox token configured, the map page will stay blank")
	case config.MapboxTokenSecret:
		log.Warn().Msg("Mapbox token is not a public (pk.) token")
	}

	// Database connection
	conn, err := repository.NewPool(context.Background(), cfg.DBSource, cfg.DBPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	mapService := service.NewMapService(repo)
	mapHandler := handler.NewMapHandler(mapService, cfg.MapboxToken)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	r.SetHTMLTemplate(handler.Templates())

	r.GET("/health", func(c *gin.Context) {
		if err := conn.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/", mapHandler.Index)
	r.GET("/cafes.geojson", mapHandler.GeoJSON)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("addr", cfg.ServerAddress).Msg("starting map server")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
