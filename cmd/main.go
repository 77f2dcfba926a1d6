package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nubian-marketplace/catalog-service/internal/events"
	"github.com/nubian-marketplace/catalog-service/internal/handler"
	"github.com/nubian-marketplace/catalog-service/internal/repository"
	"github.com/nubian-marketplace/catalog-service/internal/service"
	"github.com/nubian-marketplace/catalog-service/pkg/config"
	"github.com/nubian-marketplace/catalog-service/pkg/middleware"
	pkgtls "github.com/nubian-marketplace/catalog-service/pkg/tls"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	dynamoClient, err := repository.NewDynamoDBClient(cfg)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client:", err)
	}

	productRepo := repository.NewProductRepository(dynamoClient, cfg.ProductTableName)

	var publisher *events.KafkaProducer
	var catalogPublisher service.EventPublisher
	if cfg.KafkaEnabled {
		publisher = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.ProductEventsTopic, logger)
		defer publisher.Close()
		catalogPublisher = publisher
	}

	catalog := service.NewCatalogService(productRepo, catalogPublisher, logger)
	productHandler := handler.NewProductHandler(catalog, logger)

	var consumer *events.KafkaConsumer
	if cfg.KafkaEnabled {
		consumer = events.NewKafkaConsumer(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.KafkaConsumerGroup,
			cfg.OrderEventsTopic,
			catalog,
			logger,
		)
		consumer.SetCompensationProducer(publisher)
		consumer.Start()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/products", productHandler.CreateProduct)
		v1.PUT("/products/:id", productHandler.UpdateProduct)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.POST("/products/validate", productHandler.ValidateProduct)
		v1.POST("/products/price-preview", productHandler.PreviewPrices)
		v1.POST("/products/:id/deduct", productHandler.DeductStock)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "healthy"})
		})
	}

	tlsConfig, err := pkgtls.LoadTLSConfig(&cfg.TLS, logger)
	if err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	defer pkgtls.Cleanup()

	srv := &http.Server{
		Addr:      ":" + cfg.Port,
		Handler:   router,
		TLSConfig: tlsConfig,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.Bool("tls", tlsConfig != nil))
		var err error
		if tlsConfig != nil {
			go pkgtls.WatchCertificates(&cfg.TLS, logger)
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	if consumer != nil {
		consumer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
