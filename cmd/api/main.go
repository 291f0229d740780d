package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"closetshop/internal/adapter/api"
	"closetshop/internal/adapter/api/handler"
	apimiddleware "closetshop/internal/adapter/api/middleware"
	"closetshop/internal/adapter/api/router"
	"closetshop/internal/adapter/repository"
	"closetshop/internal/infrastructure/storage"
	"closetshop/internal/infrastructure/websocket"
	"closetshop/internal/usecase"
	"closetshop/pkg/config"
	"closetshop/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	serviceAccountPath := os.Getenv("SERVICE_ACCOUNT_PATH")
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	inquiryRepo := repository.NewFirestoreInquiryRepository(firestoreClient)

	controller := usecase.NewSyncController(listingRepo, inquiryRepo, storageClient)
	defer controller.Close()

	hub := websocket.NewHub()
	hub.Start(ctx)

	controller.SetViewCallback(func(view usecase.ViewModel) {
		payload, err := json.Marshal(view)
		if err != nil {
			logger.Error("Unable to encode view model: %v", err)
			return
		}
		hub.Broadcast(payload)
	})
	controller.Start(ctx)

	listingHandler := handler.NewListingHandler(controller)
	inquiryHandler := handler.NewInquiryHandler(controller)
	authHandler := handler.NewAuthHandler(cfg.AdminUsername, cfg.AdminPassword, cfg.SessionSecret, cfg.SessionTTL)
	wsHandler := handler.NewWebSocketHandler(hub, controller)
	authMiddleware := apimiddleware.NewAuthMiddleware(cfg.SessionSecret)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Validator = api.NewValidator()

	router.Setup(e, listingHandler, inquiryHandler, authHandler, wsHandler, authMiddleware)

	logger.Info("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
