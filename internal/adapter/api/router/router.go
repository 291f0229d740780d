package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"closetshop/internal/adapter/api/handler"
	"closetshop/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	listingHandler *handler.ListingHandler,
	inquiryHandler *handler.InquiryHandler,
	authHandler *handler.AuthHandler,
	wsHandler *handler.WebSocketHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	public := e.Group("/v1")
	public.GET("/listings", listingHandler.ListListings)
	public.GET("/listings/:id", listingHandler.GetListing)
	public.POST("/inquiries", inquiryHandler.SubmitInquiry)

	// The live view carries inquiry contact details, so it sits behind the
	// same session gate as the rest of the admin console.
	e.GET("/v1/ws", wsHandler.HandleConnection, authMiddleware.Authenticate)

	e.POST("/v1/admin/login", authHandler.Login)

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.POST("/listings", listingHandler.CreateListing)
	admin.PUT("/listings/:id", listingHandler.UpdateListing)
	admin.DELETE("/listings/:id", listingHandler.DeleteListing)
	admin.POST("/listings/:id/move", listingHandler.MoveListing)
	admin.POST("/listings/reset", listingHandler.ResetListings)
	admin.GET("/inquiries", inquiryHandler.ListInquiries)
	admin.DELETE("/inquiries/:id", inquiryHandler.DeleteInquiry)
	admin.GET("/stats", listingHandler.Stats)
}
