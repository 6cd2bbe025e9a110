package api

import (
	"vehicle_parking/internal/api/handler"
	"vehicle_parking/internal/api/middleware"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(as *service.AuthService, ps *service.ParkingService, rs *service.ReservationService,
	authMw *middleware.AuthMiddleware) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	authHandler := handler.NewAuthHandler(as)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/admin/login", authHandler.AdminLogin)
		authRoutes.POST("/logout", authMw.Authenticate(), authHandler.Logout)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		lotH := handler.NewParkingLotHandler(ps)
		reservationH := handler.NewReservationHandler(ps, rs)
		lotRoutes := v1.Group("/parking-lots")
		{
			lotRoutes.POST("", authMw.AuthorizeRole(domain.RoleAdmin), lotH.CreateParkingLot)
			lotRoutes.GET("", lotH.GetAllParkingLots)
			lotRoutes.GET("/availability", authMw.AuthorizeRole(domain.RoleUser), lotH.GetLotAvailability)
			lotRoutes.GET("/:id", lotH.GetParkingLotByID)
			lotRoutes.PUT("/:id", authMw.AuthorizeRole(domain.RoleAdmin), lotH.UpdateParkingLot)
			lotRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), lotH.DeleteParkingLot)

			lotRoutes.GET("/:id/spots", authMw.AuthorizeRole(domain.RoleAdmin), lotH.GetSpotsByLotID)
			lotRoutes.POST("/:id/reservations", authMw.AuthorizeRole(domain.RoleUser), reservationH.BookSpot)
		}

		spotH := handler.NewParkingSpotHandler(ps, rs)
		spotRoutes := v1.Group("/parking-spots")
		{
			spotRoutes.GET("/:spot_id", authMw.AuthorizeRole(domain.RoleAdmin), spotH.GetParkingSpotByID)
			spotRoutes.DELETE("/:spot_id", authMw.AuthorizeRole(domain.RoleAdmin), spotH.DeleteParkingSpot)
			spotRoutes.POST("/:spot_id/release", authMw.AuthorizeRole(domain.RoleUser), spotH.ReleaseParkingSpot)
		}

		reservationRoutes := v1.Group("/reservations")
		{
			reservationRoutes.GET("", authMw.AuthorizeRole(domain.RoleAdmin), reservationH.GetAllReservations)
			reservationRoutes.GET("/mine", authMw.AuthorizeRole(domain.RoleUser), reservationH.GetMyReservations)
			reservationRoutes.DELETE("/:id", authMw.AuthorizeRole(domain.RoleAdmin), reservationH.DeleteReservation)
		}
	}
	return r
}
