package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle_parking/internal/api"
	"vehicle_parking/internal/api/middleware"
	"vehicle_parking/internal/config"
	"vehicle_parking/internal/repository/postgresql"
	"vehicle_parking/internal/service"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	defer db.Close()
	log.Println("Đã kết nối database thành công!")

	// 3. Initialize Repositories
	userRepo := postgresql.NewPgUserRepository(db)
	parkingLotRepo := postgresql.NewPgParkingLotRepository(db)
	parkingSpotRepo := postgresql.NewPgParkingSpotRepository(db)
	reservationRepo := postgresql.NewPgReservationRepository(db)
	txManager := postgresql.NewTxManager(db)

	// 4. Initialize Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	parkingService := service.NewParkingService(parkingLotRepo, parkingSpotRepo, reservationRepo, txManager)
	reservationService := service.NewReservationService(parkingLotRepo, parkingSpotRepo, reservationRepo, txManager)

	// 5. Bootstrap tài khoản admin mặc định nếu chưa có
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureDefaultAdmin(bootstrapCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		cancelBootstrap()
		log.Fatalf("Không thể tạo tài khoản admin mặc định: %v", err)
	}
	cancelBootstrap()

	// 6. Initialize Auth Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 7. Setup HTTP Router
	router := api.SetupRouter(authService, parkingService, reservationService, authMiddleware)

	// 8. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server buộc phải tắt: %v", err)
	}

	log.Println("Server đã tắt.")
}
