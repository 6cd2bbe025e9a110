package handler

import (
	"errors"
	"net/http"
	"strconv"
	"vehicle_parking/internal/api/middleware"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"
	"vehicle_parking/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	parkingService     *service.ParkingService
	reservationService *service.ReservationService
}

func NewReservationHandler(ps *service.ParkingService, rs *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{parkingService: ps, reservationService: rs}
}

// POST /parking-lots/:id/reservations — đặt chỗ trong bãi
func (h *ReservationHandler) BookSpot(c *gin.Context) {
	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bãi đỗ không hợp lệ"})
		return
	}

	var dto domain.BookSpotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	reservation, err := h.reservationService.Book(c.Request.Context(), lotID, userID, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bãi đỗ xe"})
			return
		}
		if errors.Is(err, service.ErrLotFull) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đặt chỗ", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GET /reservations — admin xem toàn bộ đặt chỗ
func (h *ReservationHandler) GetAllReservations(c *gin.Context) {
	reservations, err := h.parkingService.GetAllReservations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách đặt chỗ"})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GET /reservations/mine — đặt chỗ của chính người gọi
func (h *ReservationHandler) GetMyReservations(c *gin.Context) {
	userID := c.GetInt(middleware.UserIDKey)
	reservations, err := h.reservationService.GetReservationsByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách đặt chỗ"})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// DELETE /reservations/:id
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID đặt chỗ không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteReservation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy đặt chỗ để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa đặt chỗ", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
