package handler

import (
	"errors"
	"net/http"
	"strconv"
	"vehicle_parking/internal/api/middleware"
	"vehicle_parking/internal/repository"
	"vehicle_parking/internal/service"

	"github.com/gin-gonic/gin"
)

type ParkingSpotHandler struct {
	parkingService     *service.ParkingService
	reservationService *service.ReservationService
}

func NewParkingSpotHandler(ps *service.ParkingService, rs *service.ReservationService) *ParkingSpotHandler {
	return &ParkingSpotHandler{parkingService: ps, reservationService: rs}
}

// GET /parking-spots/:spot_id
func (h *ParkingSpotHandler) GetParkingSpotByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID chỗ đỗ không hợp lệ"})
		return
	}

	spot, err := h.parkingService.GetParkingSpotByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chỗ đỗ"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông tin chỗ đỗ"})
		return
	}
	c.JSON(http.StatusOK, spot)
}

// DELETE /parking-spots/:spot_id
func (h *ParkingSpotHandler) DeleteParkingSpot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID chỗ đỗ không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteParkingSpot(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chỗ đỗ để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa chỗ đỗ", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// POST /parking-spots/:spot_id/release
func (h *ParkingSpotHandler) ReleaseParkingSpot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("spot_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID chỗ đỗ không hợp lệ"})
		return
	}

	userID := c.GetInt(middleware.UserIDKey)
	err = h.reservationService.Release(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chỗ đỗ"})
			return
		}
		if errors.Is(err, service.ErrNotSpotOwner) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể giải phóng chỗ đỗ", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã giải phóng chỗ đỗ"})
}
