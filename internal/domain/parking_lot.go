package domain

import "time"

type ParkingLot struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Pincode      string    `json:"pincode"`
	PricePerHour float64   `json:"price_per_hour"`
	MaxSpots     int       `json:"max_spots"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ParkingLotDTO struct {
	Name         string  `json:"name" binding:"required,max=120"`
	Address      string  `json:"address" binding:"required,max=200"`
	Pincode      string  `json:"pincode" binding:"required,max=10"`
	PricePerHour float64 `json:"price_per_hour" binding:"min=0"`
	MaxSpots     int     `json:"max_spots" binding:"required,min=1"`
}

// LotAvailabilityDTO tóm tắt tình trạng chỗ đỗ của một bãi cho dashboard người dùng.
type LotAvailabilityDTO struct {
	Lot              ParkingLot `json:"lot"`
	OccupiedSpots    int        `json:"occupied_spots"`
	AvailableSpots   int        `json:"available_spots"`
	UserReservations int        `json:"user_reservations"`
}
