package domain

import "time"

// DefaultDurationHours là thời lượng đặt chỗ mặc định khi client không chỉ định.
const DefaultDurationHours = 2

type Reservation struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	UserName      string    `json:"user_name"` // Tên hiển thị, có thể khác username của tài khoản
	SpotID        int       `json:"spot_id"`
	ParkingTime   time.Time `json:"parking_time"`
	LeavingTime   time.Time `json:"leaving_time"`
	Cost          float64   `json:"cost"`
	VehicleNumber string    `json:"vehicle_number"`
	PhoneNumber   string    `json:"phone_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookSpotDTO struct {
	Name          string `json:"name" binding:"required,max=50"`
	VehicleNumber string `json:"vehicle_number" binding:"required,max=20"`
	PhoneNumber   string `json:"phone_number" binding:"required,max=20"`
	// DurationHours = 0 nghĩa là dùng DefaultDurationHours
	DurationHours int `json:"duration_hours" binding:"omitempty,min=1,max=24"`
}
