package repository

import (
	"context"
	"errors"
	"vehicle_parking/internal/domain"

	"gopkg.in/guregu/null.v4"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")

// TxManager bao bọc một chuỗi thao tác repository trong một transaction duy nhất.
// Các repository nhận transaction qua context do fn nhận được.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	AdminExists(ctx context.Context) (bool, error)
}

type ParkingLotRepository interface {
	Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingLot, error)
	// FindByIDForUpdate khóa dòng bãi đỗ trong transaction hiện tại,
	// dùng để tuần tự hóa việc cấp phát chỗ đỗ theo từng bãi.
	FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingLot, error)
	FindAll(ctx context.Context) ([]domain.ParkingLot, error)
	Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	Delete(ctx context.Context, id int) error
}

type ParkingSpotRepository interface {
	Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSpot, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpot, error)
	FindByLotID(ctx context.Context, lotID int) ([]domain.ParkingSpot, error)
	FindFirstAvailableByLotID(ctx context.Context, lotID int) (*domain.ParkingSpot, error)
	CountByLotID(ctx context.Context, lotID int) (int, error)
	CountOccupiedByLotID(ctx context.Context, lotID int) (int, error)
	UpdateStatus(ctx context.Context, id int, status domain.SpotStatus, bookedBy null.Int) error
	Delete(ctx context.Context, id int) error
	DeleteByLotID(ctx context.Context, lotID int) error
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id int) (*domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Reservation, error)
	CountByUserAndLot(ctx context.Context, userID int, lotID int) (int, error)
	Delete(ctx context.Context, id int) error
	DeleteBySpotAndUser(ctx context.Context, spotID int, userID int) error
	DeleteByLotID(ctx context.Context, lotID int) error
}
