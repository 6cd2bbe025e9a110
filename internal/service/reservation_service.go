package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"

	"gopkg.in/guregu/null.v4"
)

var ErrLotFull = errors.New("bãi đỗ xe đã hết chỗ")
var ErrNotSpotOwner = errors.New("chỗ đỗ này không thuộc về bạn")

// ReservationService quản lý vòng đời đặt chỗ: cấp phát chỗ đỗ, tạo đặt chỗ
// và giải phóng sớm. Toàn bộ chuỗi cấp-phát-rồi-đặt chạy trong một
// transaction, khóa theo dòng bãi đỗ để hai yêu cầu đồng thời trên cùng một
// bãi không thể cùng chiếm một chỗ hoặc vượt quá max_spots.
type ReservationService struct {
	lotRepo         repository.ParkingLotRepository
	spotRepo        repository.ParkingSpotRepository
	reservationRepo repository.ReservationRepository
	txManager       repository.TxManager
}

func NewReservationService(
	lotRepo repository.ParkingLotRepository,
	spotRepo repository.ParkingSpotRepository,
	reservationRepo repository.ReservationRepository,
	txManager repository.TxManager,
) *ReservationService {
	return &ReservationService{
		lotRepo:         lotRepo,
		spotRepo:        spotRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
	}
}

// Book cấp phát một chỗ đỗ trong bãi cho người dùng và tạo đặt chỗ tương ứng.
// Chỗ trống đầu tiên được dùng lại; nếu không còn chỗ trống và số chỗ hiện có
// chưa chạm max_spots thì tạo chỗ mới, ngược lại trả về ErrLotFull.
func (s *ReservationService) Book(ctx context.Context, lotID int, userID int, dto domain.BookSpotDTO) (*domain.Reservation, error) {
	hours := dto.DurationHours
	if hours <= 0 {
		hours = domain.DefaultDurationHours
	}

	var created *domain.Reservation
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		lot, err := s.lotRepo.FindByIDForUpdate(ctx, lotID)
		if err != nil {
			return err
		}

		spot, err := s.spotRepo.FindFirstAvailableByLotID(ctx, lot.ID)
		switch {
		case err == nil:
			if err := s.spotRepo.UpdateStatus(ctx, spot.ID, domain.StatusOccupied, null.IntFrom(int64(userID))); err != nil {
				return fmt.Errorf("lỗi đánh dấu chỗ đỗ %d đang có xe: %w", spot.ID, err)
			}
		case errors.Is(err, repository.ErrNotFound):
			count, err := s.spotRepo.CountByLotID(ctx, lot.ID)
			if err != nil {
				return fmt.Errorf("lỗi đếm chỗ đỗ của bãi %d: %w", lot.ID, err)
			}
			if count >= lot.MaxSpots {
				return ErrLotFull
			}
			spot, err = s.spotRepo.Create(ctx, &domain.ParkingSpot{
				LotID:    lot.ID,
				Status:   domain.StatusOccupied,
				BookedBy: null.IntFrom(int64(userID)),
			})
			if err != nil {
				return fmt.Errorf("lỗi tạo chỗ đỗ mới cho bãi %d: %w", lot.ID, err)
			}
		default:
			return fmt.Errorf("lỗi tìm chỗ đỗ trống: %w", err)
		}

		now := time.Now().UTC()
		reservation := &domain.Reservation{
			UserID:        userID,
			UserName:      dto.Name,
			SpotID:        spot.ID,
			ParkingTime:   now,
			LeavingTime:   now.Add(time.Duration(hours) * time.Hour),
			Cost:          float64(hours) * lot.PricePerHour,
			VehicleNumber: dto.VehicleNumber,
			PhoneNumber:   dto.PhoneNumber,
		}
		created, err = s.reservationRepo.Create(ctx, reservation)
		if err != nil {
			return fmt.Errorf("lỗi tạo đặt chỗ: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Đã tạo đặt chỗ ID %d: người dùng %d, chỗ đỗ %d, bãi %d, chi phí %.2f",
		created.ID, userID, created.SpotID, lotID, created.Cost)
	return created, nil
}

// Release giải phóng chỗ đỗ: đặt lại trạng thái trống, xóa người chiếm giữ và
// xóa các đặt chỗ của người gọi trên chỗ đó. Chỉ người đang chiếm giữ chỗ
// mới được phép giải phóng.
func (s *ReservationService) Release(ctx context.Context, spotID int, userID int) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		spot, err := s.spotRepo.FindByIDForUpdate(ctx, spotID)
		if err != nil {
			return err
		}

		if !spot.BookedBy.Valid || int(spot.BookedBy.Int64) != userID {
			return ErrNotSpotOwner
		}

		if err := s.spotRepo.UpdateStatus(ctx, spot.ID, domain.StatusAvailable, null.Int{}); err != nil {
			return fmt.Errorf("lỗi đặt lại trạng thái chỗ đỗ %d: %w", spot.ID, err)
		}
		if err := s.reservationRepo.DeleteBySpotAndUser(ctx, spot.ID, userID); err != nil {
			return fmt.Errorf("lỗi xóa đặt chỗ trên chỗ đỗ %d: %w", spot.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Người dùng %d đã giải phóng chỗ đỗ %d", userID, spotID)
	return nil
}

// GetReservationsByUser trả về các đặt chỗ hiện có của một người dùng.
func (s *ReservationService) GetReservationsByUser(ctx context.Context, userID int) ([]domain.Reservation, error) {
	return s.reservationRepo.FindByUserID(ctx, userID)
}
