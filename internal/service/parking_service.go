package service

import (
	"context"
	"fmt"
	"log"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"
)

type ParkingService struct {
	lotRepo         repository.ParkingLotRepository
	spotRepo        repository.ParkingSpotRepository
	reservationRepo repository.ReservationRepository
	txManager       repository.TxManager
}

func NewParkingService(
	lotRepo repository.ParkingLotRepository,
	spotRepo repository.ParkingSpotRepository,
	reservationRepo repository.ReservationRepository,
	txManager repository.TxManager,
) *ParkingService {
	return &ParkingService{
		lotRepo:         lotRepo,
		spotRepo:        spotRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
	}
}

// --- ParkingLot ---

func (s *ParkingService) CreateParkingLot(ctx context.Context, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	lot := &domain.ParkingLot{
		Name:         dto.Name,
		Address:      dto.Address,
		Pincode:      dto.Pincode,
		PricePerHour: dto.PricePerHour,
		MaxSpots:     dto.MaxSpots,
	}
	return s.lotRepo.Create(ctx, lot)
}

func (s *ParkingService) GetParkingLotByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	return s.lotRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	return s.lotRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateParkingLot(ctx context.Context, id int, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lot.Name = dto.Name
	lot.Address = dto.Address
	lot.Pincode = dto.Pincode
	lot.PricePerHour = dto.PricePerHour
	lot.MaxSpots = dto.MaxSpots
	return s.lotRepo.Update(ctx, lot)
}

// DeleteParkingLot xóa bãi đỗ cùng toàn bộ chỗ đỗ và các đặt chỗ tham chiếu
// tới chúng, trong một transaction duy nhất để không để lại bản ghi mồ côi.
func (s *ParkingService) DeleteParkingLot(ctx context.Context, id int) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.lotRepo.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := s.reservationRepo.DeleteByLotID(ctx, id); err != nil {
			return fmt.Errorf("lỗi xóa các đặt chỗ của bãi %d: %w", id, err)
		}
		if err := s.spotRepo.DeleteByLotID(ctx, id); err != nil {
			return fmt.Errorf("lỗi xóa các chỗ đỗ của bãi %d: %w", id, err)
		}
		if err := s.lotRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("lỗi xóa bãi đỗ %d: %w", id, err)
		}
		log.Printf("Đã xóa bãi đỗ %d cùng các chỗ đỗ và đặt chỗ liên quan", id)
		return nil
	})
}

// GetLotAvailability trả về danh sách bãi đỗ kèm tóm tắt tình trạng chỗ
// cho dashboard người dùng: số chỗ đang có xe, số chỗ còn trống so với
// max_spots, và số đặt chỗ của chính người gọi trong từng bãi.
func (s *ParkingService) GetLotAvailability(ctx context.Context, userID int) ([]domain.LotAvailabilityDTO, error) {
	lots, err := s.lotRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.LotAvailabilityDTO, 0, len(lots))
	for _, lot := range lots {
		occupied, err := s.spotRepo.CountOccupiedByLotID(ctx, lot.ID)
		if err != nil {
			return nil, fmt.Errorf("lỗi đếm chỗ đang có xe của bãi %d: %w", lot.ID, err)
		}
		userReservations, err := s.reservationRepo.CountByUserAndLot(ctx, userID, lot.ID)
		if err != nil {
			return nil, fmt.Errorf("lỗi đếm đặt chỗ của người dùng %d trong bãi %d: %w", userID, lot.ID, err)
		}
		available := lot.MaxSpots - occupied
		if available < 0 {
			available = 0
		}
		summaries = append(summaries, domain.LotAvailabilityDTO{
			Lot:              lot,
			OccupiedSpots:    occupied,
			AvailableSpots:   available,
			UserReservations: userReservations,
		})
	}
	return summaries, nil
}

// --- ParkingSpot (admin) ---

func (s *ParkingService) GetParkingSpotByID(ctx context.Context, spotID int) (*domain.ParkingSpot, error) {
	return s.spotRepo.FindByID(ctx, spotID)
}

func (s *ParkingService) GetSpotsByLotID(ctx context.Context, lotID int) ([]domain.ParkingSpot, error) {
	if _, err := s.lotRepo.FindByID(ctx, lotID); err != nil {
		return nil, err
	}
	return s.spotRepo.FindByLotID(ctx, lotID)
}

func (s *ParkingService) DeleteParkingSpot(ctx context.Context, spotID int) error {
	return s.spotRepo.Delete(ctx, spotID)
}

// --- Reservation (admin) ---

func (s *ParkingService) GetAllReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservationRepo.FindAll(ctx)
}

func (s *ParkingService) DeleteReservation(ctx context.Context, id int) error {
	return s.reservationRepo.Delete(ctx, id)
}
