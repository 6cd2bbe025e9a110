package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"

	"github.com/lib/pq"
	"gopkg.in/guregu/null.v4"
)

type pgParkingSpotRepository struct {
	db *sql.DB
}

func NewPgParkingSpotRepository(db *sql.DB) repository.ParkingSpotRepository {
	return &pgParkingSpotRepository{db: db}
}

func (r *pgParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `INSERT INTO parking_spots (lot_id, status, booked_by, created_at, updated_at)
	           VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, spot.LotID, spot.Status, spot.BookedBy).
		Scan(&spot.ID, &spot.CreatedAt, &spot.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: bãi đỗ xe %d không tồn tại", repository.ErrNotFound, spot.LotID)
			}
		}
		return nil, fmt.Errorf("ParkingSpotRepository.Create: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	return r.findByID(ctx, id, false)
}

func (r *pgParkingSpotRepository) FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	return r.findByID(ctx, id, true)
}

func (r *pgParkingSpotRepository) findByID(ctx context.Context, id int, forUpdate bool) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	query := `SELECT id, lot_id, status, booked_by, created_at, updated_at FROM parking_spots WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&spot.ID, &spot.LotID, &spot.Status, &spot.BookedBy, &spot.CreatedAt, &spot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.FindByID: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByLotID(ctx context.Context, lotID int) ([]domain.ParkingSpot, error) {
	query := `SELECT id, lot_id, status, booked_by, created_at, updated_at
	           FROM parking_spots WHERE lot_id = $1 ORDER BY id`
	rows, err := dbtxFrom(ctx, r.db).QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByLotID: %w", err)
	}
	defer rows.Close()

	var spots []domain.ParkingSpot
	for rows.Next() {
		var spot domain.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.LotID, &spot.Status, &spot.BookedBy, &spot.CreatedAt, &spot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ParkingSpotRepository.FindByLotID (scanning row): %w", err)
		}
		spot.CreatedAt = spot.CreatedAt.In(time.UTC)
		spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
		spots = append(spots, spot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.FindByLotID (rows error): %w", err)
	}
	return spots, nil
}

// FindFirstAvailableByLotID lấy chỗ đỗ trống đầu tiên theo thứ tự id.
func (r *pgParkingSpotRepository) FindFirstAvailableByLotID(ctx context.Context, lotID int) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	query := `SELECT id, lot_id, status, booked_by, created_at, updated_at
	           FROM parking_spots
	           WHERE lot_id = $1 AND status = $2
	           ORDER BY id ASC LIMIT 1`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, lotID, domain.StatusAvailable).Scan(
		&spot.ID, &spot.LotID, &spot.Status, &spot.BookedBy, &spot.CreatedAt, &spot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound // Không có chỗ đỗ nào trống
		}
		return nil, fmt.Errorf("ParkingSpotRepository.FindFirstAvailableByLotID: %w", err)
	}
	spot.CreatedAt = spot.CreatedAt.In(time.UTC)
	spot.UpdatedAt = spot.UpdatedAt.In(time.UTC)
	return spot, nil
}

func (r *pgParkingSpotRepository) CountByLotID(ctx context.Context, lotID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, lotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ParkingSpotRepository.CountByLotID: %w", err)
	}
	return count, nil
}

func (r *pgParkingSpotRepository) CountOccupiedByLotID(ctx context.Context, lotID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1 AND status = $2`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, lotID, domain.StatusOccupied).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ParkingSpotRepository.CountOccupiedByLotID: %w", err)
	}
	return count, nil
}

func (r *pgParkingSpotRepository) UpdateStatus(ctx context.Context, id int, status domain.SpotStatus, bookedBy null.Int) error {
	query := `UPDATE parking_spots
	           SET status = $1, booked_by = $2, updated_at = CURRENT_TIMESTAMP
	           WHERE id = $3`
	result, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, status, bookedBy, id)
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.UpdateStatus: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.UpdateStatus (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgParkingSpotRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM parking_spots WHERE id = $1`
	result, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgParkingSpotRepository) DeleteByLotID(ctx context.Context, lotID int) error {
	query := `DELETE FROM parking_spots WHERE lot_id = $1`
	if _, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, lotID); err != nil {
		return fmt.Errorf("ParkingSpotRepository.DeleteByLotID: %w", err)
	}
	return nil
}
