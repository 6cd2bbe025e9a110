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
)

type pgReservationRepository struct {
	db *sql.DB
}

func NewPgReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &pgReservationRepository{db: db}
}

const reservationColumns = `id, user_id, user_name, spot_id, parking_time, leaving_time, cost, vehicle_number, phone_number, created_at, updated_at`

func (r *pgReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	query := `INSERT INTO reservations
	           (user_id, user_name, spot_id, parking_time, leaving_time, cost, vehicle_number, phone_number, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	           RETURNING id, created_at, updated_at`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query,
		reservation.UserID, reservation.UserName, reservation.SpotID,
		reservation.ParkingTime, reservation.LeavingTime, reservation.Cost,
		reservation.VehicleNumber, reservation.PhoneNumber,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: chỗ đỗ %d hoặc người dùng %d không tồn tại", repository.ErrNotFound, reservation.SpotID, reservation.UserID)
			}
		}
		return nil, fmt.Errorf("ReservationRepository.Create: %w", err)
	}
	reservation.CreatedAt = reservation.CreatedAt.In(time.UTC)
	reservation.UpdatedAt = reservation.UpdatedAt.In(time.UTC)
	return reservation, nil
}

func (r *pgReservationRepository) FindByID(ctx context.Context, id int) (*domain.Reservation, error) {
	reservation := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&reservation.ID, &reservation.UserID, &reservation.UserName, &reservation.SpotID,
		&reservation.ParkingTime, &reservation.LeavingTime, &reservation.Cost,
		&reservation.VehicleNumber, &reservation.PhoneNumber,
		&reservation.CreatedAt, &reservation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ReservationRepository.FindByID: %w", err)
	}
	normalizeReservationTimes(reservation)
	return reservation, nil
}

func (r *pgReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY parking_time DESC`
	return r.queryMany(ctx, "FindAll", query)
}

func (r *pgReservationRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY parking_time DESC`
	return r.queryMany(ctx, "FindByUserID", query, userID)
}

func (r *pgReservationRepository) queryMany(ctx context.Context, op string, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := dbtxFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ReservationRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var reservation domain.Reservation
		if err := rows.Scan(
			&reservation.ID, &reservation.UserID, &reservation.UserName, &reservation.SpotID,
			&reservation.ParkingTime, &reservation.LeavingTime, &reservation.Cost,
			&reservation.VehicleNumber, &reservation.PhoneNumber,
			&reservation.CreatedAt, &reservation.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ReservationRepository.%s (scanning row): %w", op, err)
		}
		normalizeReservationTimes(&reservation)
		reservations = append(reservations, reservation)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ReservationRepository.%s (rows error): %w", op, err)
	}
	return reservations, nil
}

func (r *pgReservationRepository) CountByUserAndLot(ctx context.Context, userID int, lotID int) (int, error) {
	var count int
	query := `SELECT COUNT(*)
	           FROM reservations r
	           JOIN parking_spots s ON s.id = r.spot_id
	           WHERE r.user_id = $1 AND s.lot_id = $2`
	err := dbtxFrom(ctx, r.db).QueryRowContext(ctx, query, userID, lotID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ReservationRepository.CountByUserAndLot: %w", err)
	}
	return count, nil
}

func (r *pgReservationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM reservations WHERE id = $1`
	result, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ReservationRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ReservationRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteBySpotAndUser xóa các đặt chỗ của một người dùng trên một chỗ đỗ.
// Không có bản ghi nào khớp không phải là lỗi (hành vi release).
func (r *pgReservationRepository) DeleteBySpotAndUser(ctx context.Context, spotID int, userID int) error {
	query := `DELETE FROM reservations WHERE spot_id = $1 AND user_id = $2`
	if _, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, spotID, userID); err != nil {
		return fmt.Errorf("ReservationRepository.DeleteBySpotAndUser: %w", err)
	}
	return nil
}

func (r *pgReservationRepository) DeleteByLotID(ctx context.Context, lotID int) error {
	query := `DELETE FROM reservations
	           WHERE spot_id IN (SELECT id FROM parking_spots WHERE lot_id = $1)`
	if _, err := dbtxFrom(ctx, r.db).ExecContext(ctx, query, lotID); err != nil {
		return fmt.Errorf("ReservationRepository.DeleteByLotID: %w", err)
	}
	return nil
}

func normalizeReservationTimes(reservation *domain.Reservation) {
	reservation.ParkingTime = reservation.ParkingTime.In(time.UTC)
	reservation.LeavingTime = reservation.LeavingTime.In(time.UTC)
	reservation.CreatedAt = reservation.CreatedAt.In(time.UTC)
	reservation.UpdatedAt = reservation.UpdatedAt.In(time.UTC)
}
