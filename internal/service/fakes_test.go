package service

import (
	"context"
	"sort"
	"vehicle_parking/internal/domain"
	"vehicle_parking/internal/repository"

	"gopkg.in/guregu/null.v4"
)

// Các fake repository dùng chung cho test của tầng service.

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- user ---

type fakeUserRepo struct {
	users  map[int]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, repository.ErrDuplicateEntry
		}
	}
	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = &u
	copied := u
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AdminExists(ctx context.Context) (bool, error) {
	for _, u := range r.users {
		if u.Role == domain.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// --- parking lot ---

type fakeLotRepo struct {
	lots   map[int]*domain.ParkingLot
	nextID int
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[int]*domain.ParkingLot), nextID: 1}
}

func (r *fakeLotRepo) Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	l := *lot
	l.ID = r.nextID
	r.nextID++
	r.lots[l.ID] = &l
	copied := l
	return &copied, nil
}

func (r *fakeLotRepo) FindByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *fakeLotRepo) FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingLot, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLotRepo) FindAll(ctx context.Context) ([]domain.ParkingLot, error) {
	ids := make([]int, 0, len(r.lots))
	for id := range r.lots {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	lots := make([]domain.ParkingLot, 0, len(ids))
	for _, id := range ids {
		lots = append(lots, *r.lots[id])
	}
	return lots, nil
}

func (r *fakeLotRepo) Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	if _, ok := r.lots[lot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	l := *lot
	r.lots[l.ID] = &l
	copied := l
	return &copied, nil
}

func (r *fakeLotRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.lots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.lots, id)
	return nil
}

// --- parking spot ---

type fakeSpotRepo struct {
	spots  map[int]*domain.ParkingSpot
	nextID int
}

func newFakeSpotRepo() *fakeSpotRepo {
	return &fakeSpotRepo{spots: make(map[int]*domain.ParkingSpot), nextID: 1}
}

func (r *fakeSpotRepo) sortedIDs() []int {
	ids := make([]int, 0, len(r.spots))
	for id := range r.spots {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *fakeSpotRepo) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	s := *spot
	s.ID = r.nextID
	r.nextID++
	r.spots[s.ID] = &s
	copied := s
	return &copied, nil
}

func (r *fakeSpotRepo) FindByID(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	spot, ok := r.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *spot
	return &copied, nil
}

func (r *fakeSpotRepo) FindByIDForUpdate(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSpotRepo) FindByLotID(ctx context.Context, lotID int) ([]domain.ParkingSpot, error) {
	var spots []domain.ParkingSpot
	for _, id := range r.sortedIDs() {
		if r.spots[id].LotID == lotID {
			spots = append(spots, *r.spots[id])
		}
	}
	return spots, nil
}

func (r *fakeSpotRepo) FindFirstAvailableByLotID(ctx context.Context, lotID int) (*domain.ParkingSpot, error) {
	for _, id := range r.sortedIDs() {
		spot := r.spots[id]
		if spot.LotID == lotID && spot.Status == domain.StatusAvailable {
			copied := *spot
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSpotRepo) CountByLotID(ctx context.Context, lotID int) (int, error) {
	count := 0
	for _, spot := range r.spots {
		if spot.LotID == lotID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSpotRepo) CountOccupiedByLotID(ctx context.Context, lotID int) (int, error) {
	count := 0
	for _, spot := range r.spots {
		if spot.LotID == lotID && spot.Status == domain.StatusOccupied {
			count++
		}
	}
	return count, nil
}

func (r *fakeSpotRepo) UpdateStatus(ctx context.Context, id int, status domain.SpotStatus, bookedBy null.Int) error {
	spot, ok := r.spots[id]
	if !ok {
		return repository.ErrNotFound
	}
	spot.Status = status
	spot.BookedBy = bookedBy
	return nil
}

func (r *fakeSpotRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.spots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.spots, id)
	return nil
}

func (r *fakeSpotRepo) DeleteByLotID(ctx context.Context, lotID int) error {
	for id, spot := range r.spots {
		if spot.LotID == lotID {
			delete(r.spots, id)
		}
	}
	return nil
}

// --- reservation ---

type fakeReservationRepo struct {
	reservations map[int]*domain.Reservation
	nextID       int
	spotRepo     *fakeSpotRepo // để tra lot của spot trong các truy vấn theo bãi
}

func newFakeReservationRepo(spotRepo *fakeSpotRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[int]*domain.Reservation),
		nextID:       1,
		spotRepo:     spotRepo,
	}
}

func (r *fakeReservationRepo) sortedIDs() []int {
	ids := make([]int, 0, len(r.reservations))
	for id := range r.reservations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *fakeReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	res := *reservation
	res.ID = r.nextID
	r.nextID++
	r.reservations[res.ID] = &res
	copied := res
	return &copied, nil
}

func (r *fakeReservationRepo) FindByID(ctx context.Context, id int) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeReservationRepo) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for _, id := range r.sortedIDs() {
		reservations = append(reservations, *r.reservations[id])
	}
	return reservations, nil
}

func (r *fakeReservationRepo) FindByUserID(ctx context.Context, userID int) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for _, id := range r.sortedIDs() {
		if r.reservations[id].UserID == userID {
			reservations = append(reservations, *r.reservations[id])
		}
	}
	return reservations, nil
}

func (r *fakeReservationRepo) CountByUserAndLot(ctx context.Context, userID int, lotID int) (int, error) {
	count := 0
	for _, res := range r.reservations {
		spot, ok := r.spotRepo.spots[res.SpotID]
		if ok && res.UserID == userID && spot.LotID == lotID {
			count++
		}
	}
	return count, nil
}

func (r *fakeReservationRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reservations, id)
	return nil
}

func (r *fakeReservationRepo) DeleteBySpotAndUser(ctx context.Context, spotID int, userID int) error {
	for id, res := range r.reservations {
		if res.SpotID == spotID && res.UserID == userID {
			delete(r.reservations, id)
		}
	}
	return nil
}

func (r *fakeReservationRepo) DeleteByLotID(ctx context.Context, lotID int) error {
	for id, res := range r.reservations {
		if spot, ok := r.spotRepo.spots[res.SpotID]; ok && spot.LotID == lotID {
			delete(r.reservations, id)
		}
	}
	return nil
}
