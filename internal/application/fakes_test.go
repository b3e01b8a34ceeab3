package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hotelbooking/service-booking/internal/domain/amenity"
	bookingDomain "github.com/hotelbooking/service-booking/internal/domain/booking"
	"github.com/hotelbooking/service-booking/internal/domain/catalog"
	roomDomain "github.com/hotelbooking/service-booking/internal/domain/room"
	"github.com/hotelbooking/service-booking/internal/domain/servicerequest"
	"github.com/hotelbooking/service-booking/internal/platform/apperror"
	"github.com/hotelbooking/service-booking/internal/platform/kafka"
)

func fixedClock(day string) Clock {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(10 * time.Hour) }
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

// eventTypes returns the types of every published event, in order.
func (m *mockPublisher) eventTypes() []string {
	var out []string
	for _, c := range m.Calls {
		if c.Method == "PublishEvent" {
			out = append(out, c.Arguments.Get(2).(kafka.CloudEvent).Type)
		}
	}
	return out
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*roomDomain.Room
	calls int
	// hasBookings reports whether a room is referenced by bookings.
	hasBookings func(uuid.UUID) bool
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[uuid.UUID]*roomDomain.Room{}}
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	r, ok := f.rooms[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Room", id.String())
	}
	return r, nil
}

func (f *fakeRoomRepo) FindByNumber(_ context.Context, number int) (*roomDomain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.Number() == number {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRoomRepo) List(_ context.Context) ([]*roomDomain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]*roomDomain.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out, nil
}

func (f *fakeRoomRepo) FindByCapacity(ctx context.Context, adults, children int) ([]*roomDomain.Room, error) {
	all, _ := f.List(ctx)
	var out []*roomDomain.Room
	for _, r := range all {
		if r.Fits(adults, children) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) Save(_ context.Context, r *roomDomain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[r.ID()] = r
	return nil
}

func (f *fakeRoomRepo) Update(_ context.Context, r *roomDomain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[r.ID()]; !ok {
		return apperror.NewNotFoundError("Room", r.ID().String())
	}
	f.rooms[r.ID()] = r
	return nil
}

func (f *fakeRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return apperror.NewNotFoundError("Room", id.String())
	}
	if f.hasBookings != nil && f.hasBookings(id) {
		return apperror.NewValidationError("Cannot delete a room that has bookings")
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) add(number int, price int64, adults, children int) *roomDomain.Room {
	r, err := roomDomain.NewRoom(number, price, adults, children)
	if err != nil {
		panic(err)
	}
	f.rooms[r.ID()] = r
	return r
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	deleted  []uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*bookingDomain.Booking{}}
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bk, ok := f.bookings[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Booking", id.String())
	}
	copied := *bk
	return &copied, nil
}

func (f *fakeBookingRepo) List(_ context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*bookingDomain.Booking
	for _, bk := range f.bookings {
		if filter.UserID != "" && bk.UserID() != filter.UserID {
			continue
		}
		if q := strings.ToLower(filter.Page.Search); q != "" &&
			!strings.Contains(strings.ToLower(bk.Guest().FullName()), q) &&
			!strings.Contains(strings.ToLower(string(bk.Status())), q) {
			continue
		}
		matched = append(matched, bk)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Guest().LastName < matched[j].Guest().LastName })

	total := int64(len(matched))
	start := filter.Page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeBookingRepo) occupancies() []bookingDomain.Occupancy {
	out := make([]bookingDomain.Occupancy, 0, len(f.bookings))
	for _, bk := range f.bookings {
		out = append(out, bk.Occupancy())
	}
	return out
}

func (f *fakeBookingRepo) FindOccupancies(_ context.Context, stay bookingDomain.Stay) ([]bookingDomain.Occupancy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []bookingDomain.Occupancy
	for _, o := range f.occupancies() {
		if o.Blocks(stay) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByStatus(_ context.Context) (map[bookingDomain.BookingStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[bookingDomain.BookingStatus]int64{}
	for _, bk := range f.bookings {
		counts[bk.Status()]++
	}
	return counts, nil
}

func (f *fakeBookingRepo) CreateIfAvailable(_ context.Context, bk *bookingDomain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, conflict := bookingDomain.FindConflict(f.occupancies(), bk.RoomID(), bk.Stay(), bk.ID()); conflict {
		return bookingDomain.ErrRoomUnavailable
	}
	copied := *bk
	f.bookings[bk.ID()] = &copied
	return nil
}

func (f *fakeBookingRepo) UpdateIfAvailable(_ context.Context, bk *bookingDomain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkVersion(bk); err != nil {
		return err
	}
	if bk.Status().IsActive() {
		if _, conflict := bookingDomain.FindConflict(f.occupancies(), bk.RoomID(), bk.Stay(), bk.ID()); conflict {
			return bookingDomain.ErrRoomUnavailable
		}
	}
	copied := *bk
	f.bookings[bk.ID()] = &copied
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, bk *bookingDomain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkVersion(bk); err != nil {
		return err
	}
	copied := *bk
	f.bookings[bk.ID()] = &copied
	return nil
}

func (f *fakeBookingRepo) checkVersion(bk *bookingDomain.Booking) error {
	stored, ok := f.bookings[bk.ID()]
	if !ok {
		return apperror.NewNotFoundError("Booking", bk.ID().String())
	}
	if stored.Version() != bk.Version()-1 {
		return apperror.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return apperror.NewNotFoundError("Booking", id.String())
	}
	delete(f.bookings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBookingRepo) hasBookingsFor(roomID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, bk := range f.bookings {
		if bk.RoomID() == roomID {
			return true
		}
	}
	return false
}

type fakeCatalogRepo struct {
	kind    catalog.Kind
	entries map[uuid.UUID]*catalog.Entry
}

func newFakeCatalogRepo(kind catalog.Kind) *fakeCatalogRepo {
	return &fakeCatalogRepo{kind: kind, entries: map[uuid.UUID]*catalog.Entry{}}
}

func (f *fakeCatalogRepo) Kind() catalog.Kind { return f.kind }

func (f *fakeCatalogRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, apperror.NewNotFoundError(f.kind.Resource(), id.String())
	}
	return e, nil
}

func (f *fakeCatalogRepo) FindByName(_ context.Context, name string) (*catalog.Entry, error) {
	for _, e := range f.entries {
		if strings.EqualFold(e.Name(), name) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) List(_ context.Context, activeOnly bool) ([]*catalog.Entry, error) {
	var out []*catalog.Entry
	for _, e := range f.entries {
		if activeOnly && !e.Active() {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (f *fakeCatalogRepo) Save(_ context.Context, e *catalog.Entry) error {
	f.entries[e.ID()] = e
	return nil
}

func (f *fakeCatalogRepo) Update(_ context.Context, e *catalog.Entry) error {
	f.entries[e.ID()] = e
	return nil
}

func (f *fakeCatalogRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.entries[id]; !ok {
		return apperror.NewNotFoundError(f.kind.Resource(), id.String())
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeCatalogRepo) add(name string, active bool) *catalog.Entry {
	e, err := catalog.NewEntry(f.kind, name, "", active)
	if err != nil {
		panic(err)
	}
	f.entries[e.ID()] = e
	return e
}

type fakeAmenityRepo struct {
	items map[uuid.UUID]*amenity.RoomAmenity
}

func newFakeAmenityRepo() *fakeAmenityRepo {
	return &fakeAmenityRepo{items: map[uuid.UUID]*amenity.RoomAmenity{}}
}

func (f *fakeAmenityRepo) FindByID(_ context.Context, id uuid.UUID) (*amenity.RoomAmenity, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Room amenity", id.String())
	}
	return a, nil
}

func (f *fakeAmenityRepo) List(_ context.Context) ([]*amenity.RoomAmenity, error) {
	var out []*amenity.RoomAmenity
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAmenityRepo) ListByRoom(_ context.Context, roomID uuid.UUID) ([]*amenity.RoomAmenity, error) {
	var out []*amenity.RoomAmenity
	for _, a := range f.items {
		if a.RoomID() == roomID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAmenityRepo) Save(_ context.Context, a *amenity.RoomAmenity) error {
	for _, existing := range f.items {
		if existing.RoomID() == a.RoomID() && existing.AmenityTypeID() == a.AmenityTypeID() {
			return apperror.NewConflictError("Room already has this amenity")
		}
	}
	f.items[a.ID()] = a
	return nil
}

func (f *fakeAmenityRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return apperror.NewNotFoundError("Room amenity", id.String())
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAmenityRepo) DeleteByRoom(_ context.Context, roomID uuid.UUID) (int64, error) {
	var n int64
	for id, a := range f.items {
		if a.RoomID() == roomID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

type fakeServiceRequestRepo struct {
	items map[uuid.UUID]*servicerequest.ServiceRequest
}

func newFakeServiceRequestRepo() *fakeServiceRequestRepo {
	return &fakeServiceRequestRepo{items: map[uuid.UUID]*servicerequest.ServiceRequest{}}
}

func (f *fakeServiceRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*servicerequest.ServiceRequest, error) {
	sr, ok := f.items[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Room service", id.String())
	}
	return sr, nil
}

func (f *fakeServiceRequestRepo) List(_ context.Context) ([]*servicerequest.ServiceRequest, error) {
	var out []*servicerequest.ServiceRequest
	for _, sr := range f.items {
		out = append(out, sr)
	}
	return out, nil
}

func (f *fakeServiceRequestRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*servicerequest.ServiceRequest, error) {
	var out []*servicerequest.ServiceRequest
	for _, sr := range f.items {
		if sr.BookingID() == bookingID {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (f *fakeServiceRequestRepo) Save(_ context.Context, sr *servicerequest.ServiceRequest) error {
	f.items[sr.ID()] = sr
	return nil
}

func (f *fakeServiceRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return apperror.NewNotFoundError("Room service", id.String())
	}
	delete(f.items, id)
	return nil
}

func (f *fakeServiceRequestRepo) DeleteByBooking(_ context.Context, bookingID uuid.UUID) (int64, error) {
	var n int64
	for id, sr := range f.items {
		if sr.BookingID() == bookingID {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}
