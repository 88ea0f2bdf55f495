package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/venue-booking/internal/cache"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

func ptr[T any](v T) *T { return &v }

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	venues          map[string]*models.Venue
	services        map[string]*models.Service
	users           map[string]*models.User
	cards           map[string]*models.CreditCard
	venueHolidays   []models.VenueHoliday
	serviceHolidays []models.ServiceHoliday

	bookings map[string]models.Booking
	order    []string
	payments []models.Payment

	locked []string

	// hooks used to simulate a concurrent writer
	beforeDepositCAS   func(b *models.Booking)
	beforeRemainingCAS func(b *models.Booking)
	beforePaymentCAS   func(p *models.Payment)
	failCreatePayment  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		venues:   map[string]*models.Venue{},
		services: map[string]*models.Service{},
		users:    map[string]*models.User{},
		cards:    map[string]*models.CreditCard{},
		bookings: map[string]models.Booking{},
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

type fakeSnapshot struct {
	bookings map[string]models.Booking
	order    []string
	payments []models.Payment
	clients  map[string]int
}

func (r *fakeRepo) snapshot() fakeSnapshot {
	s := fakeSnapshot{
		bookings: make(map[string]models.Booking, len(r.bookings)),
		order:    append([]string(nil), r.order...),
		payments: append([]models.Payment(nil), r.payments...),
		clients:  map[string]int{},
	}
	for k, v := range r.bookings {
		s.bookings[k] = v
	}
	for id, v := range r.venues {
		s.clients[id] = v.Clients
	}
	return s
}

func (r *fakeRepo) restore(s fakeSnapshot) {
	r.bookings = s.bookings
	r.order = s.order
	r.payments = s.payments
	for id, n := range s.clients {
		r.venues[id].Clients = n
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(repo domain.Repository) error) error {
	snap := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

func (r *fakeRepo) addVenue(v models.Venue) *models.Venue {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	r.venues[v.ID] = &v
	return &v
}

func (r *fakeRepo) addService(s models.Service) *models.Service {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.services[s.ID] = &s
	return &s
}

func (r *fakeRepo) GetVenue(_ context.Context, id string) (*models.Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeRepo) LockVenue(_ context.Context, id string) error {
	if _, ok := r.venues[id]; !ok {
		return domain.ErrNotFound
	}
	r.locked = append(r.locked, id)
	return nil
}

func (r *fakeRepo) IncrementVenueClients(_ context.Context, id string) error {
	v, ok := r.venues[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Clients++
	return nil
}

func (r *fakeRepo) ListVenueHolidays(_ context.Context, venueID string) ([]models.VenueHoliday, error) {
	var out []models.VenueHoliday
	for _, h := range r.venueHolidays {
		if h.VenueID == venueID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListVenueBookings(
	_ context.Context,
	venueID string,
	dayStart time.Time,
	dayEnd time.Time,
	excludeID string,
) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.VenueID == nil || *b.VenueID != venueID || b.ID == excludeID {
			continue
		}
		if b.Status == string(domain.StatusCancelled) {
			continue
		}
		if b.Date.Before(dayStart) || !b.Date.Before(dayEnd) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ListServiceHolidays(_ context.Context, serviceID string) ([]models.ServiceHoliday, error) {
	var out []models.ServiceHoliday
	for _, h := range r.serviceHolidays {
		if h.ServiceID == serviceID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListServiceSlots(
	_ context.Context,
	serviceID string,
	dayStart time.Time,
	dayEnd time.Time,
) ([]domain.ServiceSlot, error) {
	var out []domain.ServiceSlot
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Status == string(domain.StatusCancelled) {
			continue
		}
		for _, item := range b.Services {
			if item.ServiceID != serviceID {
				continue
			}
			day := b.Date
			if item.Date != nil {
				day = *item.Date
			}
			if day.Before(dayStart) || !day.Before(dayEnd) {
				continue
			}
			out = append(out, domain.ServiceSlot{
				BookingID:    b.ID,
				Start:        item.StartTime,
				End:          item.EndTime,
				BookingStart: b.StartTime,
				BookingEnd:   b.EndTime,
			})
		}
	}
	return out, nil
}

func (r *fakeRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetCard(_ context.Context, id string) (*models.CreditCard, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	for i := range b.Services {
		if b.Services[i].ID == "" {
			b.Services[i].ID = uuid.NewString()
		}
		b.Services[i].BookingID = b.ID
	}
	stored := *b
	stored.Services = append([]models.BookingService(nil), b.Services...)
	stored.Payments = nil
	r.bookings[b.ID] = stored
	r.order = append(r.order, b.ID)
	return nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.Services = append([]models.BookingService(nil), b.Services...)
	for _, p := range r.payments {
		if p.BookingID == id {
			b.Payments = append(b.Payments, p)
		}
	}
	return &b, nil
}

func (r *fakeRepo) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, int64, error) {
	var matched []models.Booking
	for i := len(r.order) - 1; i >= 0; i-- {
		b := r.bookings[r.order[i]]
		if f.CustomerID != "" && b.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && b.Status != string(f.Status) {
			continue
		}
		matched = append(matched, b)
	}

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.Booking{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *fakeRepo) SaveSchedule(_ context.Context, b *models.Booking) error {
	stored, ok := r.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Date = b.Date
	stored.StartTime = b.StartTime
	stored.EndTime = b.EndTime
	stored.TotalAmount = b.TotalAmount
	stored.Discount = b.Discount
	stored.FinalAmount = b.FinalAmount
	stored.DepositAmount = b.DepositAmount
	stored.RemainingAmount = b.RemainingAmount
	stored.Notes = b.Notes
	r.bookings[b.ID] = stored
	return nil
}

func (r *fakeRepo) MarkDepositPaid(_ context.Context, id string, method *string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if r.beforeDepositCAS != nil {
		r.beforeDepositCAS(&b)
	}
	if b.DepositPaid {
		r.bookings[id] = b
		return false, nil
	}
	b.DepositPaid = true
	if method != nil {
		b.PaymentMethod = method
	}
	r.bookings[id] = b
	return true, nil
}

func (r *fakeRepo) MarkRemainingPaid(_ context.Context, id string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if r.beforeRemainingCAS != nil {
		r.beforeRemainingCAS(&b)
	}
	if !b.DepositPaid || b.RemainingPaid {
		r.bookings[id] = b
		return false, nil
	}
	b.RemainingPaid = true
	b.PaymentStatus = domain.PaymentPaid
	r.bookings[id] = b
	return true, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, from, to domain.Status) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if b.Status != string(from) {
		return false, nil
	}
	b.Status = string(to)
	r.bookings[id] = b
	return true, nil
}

func (r *fakeRepo) MarkRefunded(_ context.Context, id string) error {
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = string(domain.StatusCancelled)
	b.PaymentStatus = domain.PaymentRefunded
	r.bookings[id] = b
	return nil
}

func (r *fakeRepo) CreatePayment(_ context.Context, p *models.Payment) error {
	if r.failCreatePayment != nil {
		return r.failCreatePayment
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakeRepo) LatestPaidPayment(_ context.Context, bookingID string) (*models.Payment, error) {
	for i := len(r.payments) - 1; i >= 0; i-- {
		p := r.payments[i]
		if p.BookingID == bookingID && p.Status == domain.PaymentPaid {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpdatePaymentStatus(_ context.Context, paymentID, from, to string) (bool, error) {
	for i := range r.payments {
		if r.payments[i].ID != paymentID {
			continue
		}
		if r.beforePaymentCAS != nil {
			r.beforePaymentCAS(&r.payments[i])
		}
		if r.payments[i].Status != from {
			return false, nil
		}
		r.payments[i].Status = to
		return true, nil
	}
	return false, domain.ErrNotFound
}

func (r *fakeRepo) stored(id string) models.Booking {
	return r.bookings[id]
}

func (r *fakeRepo) paymentsOf(bookingID string) []models.Payment {
	var out []models.Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out
}

// ======================================================
// FAKE GATEWAY
// ======================================================

type fakeGateway struct {
	charges []payment.ChargeRequest
	refunds []string
	decline   bool
	refundErr error
	seq       int
}

func (g *fakeGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	if g.decline {
		return nil, payment.ErrDeclined
	}
	g.seq++
	g.charges = append(g.charges, req)
	return &payment.Charge{TransactionID: fmt.Sprintf("tx_%d", g.seq), Status: "approved"}, nil
}

func (g *fakeGateway) Refund(_ context.Context, transactionID string) error {
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, transactionID)
	return nil
}

// ======================================================
// FAKE CACHE
// ======================================================

type fakeCache struct {
	items   map[string][]byte
	deleted []string
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) error {
	c.gets++
	raw, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

// ======================================================
// FIXTURES
// ======================================================

type fixture struct {
	repo    *fakeRepo
	gateway *fakeGateway
	cache   *fakeCache

	customer *models.User
	admin    *models.User
	card     *models.CreditCard
}

func newFixture() *fixture {
	repo := newFakeRepo()

	customer := &models.User{ID: "cust-1", Name: "Layla", Email: "layla@example.com", Role: models.RoleCustomer, IsActive: true}
	other := &models.User{ID: "cust-2", Name: "Omar", Email: "omar@example.com", Role: models.RoleCustomer, IsActive: true}
	admin := &models.User{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	repo.users[customer.ID] = customer
	repo.users[other.ID] = other
	repo.users[admin.ID] = admin

	card := &models.CreditCard{
		ID:           "card-1",
		UserID:       customer.ID,
		Brand:        "visa",
		Last4:        "4242",
		GatewayToken: "tok_visa",
		IsActive:     true,
	}
	repo.cards[card.ID] = card

	return &fixture{
		repo:     repo,
		gateway:  &fakeGateway{},
		cache:    newFakeCache(),
		customer: customer,
		admin:    admin,
		card:     card,
	}
}

func (f *fixture) creator() *CreateBooking {
	return NewCreateBooking(f.repo, f.gateway, "BRL", f.cache, nil)
}

func (f *fixture) customerActor() Actor {
	return Actor{ID: f.customer.ID, Role: f.customer.Role}
}

func (f *fixture) adminActor() Actor {
	return Actor{ID: f.admin.ID, Role: f.admin.Role}
}

// venueBooking creates a venue booking on 2026-06-01 for the customer.
func (f *fixture) venueBooking(t *testing.T, venueID, start, end string, cardID *string) *models.Booking {
	t.Helper()
	res, err := f.creator().Execute(context.Background(), CreateBookingInput{
		CustomerID: f.customer.ID,
		VenueID:    &venueID,
		Date:       "2026-06-01",
		StartTime:  &start,
		EndTime:    &end,
		CardID:     cardID,
	})
	if err != nil {
		t.Fatalf("create booking %s-%s: %v", start, end, err)
	}
	return res.Booking
}
