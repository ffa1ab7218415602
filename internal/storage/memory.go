package storage

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"foxcarz-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Memory is the transient development backend. It lives for the process
// lifetime and is seeded with fixed sample data so the storefront works
// without a database.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]models.User
	admins    map[string]models.Admin
	vehicles  map[string]models.Vehicle
	locations map[string]models.Location
	bookings  map[string]models.Booking
	sessions  map[string]models.Session
	fcmTokens map[string]models.FCMToken // keyed by token
	now       func() time.Time
}

func NewMemory() *Memory {
	m := &Memory{
		users:     make(map[string]models.User),
		admins:    make(map[string]models.Admin),
		vehicles:  make(map[string]models.Vehicle),
		locations: make(map[string]models.Location),
		bookings:  make(map[string]models.Booking),
		sessions:  make(map[string]models.Session),
		fcmTokens: make(map[string]models.FCMToken),
		now:       time.Now,
	}
	m.seed()
	return m
}

func (m *Memory) seed() {
	adminPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	demoPassword, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	now := m.now().Unix()

	adminID := uuid.New().String()
	m.admins[adminID] = models.Admin{
		ID:        adminID,
		Name:      "Admin",
		Email:     "admin@foxcarz.com",
		Password:  string(adminPassword),
		CreatedAt: now,
	}

	demoPhone := "+919000000000"
	demoAddress := "Demo Address"
	userID := uuid.New().String()
	m.users[userID] = models.User{
		ID:        userID,
		Name:      "Demo User",
		Email:     "demo@foxcarz.com",
		Password:  string(demoPassword),
		Phone:     &demoPhone,
		Address:   &demoAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	vehicles := []models.Vehicle{
		{Name: "Maruti Suzuki Swift", Category: "hatchback", Image: "https://images.unsplash.com/photo-1619767886558-efdc259cde1a?w=800&q=80",
			Seats: 5, Transmission: "manual", FuelType: "petrol",
			HourlyRate: "54", DailyRate: "1488", WeeklyRate: "9500", Available: true,
			Features: []string{"Air Conditioning", "Power Steering", "Central Locking", "Music System"}},
		{Name: "Hyundai i20", Category: "hatchback", Image: "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?w=800&q=80",
			Seats: 5, Transmission: "automatic", FuelType: "petrol",
			HourlyRate: "62", DailyRate: "1688", WeeklyRate: "10800", Available: true,
			Features: []string{"Air Conditioning", "Automatic Transmission", "Touchscreen", "Bluetooth"}},
		{Name: "Maruti Baleno", Category: "sedan", Image: "https://images.unsplash.com/photo-1583121274602-3e2820c69888?w=800&q=80",
			Seats: 5, Transmission: "manual", FuelType: "petrol",
			HourlyRate: "58", DailyRate: "1588", WeeklyRate: "10200", Available: true,
			Features: []string{"Air Conditioning", "Power Windows", "ABS", "Airbags"}},
		{Name: "Honda City", Category: "sedan", Image: "https://images.unsplash.com/photo-1619405399517-d7fce0f13302?w=800&q=80",
			Seats: 5, Transmission: "automatic", FuelType: "petrol",
			HourlyRate: "75", DailyRate: "2088", WeeklyRate: "13500", Available: true,
			Features: []string{"Air Conditioning", "Automatic Climate Control", "Cruise Control", "Sunroof"}},
		{Name: "Mahindra Scorpio", Category: "suv", Image: "https://images.unsplash.com/photo-1533473359331-0135ef1b58bf?w=800&q=80",
			Seats: 7, Transmission: "manual", FuelType: "diesel",
			HourlyRate: "95", DailyRate: "2588", WeeklyRate: "16800", Available: true,
			Features: []string{"4WD", "7 Seater", "Air Conditioning", "Power Steering", "Music System"}},
		{Name: "Toyota Fortuner", Category: "suv", Image: "https://images.unsplash.com/photo-1519641471654-76ce0107ad1b?w=800&q=80",
			Seats: 7, Transmission: "automatic", FuelType: "diesel",
			HourlyRate: "125", DailyRate: "3488", WeeklyRate: "22500", Available: true,
			Features: []string{"4WD", "7 Seater", "Leather Seats", "Sunroof", "Premium Sound System"}},
		{Name: "Mercedes E-Class", Category: "luxury", Image: "https://images.unsplash.com/photo-1618843479313-40f8afb4b4d8?w=800&q=80",
			Seats: 5, Transmission: "automatic", FuelType: "petrol",
			HourlyRate: "180", DailyRate: "4988", WeeklyRate: "32500", Available: true,
			Features: []string{"Luxury Interior", "Automatic Climate Control", "Premium Sound", "Advanced Safety"}},
		{Name: "BMW 3 Series", Category: "luxury", Image: "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=800&q=80",
			Seats: 5, Transmission: "automatic", FuelType: "petrol",
			HourlyRate: "200", DailyRate: "5488", WeeklyRate: "35800", Available: false,
			Features: []string{"Sport Mode", "Leather Seats", "Panoramic Sunroof", "Premium Sound System"}},
		{Name: "Tata Nexon", Category: "suv", Image: "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?w=800&q=80",
			Seats: 5, Transmission: "manual", FuelType: "diesel",
			HourlyRate: "68", DailyRate: "1888", WeeklyRate: "12200", Available: true,
			Features: []string{"Air Conditioning", "Touchscreen", "Reverse Camera", "Airbags"}},
	}
	for _, v := range vehicles {
		v.ID = uuid.New().String()
		m.vehicles[v.ID] = v
	}

	locations := []models.Location{
		{Name: "Kukatpally Branch", Address: "KPHB Main Road, Hyderabad", City: "Hyderabad", Phone: "+91 9000478478"},
		{Name: "Madhapur Branch", Address: "HITEC City, Madhapur, Hyderabad", City: "Hyderabad", Phone: "+91 9000478479"},
		{Name: "Dilsukhnagar Branch", Address: "Chaitanyapuri Main Road, Dilsukhnagar, Hyderabad", City: "Hyderabad", Phone: "+91 9000478480"},
		{Name: "Uppal Branch", Address: "Uppal Medipally Road, Uppal, Hyderabad", City: "Hyderabad", Phone: "+91 9000478481"},
	}
	for _, l := range locations {
		l.ID = uuid.New().String()
		m.locations[l.ID] = l
	}
}

// Users

func (m *Memory) ListUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt > users[j].CreatedAt })
	return users, nil
}

func (m *Memory) GetUser(id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(u models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, ErrDuplicateEmail
		}
	}
	u.ID = uuid.New().String()
	u.CreatedAt = m.now().Unix()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return &u, nil
}

func (m *Memory) UpdateUser(id string, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, ErrDuplicateEmail
			}
		}
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.ProfilePicture != nil {
		u.ProfilePicture = upd.ProfilePicture
	}
	u.UpdatedAt = m.now().Unix()
	m.users[id] = u
	return &u, nil
}

func (m *Memory) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	// Bookings survive account deletion; only the account link is cleared.
	for bid, b := range m.bookings {
		if b.UserID != nil && *b.UserID == id {
			b.UserID = nil
			m.bookings[bid] = b
		}
	}
	return nil
}

// Admins

func (m *Memory) GetAdmin(id string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) GetAdminByEmail(email string) (*models.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateAdmin(a models.Admin) (*models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.Email == a.Email {
			return nil, ErrDuplicateEmail
		}
	}
	a.ID = uuid.New().String()
	a.CreatedAt = m.now().Unix()
	m.admins[a.ID] = a
	return &a, nil
}

// Vehicles

func (m *Memory) ListVehicles(category string) ([]models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vehicles := make([]models.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if category != "" && v.Category != category {
			continue
		}
		vehicles = append(vehicles, v)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].Name < vehicles[j].Name })
	return vehicles, nil
}

func (m *Memory) GetVehicle(id string) (*models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *Memory) CreateVehicle(v models.Vehicle) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = uuid.New().String()
	if v.Features == nil {
		v.Features = []string{}
	}
	m.vehicles[v.ID] = v
	return &v, nil
}

func (m *Memory) UpdateVehicle(id string, upd models.UpdateVehicleRequest) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		v.Name = *upd.Name
	}
	if upd.Category != nil {
		v.Category = *upd.Category
	}
	if upd.Image != nil {
		v.Image = *upd.Image
	}
	if upd.Seats != nil {
		v.Seats = *upd.Seats
	}
	if upd.Transmission != nil {
		v.Transmission = *upd.Transmission
	}
	if upd.FuelType != nil {
		v.FuelType = *upd.FuelType
	}
	if upd.HourlyRate != nil {
		v.HourlyRate = *upd.HourlyRate
	}
	if upd.DailyRate != nil {
		v.DailyRate = *upd.DailyRate
	}
	if upd.WeeklyRate != nil {
		v.WeeklyRate = *upd.WeeklyRate
	}
	if upd.Available != nil {
		v.Available = *upd.Available
	}
	if upd.Features != nil {
		v.Features = upd.Features
	}
	m.vehicles[id] = v
	return &v, nil
}

func (m *Memory) DeleteVehicle(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(m.vehicles, id)
	return nil
}

// Locations

func (m *Memory) ListLocations() ([]models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	locations := make([]models.Location, 0, len(m.locations))
	for _, l := range m.locations {
		locations = append(locations, l)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return locations, nil
}

func (m *Memory) GetLocation(id string) (*models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *Memory) CreateLocation(l models.Location) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New().String()
	m.locations[l.ID] = l
	return &l, nil
}

// Bookings

func (m *Memory) ListBookings() ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bookings := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt > bookings[j].CreatedAt })
	return bookings, nil
}

func (m *Memory) GetBooking(id string) (*models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) CreateBooking(b models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New().String()
	b.CreatedAt = m.now().Unix()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = b
	return &b, nil
}

func (m *Memory) ListUserBookings(userID, phone string) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var bookings []models.Booking
	for _, b := range m.bookings {
		if (userID != "" && b.UserID != nil && *b.UserID == userID) ||
			(phone != "" && b.CustomerPhone == phone) {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].StartDate > bookings[j].StartDate })
	return bookings, nil
}

func (m *Memory) MarkBookingPaid(id, amount string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.PaymentStatus != models.PaymentPending || b.Status != models.BookingPending {
		return nil, ErrConflict
	}
	b.AdvancePayment = &amount
	b.PaymentStatus = models.PaymentPaid
	b.Status = models.BookingConfirmed
	b.UpdatedAt = m.now().Unix()
	m.bookings[id] = b
	return &b, nil
}

func (m *Memory) CancelBooking(id, refundStatus string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status == models.BookingCancelled {
		return nil, ErrConflict
	}
	b.Status = models.BookingCancelled
	b.RefundStatus = &refundStatus
	b.UpdatedAt = m.now().Unix()
	m.bookings[id] = b
	return &b, nil
}

// Sessions

func (m *Memory) CreateSession(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) GetSession(id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok || s.ExpiresAt < m.now().Unix() {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) DeleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *Memory) DeleteIdentitySessions(identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.IdentityID == identityID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// FCM tokens

func (m *Memory) SaveFCMToken(t models.FCMToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = m.now().Unix()
	m.fcmTokens[t.Token] = t
	return nil
}

func (m *Memory) ListFCMTokens() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tokens := make([]string, 0, len(m.fcmTokens))
	for t := range m.fcmTokens {
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Reports

func (m *Memory) BookingStats(start, end int64) (int, float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int
	var total float64
	for _, b := range m.bookings {
		if b.CreatedAt < start || b.CreatedAt > end {
			continue
		}
		count++
		if v, err := strconv.ParseFloat(b.TotalCost, 64); err == nil {
			total += v
		}
	}
	return count, total, nil
}

func (m *Memory) RevenueSeries(period string, start, end int64) ([]RevenuePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buckets := make(map[int64]float64)
	for _, b := range m.bookings {
		if b.CreatedAt < start || b.CreatedAt > end {
			continue
		}
		amount, err := strconv.ParseFloat(b.TotalCost, 64)
		if err != nil {
			continue
		}
		buckets[truncateBucket(period, b.CreatedAt)] += amount
	}
	points := make([]RevenuePoint, 0, len(buckets))
	for bucket, amount := range buckets {
		points = append(points, RevenuePoint{Bucket: bucket, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket < points[j].Bucket })
	return points, nil
}

// truncateBucket mirrors the postgres DATE_TRUNC grouping: daily and monthly
// reports bucket by day, weekly by ISO week start, yearly by month.
func truncateBucket(period string, ts int64) int64 {
	t := time.Unix(ts, 0).UTC()
	switch period {
	case "weekly":
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // DATE_TRUNC('week') starts on Monday
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -(weekday - 1)).Unix()
	case "yearly":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Unix()
	default: // daily, monthly
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix()
	}
}
