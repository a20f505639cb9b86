package booking

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/scheduling"
)

// In-memory fakes mirroring the store semantics: occupying writes are
// conditional, approval flips the status and inserts atomically.

type fakeRequests struct {
	mu sync.Mutex
	m  map[string]models.BookingRequest
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{m: make(map[string]models.BookingRequest)}
}

func (r *fakeRequests) Create(_ context.Context, req *models.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[req.ID] = *req
	return nil
}

func (r *fakeRequests) GetByID(_ context.Context, id string) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.m[id]
	if !ok {
		return nil, &models.NotFoundError{Kind: "request", ID: id}
	}
	out := req
	return &out, nil
}

func (r *fakeRequests) ListByStatus(_ context.Context, status models.RequestStatus) ([]models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingRequest
	for _, req := range r.m {
		if req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequests) List(_ context.Context) ([]models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BookingRequest, 0, len(r.m))
	for _, req := range r.m {
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequests) Transition(_ context.Context, id string, from, to models.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.m[id]
	if !ok {
		return &models.NotFoundError{Kind: "request", ID: id}
	}
	if req.Status != from {
		return &models.StateError{ID: id, Status: req.Status}
	}
	req.Status = to
	r.m[id] = req
	return nil
}

func (r *fakeRequests) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return &models.NotFoundError{Kind: "request", ID: id}
	}
	delete(r.m, id)
	return nil
}

func (r *fakeRequests) Changes(context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)
	return ch, nil
}

type fakeAppointments struct {
	mu sync.Mutex
	m  map[string]models.Appointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{m: make(map[string]models.Appointment)}
}

func (r *fakeAppointments) occupiedLocked(date models.Date, timeLabel, excludeID string) bool {
	for _, a := range r.m {
		if a.ID != excludeID && a.Date == date && a.Time == timeLabel {
			return true
		}
	}
	return false
}

func (r *fakeAppointments) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.occupiedLocked(appt.Date, appt.Time, "") {
		return &models.ConflictError{Date: appt.Date, Time: appt.Time}
	}
	r.m[appt.ID] = *appt
	return nil
}

func (r *fakeAppointments) Update(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[appt.ID]; !ok {
		return &models.NotFoundError{Kind: "appointment", ID: appt.ID}
	}
	if r.occupiedLocked(appt.Date, appt.Time, appt.ID) {
		return &models.ConflictError{Date: appt.Date, Time: appt.Time}
	}
	r.m[appt.ID] = *appt
	return nil
}

func (r *fakeAppointments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return &models.NotFoundError{Kind: "appointment", ID: id}
	}
	delete(r.m, id)
	return nil
}

func (r *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.m[id]
	if !ok {
		return nil, &models.NotFoundError{Kind: "appointment", ID: id}
	}
	out := a
	return &out, nil
}

func (r *fakeAppointments) ListByDate(_ context.Context, date models.Date) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.m {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointments) List(_ context.Context) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Appointment, 0, len(r.m))
	for _, a := range r.m {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointments) Changes(context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)
	return ch, nil
}

// fakeScheduler performs the approval atomically across both fakes, the way
// the store transaction does.
type fakeScheduler struct {
	requests     *fakeRequests
	appointments *fakeAppointments
}

func (s *fakeScheduler) Approve(_ context.Context, requestID string, appt *models.Appointment) error {
	s.requests.mu.Lock()
	defer s.requests.mu.Unlock()
	s.appointments.mu.Lock()
	defer s.appointments.mu.Unlock()

	req, ok := s.requests.m[requestID]
	if !ok {
		return &models.NotFoundError{Kind: "request", ID: requestID}
	}
	if req.Status != models.StatusPending {
		return &models.StateError{ID: requestID, Status: req.Status}
	}
	if s.appointments.occupiedLocked(appt.Date, appt.Time, "") {
		return &models.ConflictError{Date: appt.Date, Time: appt.Time}
	}

	req.Status = models.StatusApproved
	s.requests.m[requestID] = req
	s.appointments.m[appt.ID] = *appt
	return nil
}

type fakeArchiver struct {
	mu  sync.Mutex
	ids []string
}

func (a *fakeArchiver) ScheduleArchive(requestID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, requestID)
	return nil
}

type testEnv struct {
	svc          *DefaultBookingService
	requests     *fakeRequests
	appointments *fakeAppointments
	archiver     *fakeArchiver
}

func newTestEnv() *testEnv {
	reqs := newFakeRequests()
	appts := newFakeAppointments()
	archiver := &fakeArchiver{}
	svc := &DefaultBookingService{
		Requests:     reqs,
		Appointments: appts,
		Scheduler:    &fakeScheduler{requests: reqs, appointments: appts},
		Schedule:     scheduling.NewHolder(models.DefaultScheduleConfig()),
		Archiver:     archiver,
		Logger:       zap.NewNop(),
	}
	return &testEnv{svc: svc, requests: reqs, appointments: appts, archiver: archiver}
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// 2025-08-18 is a Monday; the default week table offers 10:00, 13:00, 17:00.
func validSubmit(t *testing.T) SubmitInput {
	return SubmitInput{
		ServiceTitle: "Corte Feminino",
		Client:       "Maria Silva",
		Phone:        "(11) 98765-4321",
		Date:         mustDate(t, "2025-08-18"),
		Time:         "10:00",
	}
}

func TestSubmitRequest(t *testing.T) {
	env := newTestEnv()

	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, "Corte Feminino", req.Title)

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSubmitRequestAllowsOccupiedSlot(t *testing.T) {
	env := newTestEnv()
	in := validSubmit(t)

	_, err := env.svc.CreateAppointment(context.Background(), AppointmentInput{
		ServiceTitle: in.ServiceTitle, Client: "Other", Phone: "11987654321",
		Date: in.Date, Time: in.Time, Public: true,
	})
	require.NoError(t, err)

	// Submission does not consult occupancy; the conflict surfaces at
	// approval.
	req, err := env.svc.SubmitRequest(context.Background(), in)
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestSubmitRequestValidation(t *testing.T) {
	env := newTestEnv()

	cases := map[string]struct {
		mutate func(*SubmitInput)
		field  string
	}{
		"missing title":   {func(in *SubmitInput) { in.ServiceTitle = "  " }, "title"},
		"missing client":  {func(in *SubmitInput) { in.Client = "" }, "client"},
		"missing phone":   {func(in *SubmitInput) { in.Phone = "" }, "phone"},
		"short phone":     {func(in *SubmitInput) { in.Phone = "123456789" }, "phone"},
		"long phone":      {func(in *SubmitInput) { in.Phone = "123456789012" }, "phone"},
		"missing date":    {func(in *SubmitInput) { in.Date = models.Date{} }, "date"},
		"missing time":    {func(in *SubmitInput) { in.Time = "" }, "time"},
		"unoffered time":  {func(in *SubmitInput) { in.Time = "11:30" }, "time"},
		"closed sunday":   {func(in *SubmitInput) { in.Date = mustDate(t, "2025-08-17") }, "time"},
		"malformed label": {func(in *SubmitInput) { in.Time = "10h00" }, "time"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validSubmit(t)
			tc.mutate(&in)

			_, err := env.svc.SubmitRequest(context.Background(), in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestApproveRequest(t *testing.T) {
	env := newTestEnv()
	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)

	appt, err := env.svc.ApproveRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, appt.Public, "approved requests become public appointments")
	assert.Equal(t, req.Date, appt.Date)
	assert.Equal(t, req.Time, appt.Time)
	assert.Equal(t, req.Client, appt.Client)

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)

	assert.Equal(t, []string{req.ID}, env.archiver.ids)
}

func TestApproveRequestNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ApproveRequest(context.Background(), "nope")
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestApproveRequestTwice(t *testing.T) {
	env := newTestEnv()
	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	var state *models.StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, models.StatusApproved, state.Status)

	appts, err := env.appointments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, appts, 1, "second approval must not book again")
}

func TestApproveRequestAfterScheduleChange(t *testing.T) {
	env := newTestEnv()
	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)

	// The new schedule no longer offers 10:00 on Mondays.
	env.svc.Schedule.Swap(models.ScheduleConfig{
		Mode: models.ScheduleModeWeek,
		Week: map[int][]string{1: {"14:00"}},
	})

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status, "failed approval leaves the request pending")
}

func TestApproveRequestConflictLeavesRequestPending(t *testing.T) {
	env := newTestEnv()
	in := validSubmit(t)

	req, err := env.svc.SubmitRequest(context.Background(), in)
	require.NoError(t, err)

	_, err = env.svc.CreateAppointment(context.Background(), AppointmentInput{
		ServiceTitle: "Walk-in", Client: "Ana", Phone: "11912345678",
		Date: in.Date, Time: in.Time, Public: true,
	})
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	appts, err := env.appointments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestConcurrentApprovalsSameSlot(t *testing.T) {
	env := newTestEnv()
	in := validSubmit(t)

	const competitors = 8
	ids := make([]string, competitors)
	for i := range ids {
		req, err := env.svc.SubmitRequest(context.Background(), in)
		require.NoError(t, err)
		ids[i] = req.ID
	}

	errs := make([]error, competitors)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.svc.ApproveRequest(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *models.ConflictError
		if assert.ErrorAs(t, err, &conflict) {
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one approval wins the slot")
	assert.Equal(t, competitors-1, conflicted)

	appts, err := env.appointments.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestRandomCreateApproveNeverDoubleBooks(t *testing.T) {
	env := newTestEnv()
	day := mustDate(t, "2025-08-18")
	slots := []string{"10:00", "13:00", "17:00"}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		slot := slots[rng.Intn(len(slots))]
		in := validSubmit(t)
		in.Time = slot

		if rng.Intn(2) == 0 {
			_, err := env.svc.CreateAppointment(context.Background(), AppointmentInput{
				ServiceTitle: in.ServiceTitle, Client: in.Client, Phone: in.Phone,
				Date: in.Date, Time: in.Time, Public: true,
			})
			if err != nil {
				var conflict *models.ConflictError
				require.ErrorAs(t, err, &conflict)
			}
			continue
		}

		req, err := env.svc.SubmitRequest(context.Background(), in)
		require.NoError(t, err, "submission never checks occupancy")
		if _, err := env.svc.ApproveRequest(context.Background(), req.ID); err != nil {
			var conflict *models.ConflictError
			require.ErrorAs(t, err, &conflict)
		}
	}

	appts, err := env.appointments.ListByDate(context.Background(), day)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, a := range appts {
		key := a.Date.String() + " " + a.Time
		assert.False(t, seen[key], "double booking at %s", key)
		seen[key] = true
	}
	assert.Len(t, appts, len(slots), "every slot ends up booked exactly once")
}

func TestRejectRequest(t *testing.T) {
	env := newTestEnv()
	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)

	require.NoError(t, env.svc.RejectRequest(context.Background(), req.ID))

	stored, err := env.requests.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status)

	appts, err := env.appointments.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, appts, "rejection books nothing")

	// Rejecting again is a state violation, not a silent no-op.
	err = env.svc.RejectRequest(context.Background(), req.ID)
	var state *models.StateError
	require.ErrorAs(t, err, &state)
}

func TestRejectApprovedRequest(t *testing.T) {
	env := newTestEnv()
	req, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), req.ID)
	require.NoError(t, err)

	err = env.svc.RejectRequest(context.Background(), req.ID)
	var state *models.StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, models.StatusApproved, state.Status)
}

func TestPendingRequests(t *testing.T) {
	env := newTestEnv()

	first, err := env.svc.SubmitRequest(context.Background(), validSubmit(t))
	require.NoError(t, err)
	in := validSubmit(t)
	in.Time = "13:00"
	second, err := env.svc.SubmitRequest(context.Background(), in)
	require.NoError(t, err)

	_, err = env.svc.ApproveRequest(context.Background(), first.ID)
	require.NoError(t, err)

	pending, err := env.svc.PendingRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
