package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/services/identity"
	"medibook/services/payment"
	"medibook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// -- Mocks --

type mockAppointmentRepo struct {
	mu        sync.Mutex
	appts     map[string]*models.Appointment
	seq       int
	updates   int
	updateErr error
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *models.Appointment) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec := *a
	rec.ID = fmt.Sprintf("appt-%d", m.seq)
	rec.Status = models.AppointmentPending
	if rec.Duration <= 0 {
		rec.Duration = models.DefaultAppointmentDuration
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	m.appts[rec.ID] = &rec
	cp := rec
	return &cp, nil
}

func (m *mockAppointmentRepo) list(match func(*models.Appointment) bool) []models.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appts {
		if match(a) {
			out = append(out, *a)
		}
	}
	return out
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, id string) ([]models.Appointment, error) {
	return m.list(func(a *models.Appointment) bool { return a.PatientID == id }), nil
}

func (m *mockAppointmentRepo) ListByProvider(_ context.Context, id string) ([]models.Appointment, error) {
	return m.list(func(a *models.Appointment) bool { return a.ProviderID == id }), nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	a, ok := m.appts[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	m.updates++
	for k, v := range fields {
		switch k {
		case "orderId":
			a.OrderID = v.(string)
		case "paymentStatus":
			a.PaymentStatus = v.(string)
		case "paymentId":
			a.PaymentID = v.(string)
		}
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockAppointmentRepo) Ping(context.Context) error { return nil }

type mockUsers struct{ providers []models.Provider }

func (m *mockUsers) ListProviders(context.Context) ([]models.Provider, error) {
	return m.providers, nil
}

func (m *mockUsers) GetProfile(context.Context, string) (*models.UserProfile, error) {
	return nil, errors.New("not used")
}

type mockGateway struct {
	orderID   string
	orderErr  error
	orders    []payment.OrderRequest
	validSigs map[string]bool
}

func (g *mockGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (string, error) {
	g.orders = append(g.orders, req)
	if g.orderErr != nil {
		return "", g.orderErr
	}
	return g.orderID, nil
}

func (g *mockGateway) VerifySignature(paymentID, orderID, signature string) error {
	if g.validSigs[orderID+"|"+paymentID+"|"+signature] {
		return nil
	}
	return payment.ErrInvalidSignature
}

func (g *mockGateway) KeyID() string { return "rzp_test_key" }

type mockNotifier struct {
	notified []string
	err      error
}

func (n *mockNotifier) NotifyProviderPaid(_ context.Context, a *models.Appointment) error {
	n.notified = append(n.notified, a.ID)
	return n.err
}

type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func newTestService(t *testing.T) (*DefaultBookingService, *mockAppointmentRepo, *mockGateway) {
	t.Helper()
	repo := newMockAppointmentRepo()
	gw := &mockGateway{orderID: "order_1", validSigs: map[string]bool{"order_1|pay_1|sig_ok": true}}
	svc, err := NewDefaultBookingService(DefaultBookingService{
		Appointments: repo,
		Users:        &mockUsers{},
		Gateway:      gw,
		Fee:          500,
		Logger:       zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, gw
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validInput() models.AppointmentInput {
	return models.AppointmentInput{
		ProviderID:    strPtr("p1"),
		ScheduledDate: strPtr("2024-06-01T10:00:00Z"),
		Duration:      intPtr(30),
		Type:          strPtr("consult"),
	}
}

func seed(t *testing.T, svc *DefaultBookingService, patient string) *models.Appointment {
	t.Helper()
	appt, err := svc.CreateAppointment(context.Background(), patient, validInput())
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return appt
}

// -- Tests --

func TestNewDefaultBookingService_Validation(t *testing.T) {
	if _, err := NewDefaultBookingService(DefaultBookingService{}); err == nil {
		t.Error("expected error for missing dependencies")
	}
	_, err := NewDefaultBookingService(DefaultBookingService{
		Appointments: newMockAppointmentRepo(),
		Users:        &mockUsers{},
		Gateway:      &mockGateway{},
	})
	if err == nil {
		t.Error("expected error for zero fee")
	}
}

func TestCreateAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)

	appt, err := svc.CreateAppointment(context.Background(), "uid-caller", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID == "" {
		t.Error("expected generated id")
	}
	if appt.PatientID != "uid-caller" {
		t.Errorf("expected patient uid-caller, got %s", appt.PatientID)
	}
	if appt.Status != models.AppointmentPending {
		t.Errorf("expected pending, got %s", appt.Status)
	}
	if appt.ProviderName != nil {
		t.Errorf("expected nil provider name, got %v", *appt.ProviderName)
	}
	if appt.Notes != "" {
		t.Errorf("expected empty notes, got %q", appt.Notes)
	}
}

func TestCreateAppointment_MissingFields(t *testing.T) {
	svc, repo, _ := newTestService(t)

	in := validInput()
	in.ProviderID = nil
	in.Type = nil

	_, err := svc.CreateAppointment(context.Background(), "uid-caller", in)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *InputError, got %v", err)
	}
	if inputErr.Msg != "Missing fields: providerId, type" {
		t.Errorf("unexpected message %q", inputErr.Msg)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected ErrInvalidInput")
	}
	if len(repo.appts) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestCreateAppointment_RequiresCaller(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.CreateAppointment(context.Background(), "", validInput()); !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestListAppointments_ScopedToCaller(t *testing.T) {
	svc, _, _ := newTestService(t)
	seed(t, svc, "patient-a")
	seed(t, svc, "patient-a")
	seed(t, svc, "patient-b")

	got, err := svc.ListPatientAppointments(context.Background(), "patient-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 appointments, got %d", len(got))
	}

	none, err := svc.ListPatientAppointments(context.Background(), "patient-z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none == nil {
		t.Error("expected empty non-nil slice")
	}

	byProvider, err := svc.ListProviderAppointments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byProvider) != 3 {
		t.Errorf("expected 3 provider appointments, got %d", len(byProvider))
	}
}

func TestProviderIncome(t *testing.T) {
	svc, repo, _ := newTestService(t)
	dates := []string{
		"2024-06-01T10:00:00Z",
		"2024-06-01T15:30:00Z",
		"2024-06-02T09:00:00Z",
		"",
	}
	for i, d := range dates {
		repo.appts[fmt.Sprintf("x%d", i)] = &models.Appointment{ID: fmt.Sprintf("x%d", i), ProviderID: "doc", ScheduledDate: d, Status: models.AppointmentCancelled}
	}
	repo.appts["other"] = &models.Appointment{ID: "other", ProviderID: "someone-else", ScheduledDate: "2024-06-01T10:00:00Z"}

	tests := []struct {
		date      string
		wantLabel string
		wantCount int
	}{
		{"2024-06-01", "2024-06-01", 3}, // two matches plus the undated one
		{"2024-06-02", "2024-06-02", 2},
		{"2024-07-01", "2024-07-01", 1},
		{"", "all", 4},
	}
	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			got, err := svc.ProviderIncome(context.Background(), "doc", tt.date)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Date != tt.wantLabel {
				t.Errorf("expected date %q, got %q", tt.wantLabel, got.Date)
			}
			if got.Appointments != tt.wantCount {
				t.Errorf("expected %d appointments, got %d", tt.wantCount, got.Appointments)
			}
			if got.Income != int64(tt.wantCount)*500 {
				t.Errorf("expected income %d, got %d", tt.wantCount*500, got.Income)
			}
		})
	}
}

func TestCreatePaymentOrder(t *testing.T) {
	svc, repo, gw := newTestService(t)
	appt := seed(t, svc, "patient-a")

	order, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderID != "order_1" || order.KeyID != "rzp_test_key" {
		t.Errorf("unexpected order %+v", order)
	}

	if len(gw.orders) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gw.orders))
	}
	req := gw.orders[0]
	if req.AmountMinor != 50000 || req.Currency != "INR" {
		t.Errorf("expected 50000 INR, got %d %s", req.AmountMinor, req.Currency)
	}
	if req.Notes["appointmentId"] != appt.ID {
		t.Errorf("expected appointmentId note, got %v", req.Notes)
	}

	stored := repo.appts[appt.ID]
	if stored.OrderID != "order_1" || stored.PaymentStatus != models.PaymentPending {
		t.Errorf("expected pending order on record, got %+v", stored)
	}
}

func TestCreatePaymentOrder_Errors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		svc, _, gw := newTestService(t)
		_, err := svc.CreatePaymentOrder(context.Background(), "patient-a", "")
		var inputErr *InputError
		if !errors.As(err, &inputErr) || inputErr.Msg != "appointmentId required" {
			t.Fatalf("expected appointmentId required, got %v", err)
		}
		if len(gw.orders) != 0 {
			t.Error("gateway must not be called")
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, _, gw := newTestService(t)
		if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if len(gw.orders) != 0 {
			t.Error("gateway must not be called")
		}
	})

	t.Run("gateway failure leaves record untouched", func(t *testing.T) {
		svc, repo, gw := newTestService(t)
		appt := seed(t, svc, "patient-a")
		gw.orderErr = &payment.GatewayError{Op: "create order", Err: errors.New("timeout")}

		_, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID)
		var gwErr *payment.GatewayError
		if !errors.As(err, &gwErr) {
			t.Fatalf("expected *GatewayError, got %v", err)
		}
		stored := repo.appts[appt.ID]
		if stored.OrderID != "" || stored.PaymentStatus != "" {
			t.Errorf("expected no payment fields, got %+v", stored)
		}
		if repo.updates != 0 {
			t.Errorf("expected no store writes, got %d", repo.updates)
		}
	})

	t.Run("store failure after gateway success", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		appt := seed(t, svc, "patient-a")
		repo.updateErr = errors.New("deadline exceeded")

		_, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID)
		if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected an internal error, got %v", err)
		}
	})
}

func TestCreatePaymentOrder_Ownership(t *testing.T) {
	svc, _, gw := newTestService(t)
	appt := seed(t, svc, "patient-a")

	// Without enforcement another caller may still open an order.
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-b", appt.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.EnforceOwnership = true
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-b", appt.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(gw.orders) != 1 {
		t.Errorf("expected the forbidden call to skip the gateway, got %d calls", len(gw.orders))
	}
}

func TestVerifyPayment(t *testing.T) {
	svc, repo, _ := newTestService(t)
	notifier := &mockNotifier{}
	svc.Notifier = notifier
	appt := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID); err != nil {
		t.Fatalf("create order: %v", err)
	}

	req := models.PaymentVerification{
		AppointmentID:     appt.ID,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_ok",
	}
	for i := 0; i < 2; i++ {
		if err := svc.VerifyPayment(context.Background(), "patient-a", req); err != nil {
			t.Fatalf("verify #%d: %v", i+1, err)
		}
		stored := repo.appts[appt.ID]
		if stored.PaymentStatus != models.PaymentPaid || stored.PaymentID != "pay_1" {
			t.Fatalf("verify #%d: expected paid with pay_1, got %+v", i+1, stored)
		}
		if stored.OrderID != "order_1" {
			t.Errorf("verify #%d: order id must survive, got %s", i+1, stored.OrderID)
		}
	}
	if len(notifier.notified) != 2 {
		t.Errorf("expected provider notified per verification, got %d", len(notifier.notified))
	}
}

func TestVerifyPayment_InvalidSignature(t *testing.T) {
	svc, repo, _ := newTestService(t)
	appt := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID); err != nil {
		t.Fatalf("create order: %v", err)
	}
	writes := repo.updates

	err := svc.VerifyPayment(context.Background(), "patient-a", models.PaymentVerification{
		AppointmentID:     appt.ID,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "forged",
	})
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Msg != "Invalid signature" {
		t.Fatalf("expected Invalid signature, got %v", err)
	}
	if !errors.Is(err, payment.ErrInvalidSignature) {
		t.Error("expected the gateway error to be wrapped")
	}
	if repo.updates != writes {
		t.Error("a rejected signature must not write")
	}
	if got := repo.appts[appt.ID].PaymentStatus; got != models.PaymentPending {
		t.Errorf("expected status to stay pending, got %s", got)
	}
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.VerifyPayment(context.Background(), "patient-a", models.PaymentVerification{
		AppointmentID:     "appt-1",
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
	})
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected *InputError, got %v", err)
	}
	if inputErr.Msg != "Missing fields" {
		t.Errorf("unexpected message %q", inputErr.Msg)
	}
	if len(inputErr.Fields) != 1 || inputErr.Fields[0] != "razorpay_signature" {
		t.Errorf("expected razorpay_signature missing, got %v", inputErr.Fields)
	}
}

func TestVerifyPayment_UnknownAppointment(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.VerifyPayment(context.Background(), "patient-a", models.PaymentVerification{
		AppointmentID:     "ghost",
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_ok",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifyPayment_NotificationFailureIsIgnored(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Notifier = &mockNotifier{err: errors.New("fcm down")}
	appt := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID); err != nil {
		t.Fatalf("create order: %v", err)
	}

	err := svc.VerifyPayment(context.Background(), "patient-a", models.PaymentVerification{
		AppointmentID:     appt.ID,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_ok",
	})
	if err != nil {
		t.Fatalf("expected success despite notification failure, got %v", err)
	}
}

func TestListProviders_NeverNil(t *testing.T) {
	svc, _, _ := newTestService(t)
	got, err := svc.ListProviders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Error("expected empty non-nil slice")
	}
}

func TestCreateAppointment_NonPositiveDuration(t *testing.T) {
	for _, d := range []int{0, -15} {
		t.Run(fmt.Sprint(d), func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			in := validInput()
			in.Duration = intPtr(d)

			_, err := svc.CreateAppointment(context.Background(), "uid-caller", in)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *InputError, got %v", err)
			}
			if len(inputErr.Fields) != 1 || inputErr.Fields[0] != "duration" {
				t.Errorf("expected duration field, got %v", inputErr.Fields)
			}
			if len(repo.appts) != 0 {
				t.Error("nothing should be stored")
			}
		})
	}
}

func TestCreatePaymentOrder_AlreadyPaid(t *testing.T) {
	svc, repo, gw := newTestService(t)
	appt := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := svc.VerifyPayment(context.Background(), "patient-a", models.PaymentVerification{
		AppointmentID:     appt.ID,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_ok",
	}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	_, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID)
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Msg != "Appointment already paid" {
		t.Fatalf("expected Appointment already paid, got %v", err)
	}
	if len(gw.orders) != 1 {
		t.Errorf("expected no second gateway call, got %d calls", len(gw.orders))
	}
	if got := repo.appts[appt.ID].PaymentStatus; got != models.PaymentPaid {
		t.Errorf("expected status to stay paid, got %s", got)
	}
}

func TestVerifyPayment_OrderMustBelongToAppointment(t *testing.T) {
	svc, repo, gw := newTestService(t)
	gw.validSigs["order_2|pay_2|sig_two"] = true

	apptA := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", apptA.ID); err != nil {
		t.Fatalf("create order A: %v", err)
	}
	unordered := seed(t, svc, "patient-b")
	apptC := seed(t, svc, "patient-c")
	gw.orderID = "order_2"
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-c", apptC.ID); err != nil {
		t.Fatalf("create order C: %v", err)
	}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"appointment without an order", unordered.ID, ""},
		{"appointment with a different order", apptC.ID, models.PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writes := repo.updates
			err := svc.VerifyPayment(context.Background(), "patient-b", models.PaymentVerification{
				AppointmentID:     tt.target,
				RazorpayPaymentID: "pay_1",
				RazorpayOrderID:   "order_1",
				RazorpaySignature: "sig_ok",
			})
			var inputErr *InputError
			if !errors.As(err, &inputErr) || inputErr.Msg != "Invalid signature" {
				t.Fatalf("expected Invalid signature, got %v", err)
			}
			if repo.updates != writes {
				t.Error("a foreign order must not write")
			}
			if got := repo.appts[tt.target].PaymentStatus; got != tt.want {
				t.Errorf("expected status %q, got %q", tt.want, got)
			}
		})
	}

	if got := repo.appts[apptA.ID].PaymentStatus; got != models.PaymentPending {
		t.Errorf("the order's own appointment must be untouched, got %s", got)
	}
}

func TestVerifyPayment_QueuesProviderNotice(t *testing.T) {
	svc, _, _ := newTestService(t)
	notifier := &mockNotifier{}
	queue := &mockEnqueuer{}
	svc.Notifier = notifier
	svc.Tasks = queue

	appt := seed(t, svc, "patient-a")
	if _, err := svc.CreatePaymentOrder(context.Background(), "patient-a", appt.ID); err != nil {
		t.Fatalf("create order: %v", err)
	}
	req := models.PaymentVerification{
		AppointmentID:     appt.ID,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_ok",
	}
	if err := svc.VerifyPayment(context.Background(), "patient-a", req); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if len(queue.tasks) != 1 {
		t.Fatalf("expected one queued task, got %d", len(queue.tasks))
	}
	p, err := tasks.ParseProviderPaidPayload(queue.tasks[0])
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if p.Appointment.ID != appt.ID || p.Appointment.PaymentStatus != models.PaymentPaid || p.Appointment.PaymentID != "pay_1" {
		t.Errorf("unexpected payload %+v", p.Appointment)
	}
	if len(notifier.notified) != 0 {
		t.Errorf("queued notices must not be sent in-request, got %v", notifier.notified)
	}

	t.Run("falls back when the queue is down", func(t *testing.T) {
		queue.err = errors.New("dial tcp: connection refused")
		if err := svc.VerifyPayment(context.Background(), "patient-a", req); err != nil {
			t.Fatalf("verify: %v", err)
		}
		if len(notifier.notified) != 1 {
			t.Errorf("expected in-request notice, got %d", len(notifier.notified))
		}
	})

	t.Run("duplicate task is not resent", func(t *testing.T) {
		queue.err = asynq.ErrTaskIDConflict
		if err := svc.VerifyPayment(context.Background(), "patient-a", req); err != nil {
			t.Fatalf("verify: %v", err)
		}
		if len(notifier.notified) != 1 {
			t.Errorf("expected no extra in-request notice, got %d", len(notifier.notified))
		}
	})
}
