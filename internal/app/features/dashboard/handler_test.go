package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/careconnect/careconnect/internal/app/features/dashboard"
	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	outboxstore "github.com/careconnect/careconnect/internal/app/store/notifications"
	outreachstore "github.com/careconnect/careconnect/internal/app/store/outreach"
	"github.com/careconnect/careconnect/internal/domain/models"
	"github.com/careconnect/careconnect/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := dashboard.NewHandler(
		eventstore.New(db),
		bookingstore.New(db),
		identitystore.New(db),
		outreachstore.New(db),
		outboxstore.New(db),
		zap.NewNop(),
	)
	return h, testutil.NewFixtures(t, db)
}

func TestServe_StaffSummary(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Winter Coat Drive", 20, false)
	a := fx.CreateIdentity(ctx, "Aisha Rahman", "60123456701")
	b := fx.CreateIdentity(ctx, "Mei Ling", "60123456702")
	c := fx.CreateIdentity(ctx, "Priya Nair", "60123456703")
	fx.CreateBooking(ctx, ev, a, models.BookingStatusBooked)
	fx.CreateBooking(ctx, ev, b, models.BookingStatusAttended)
	fx.CreateBooking(ctx, ev, c, models.BookingStatusCancelled)

	req := testutil.NewAuthenticatedRequest("GET", "/dashboard", testutil.StaffUser())
	rec := testutil.NewRecorder()
	h.Serve(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Role              string `json:"role"`
		Events            int64  `json:"events"`
		ActiveBookings    int64  `json:"active_bookings"`
		AttendedBookings  int64  `json:"attended_bookings"`
		CancelledBookings int64  `json:"cancelled_bookings"`
		People            int64  `json:"people"`
	}
	rec.DecodeJSON(t, &resp)

	if resp.Role != "staff" {
		t.Errorf("role = %q, want staff", resp.Role)
	}
	if resp.Events != 1 {
		t.Errorf("events = %d, want 1", resp.Events)
	}
	if resp.ActiveBookings != 1 || resp.AttendedBookings != 1 || resp.CancelledBookings != 1 {
		t.Errorf("booking counts = %d/%d/%d, want 1/1/1",
			resp.ActiveBookings, resp.AttendedBookings, resp.CancelledBookings)
	}
	if resp.People != 3 {
		t.Errorf("people = %d, want 3", resp.People)
	}
}

func TestServe_LeaderSummary(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Food Parcel Day", 50, false)
	leader := testutil.LeaderUser()
	leaderDoc := fx.CreateStaffUser(ctx, leader.Name, leader.Email, "leader")
	leader.ID = leaderDoc.ID.Hex()

	fx.CreateOutreachLog(ctx, ev.ID, leaderDoc.ID, models.OutreachWhatsApp, 40)
	fx.CreateOutreachLog(ctx, ev.ID, leaderDoc.ID, models.OutreachFlyers, 15)

	req := testutil.NewAuthenticatedRequest("GET", "/dashboard", leader)
	rec := testutil.NewRecorder()
	h.Serve(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Role            string `json:"role"`
		OutreachLogs    int    `json:"outreach_logs"`
		OutreachReached int64  `json:"outreach_reached"`
	}
	rec.DecodeJSON(t, &resp)

	if resp.Role != "leader" {
		t.Errorf("role = %q, want leader", resp.Role)
	}
	if resp.OutreachLogs != 2 {
		t.Errorf("outreach_logs = %d, want 2", resp.OutreachLogs)
	}
	if resp.OutreachReached != 55 {
		t.Errorf("outreach_reached = %d, want 55", resp.OutreachReached)
	}
}
