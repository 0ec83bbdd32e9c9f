package identities_test

import (
	"net/http"
	"testing"

	"github.com/careconnect/careconnect/internal/app/features/identities"
	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	"github.com/careconnect/careconnect/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*identities.Handler, *identitystore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := identitystore.New(db)
	h := identities.NewHandler(store, zap.NewNop())
	return h, store, testutil.NewFixtures(t, db)
}

func TestServeDetail(t *testing.T) {
	h, _, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ident := fx.CreateIdentity(ctx, "Siti Aminah", "60198765432")

	req := testutil.NewAuthenticatedRequest("GET", "/identities/"+ident.ID.Hex(), testutil.StaffUser())
	req = testutil.WithChiURLParam(req, "id", ident.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeDetail(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.FullName != "Siti Aminah" || resp.Phone != "60198765432" {
		t.Errorf("detail = %q/%q", resp.FullName, resp.Phone)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	h, _, _ := newHandler(t)

	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest("GET", "/identities/"+id, testutil.StaffUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := testutil.NewRecorder()
	h.ServeDetail(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func putProfile(t *testing.T, h *identities.Handler, id string, form map[string]string) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, "PUT", "/identities/"+id, form)
	req = testutil.WithUser(req, testutil.StaffUser())
	req = testutil.WithChiURLParam(req, "id", id)
	rec := testutil.NewRecorder()
	h.HandleUpdateProfile(rec.ResponseRecorder, req)
	return rec
}

func TestHandleUpdateProfile(t *testing.T) {
	h, store, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ident := fx.CreateIdentity(ctx, "Siti Aminah", "60198765432")

	rec := putProfile(t, h, ident.ID.Hex(), map[string]string{
		"full_name": "Siti Aminah Binti Yusof",
		"email":     "siti@example.com",
		"address":   "12 Jalan Melur, Ipoh",
	})
	rec.AssertStatus(t, http.StatusOK)

	updated, err := store.GetByID(ctx, ident.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.FullName != "Siti Aminah Binti Yusof" {
		t.Errorf("full_name = %q", updated.FullName)
	}
	if updated.Email != "siti@example.com" {
		t.Errorf("email = %q", updated.Email)
	}
	if updated.Phone != "60198765432" {
		t.Errorf("phone changed to %q", updated.Phone)
	}
}

func TestHandleUpdateProfile_Rejections(t *testing.T) {
	h, _, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ident := fx.CreateIdentity(ctx, "Siti Aminah", "60198765432")

	valid := func() map[string]string {
		return map[string]string{
			"full_name": "Siti Aminah",
			"email":     "siti@example.com",
			"address":   "12 Jalan Melur, Ipoh",
		}
	}

	cases := []struct {
		name       string
		id         string
		mutate     func(map[string]string)
		wantStatus int
		wantInBody string
	}{
		{"digits in name", ident.ID.Hex(), func(f map[string]string) { f["full_name"] = "Siti 99" }, http.StatusBadRequest, `"field":"full_name"`},
		{"bad email", ident.ID.Hex(), func(f map[string]string) { f["email"] = "not-an-email" }, http.StatusBadRequest, `"field":"email"`},
		{"short address", ident.ID.Hex(), func(f map[string]string) { f["address"] = "x" }, http.StatusBadRequest, `"field":"address"`},
		{"malformed id", "zz", func(map[string]string) {}, http.StatusNotFound, "Person not found."},
		{"unknown id", primitive.NewObjectID().Hex(), func(map[string]string) {}, http.StatusNotFound, "Person not found."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid()
			tc.mutate(form)
			rec := putProfile(t, h, tc.id, form)
			rec.AssertStatus(t, tc.wantStatus)
			rec.AssertContains(t, tc.wantInBody)
		})
	}
}
