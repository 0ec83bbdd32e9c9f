package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/careconnect/careconnect/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	role, name, uid, ok := UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok || role != "visitor" || name != "" || uid != primitive.NilObjectID {
		t.Errorf("UserCtx = (%q, %q, %v, %v), want visitor/unset", role, name, uid, ok)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "not-hex", Name: "X", Role: "admin"})
	_, _, _, ok := UserCtx(req)
	if ok {
		t.Error("malformed session ID should fail closed")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: id.Hex(), Name: "Jane", Role: "Staff"})

	role, name, uid, ok := UserCtx(req)
	if !ok || role != "staff" || name != "Jane" || uid != id {
		t.Errorf("UserCtx = (%q, %q, %v, %v)", role, name, uid, ok)
	}
}

func TestRoleHelpers(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "admin"})
	staff := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "staff"})
	leader := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id, Role: "leader"})

	if IsLeader(admin) || IsLeader(staff) {
		t.Error("IsLeader matched a non-leader role")
	}
	if !IsLeader(leader) {
		t.Error("IsLeader rejected a leader")
	}
	if IsLeader(httptest.NewRequest("GET", "/", nil)) {
		t.Error("IsLeader matched an anonymous request")
	}
}
