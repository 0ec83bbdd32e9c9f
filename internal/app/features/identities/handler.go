// Package identities gives staff a view of stored person profiles and
// lets them correct the contact details. The phone number is the
// identity key and cannot be edited; a person with a new number gets a
// new identity on their next booking.
package identities

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	"github.com/careconnect/careconnect/internal/app/system/apierr"
	"github.com/careconnect/careconnect/internal/app/system/inputval"
	"github.com/careconnect/careconnect/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Identities *identitystore.Store
	Log        *zap.Logger
}

func NewHandler(identities *identitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Identities: identities, Log: logger}
}

type identityView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServeDetail handles GET /identities/{id} for staff. Demographic
// fields are not exposed here; they exist only for admission checks.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "identity detail")
	defer cancel()

	ident, err := h.Identities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, identitystore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Person not found.")
			return
		}
		h.Log.Error("identity lookup failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	apierr.JSON(w, http.StatusOK, identityView{
		ID:        ident.ID.Hex(),
		FullName:  ident.FullName,
		Phone:     ident.Phone,
		Email:     ident.Email,
		Address:   ident.Address,
		CreatedAt: ident.CreatedAt,
		UpdatedAt: ident.UpdatedAt,
	})
}

type profileForm struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

// HandleUpdateProfile handles PUT /identities/{id} for staff.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var form profileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		apierr.Write(w, apierr.KindValidation, "Request body is not valid JSON.")
		return
	}

	if !inputval.IsValidFullName(form.FullName) {
		apierr.WriteField(w, apierr.KindValidation, "Full name may contain only letters and spaces.", "full_name")
		return
	}
	if form.Email != "" && !inputval.IsValidEmail(form.Email) {
		apierr.WriteField(w, apierr.KindValidation, "Email address is not valid.", "email")
		return
	}
	if !inputval.IsValidAddress(form.Address) {
		apierr.WriteField(w, apierr.KindValidation, "Address is too short.", "address")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "identity profile update")
	defer cancel()

	if err := h.Identities.UpdateProfile(ctx, id, form.FullName, form.Email, form.Address); err != nil {
		if errors.Is(err, identitystore.ErrNotFound) {
			apierr.Write(w, apierr.KindNotFound, "Person not found.")
			return
		}
		h.Log.Error("identity profile update failed", zap.Error(err))
		apierr.WriteStore(w)
		return
	}

	h.Log.Info("identity profile updated", zap.String("identity_id", id.Hex()))
	apierr.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, "id")
	if !inputval.IsValidObjectID(raw) {
		apierr.Write(w, apierr.KindNotFound, "Person not found.")
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(raw)
	return id, true
}
