package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redbuilds/storefront/internal/contact"
	"github.com/redbuilds/storefront/internal/validate"
)

// ContactSender forwards a validated contact form to the configured endpoint.
type ContactSender interface {
	Submit(ctx context.Context, f contact.Form) error
}

type ContactHandler struct {
	sender  ContactSender
	timeout time.Duration
}

func NewContactHandler(sender ContactSender, timeout time.Duration) *ContactHandler {
	return &ContactHandler{
		sender:  sender,
		timeout: timeout,
	}
}

type ContactRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Accept  bool   `json:"accept"`
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.sender.Submit(ctx, contact.Form(req))
	if err != nil {
		var fieldErrs validate.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			respondFieldErrors(w, fieldErrs)
		case errors.Is(err, contact.ErrSubmitFailed):
			respondError(w, http.StatusBadGateway, "contact_unavailable",
				"contact endpoint could not be reached")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
