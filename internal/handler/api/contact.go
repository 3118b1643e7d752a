// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/darchive/internal/middleware"
	"github.com/olegiv/darchive/internal/model"
	"github.com/olegiv/darchive/internal/service"
)

// ContactResponse is returned after a contact form submission.
type ContactResponse struct {
	Message     string            `json:"message"`
	ContactForm model.ContactForm `json:"contactForm"`
}

// SubmitContact handles POST /contact. Signed-in callers are recorded as the
// sender.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}

	form, err := h.services.Contact.Submit(r.Context(), middleware.GetActor(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, ContactResponse{
		Message:     "Message sent successfully",
		ContactForm: form,
	})
}
