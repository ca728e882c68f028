package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/internal/ui/render"
	"github.com/Its-donkey/portfolio/logging"
)

const maxContactBody = 16 * 1024

type homePageData struct {
	PageTitle       string
	SiteName        string
	MetaDescription string
	StylesheetPath  string
	RootID          string
	OwnerName       string
	OwnerTitle      string
	CurrentYear     int
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	p := s.content.Current()
	description := s.description
	if description == "" {
		description = strings.TrimSpace(p.Owner.Name + " - " + p.Owner.Title + ". " + p.Owner.Tagline)
	}
	title := p.Owner.Name
	if p.Owner.Title != "" {
		title += " | " + p.Owner.Title
	}
	data := homePageData{
		PageTitle:       title,
		SiteName:        s.siteName,
		MetaDescription: description,
		StylesheetPath:  "/styles.css",
		RootID:          render.RootID,
		OwnerName:       p.Owner.Name,
		OwnerTitle:      p.Owner.Title,
		CurrentYear:     s.currentYear,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index", data); err != nil {
		s.logger.Error("http", "render home", err, map[string]any{"request_id": logging.RequestIDFrom(r.Context())})
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *server) handleContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, s.content.Current())
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleContact re-validates a submission and relays it with the server-held
// access key. Field errors come back with 422 in the relay's response shape.
func (s *server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, failure("method not allowed"))
		return
	}

	var form contact.Form
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody))
	if err := dec.Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("invalid request body"))
		return
	}

	log := s.logger.WithRequestID(logging.RequestIDFrom(r.Context())).WithCategory("contact")
	if errs := contact.ValidateAll(form); errs.Any() {
		log.WithField("fields", invalidFields(errs)).Info("contact form rejected")
		resp := failure("validation failed")
		resp.Errors = &errs
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if err := s.relay.Send(r.Context(), form); err != nil {
		message := "Failed to send email"
		var relayErr *contact.RelayError
		if errors.As(err, &relayErr) {
			message = relayErr.Message
			log = log.WithField("relay_status", relayErr.Status)
		}
		log.Error("error sending email", err)
		writeJSON(w, http.StatusBadGateway, failure(message))
		return
	}

	log.Info("contact message relayed")
	ok := true
	writeJSON(w, http.StatusOK, contact.Response{Success: &ok, Message: "Email sent successfully"})
}

func failure(message string) contact.Response {
	ok := false
	return contact.Response{Success: &ok, Message: message}
}

func invalidFields(errs contact.Errors) []string {
	var fields []string
	for _, f := range contact.Fields {
		if errs.Get(f) != "" {
			fields = append(fields, string(f))
		}
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
