package controller

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"sheet-storefront/models"
	"sheet-storefront/repository"
	"sheet-storefront/templates"
	"sheet-storefront/utils"
)

// Validation messages shown on the admin form
const (
	msgSheetURLRequired = "Excel Link 1 is required"
	msgSheetURLInvalid  = "Please enter a valid URL"
)

// AdminController handles the sheet-link configuration page
type AdminController struct {
	store    repository.CatalogStoreInterface
	sessions *SessionManager
	tmpl     *template.Template
}

// NewAdminController creates a new AdminController
func NewAdminController(store repository.CatalogStoreInterface, sessions *SessionManager, tmpl *template.Template) *AdminController {
	return &AdminController{store: store, sessions: sessions, tmpl: tmpl}
}

type adminView struct {
	Saved     bool
	SheetURL  string
	StoredURL string
	SheetID   string
	Error     string
	Status    models.SheetStatus
}

func (c *AdminController) render(w http.ResponseWriter, status int, view adminView) {
	if view.SheetID != "" {
		view.Status = c.store.Status(view.SheetID)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.tmpl.ExecuteTemplate(w, templates.Admin, view); err != nil {
		log.Printf("❌ Admin: failed to render page: %v", err)
	}
}

// validateSheetURL returns the form error for a submitted link, or ""
func validateSheetURL(sheetURL string) string {
	if sheetURL == "" {
		return msgSheetURLRequired
	}
	if !utils.IsValidURL(sheetURL) {
		return msgSheetURLInvalid
	}
	return ""
}

// Admin handles GET and POST /admin
func (c *AdminController) Admin(w http.ResponseWriter, r *http.Request) {
	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ Admin: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.render(w, http.StatusOK, adminView{
			Saved:     r.URL.Query().Get("saved") == "1",
			SheetURL:  session.SheetURL,
			StoredURL: session.SheetURL,
			SheetID:   sheetIDOf(session),
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		sheetURL := strings.TrimSpace(r.PostForm.Get("sheetUrl"))
		if msg := validateSheetURL(sheetURL); msg != "" {
			c.render(w, http.StatusBadRequest, adminView{
				SheetURL:  sheetURL,
				StoredURL: session.SheetURL,
				SheetID:   sheetIDOf(session),
				Error:     msg,
			})
			return
		}

		updated, err := c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
			s.SheetURL = sheetURL
			return nil
		})
		if err != nil {
			log.Printf("❌ Admin: %v", err)
			http.Error(w, "Failed to save sheet link", http.StatusInternalServerError)
			return
		}
		log.Printf("✅ Admin: session %s linked to sheet %q", updated.ID, sheetIDOf(updated))
		http.Redirect(w, r, "/admin?saved=1", http.StatusSeeOther)

	default:
		methodNotAllowed(w, r, "Admin")
	}
}

// Clear handles POST /admin/clear
func (c *AdminController) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Clear")
		return
	}
	session, err := c.sessions.Load(w, r)
	if err != nil {
		log.Printf("❌ Clear: %v", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	_, err = c.sessions.Update(r.Context(), session.ID, func(s *models.Session) error {
		s.SheetURL = ""
		return nil
	})
	if err != nil {
		log.Printf("❌ Clear: %v", err)
		http.Error(w, "Failed to clear sheet link", http.StatusInternalServerError)
		return
	}
	log.Printf("🧹 Clear: session %s sheet link removed", session.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
