package account

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/models"
	"github.com/cse-motors/motors/internal/render"
	"github.com/cse-motors/motors/internal/validate"
)

// AccountStore is the credential store surface the handlers need.
type AccountStore interface {
	Register(ctx context.Context, firstName, lastName, email, passwordHash string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// Handler serves the /account routes.
type Handler struct {
	store         AccountStore
	tokens        *auth.TokenManager
	flash         *flash.Store
	render        render.Renderer
	secureCookies bool
}

func NewHandler(store AccountStore, tokens *auth.TokenManager, fl *flash.Store, renderer render.Renderer, secureCookies bool) *Handler {
	return &Handler{
		store:         store,
		tokens:        tokens,
		flash:         fl,
		render:        renderer,
		secureCookies: secureCookies,
	}
}

// Routes mounts the account routes. mw must already have run Authenticate
// upstream.
func (h *Handler) Routes(mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireLogin)
		r.Get("/", h.Management)
		r.Get("/update", h.UpdatePage)
		r.Post("/update", h.UpdateProfile)
		r.Post("/update-password", h.UpdatePassword)
	})

	return r
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "account/login.html", "Login", nil)
}

// Login verifies credentials and installs the session cookie. Both an
// unknown email and a wrong password produce the same generic notice.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	form := parseLoginForm(r)

	if errs := form.validate(); len(errs) > 0 {
		h.render.RenderStatus(w, r, http.StatusBadRequest, "account/login.html", "Login", render.PageData{
			"Errors":       errs,
			"AccountEmail": form.Email,
		})
		return
	}

	acct, err := h.store.GetByEmail(r.Context(), form.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Printf("account: login lookup failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	if acct == nil || !auth.CheckPassword(form.Password, acct.PasswordHash) {
		h.flash.Add(w, r, "notice", "Please check your credentials and try again.")
		h.render.RenderStatus(w, r, http.StatusBadRequest, "account/login.html", "Login", render.PageData{
			"AccountEmail": form.Email,
		})
		return
	}

	token, err := h.tokens.Generate(acct)
	if err != nil {
		log.Printf("account: token generation failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	auth.SetSessionCookie(w, token, h.secureCookies)
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "account/register.html", "Register", render.PageData{
		"PasswordRequirements": validate.PasswordRequirements(),
	})
}

// Register creates a Client account. It does not log the new account in;
// a success redirects to the login page.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := parseRegisterForm(r)

	redisplay := func(status int, errs []validate.FieldError) {
		h.render.RenderStatus(w, r, status, "account/register.html", "Registration", render.PageData{
			"Errors":               errs,
			"AccountFirstname":     form.FirstName,
			"AccountLastname":      form.LastName,
			"AccountEmail":         form.Email,
			"PasswordRequirements": validate.PasswordRequirements(),
		})
	}

	if errs := form.validate(); len(errs) > 0 {
		redisplay(http.StatusBadRequest, errs)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		log.Printf("account: password hashing failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, there was an error processing the registration.")
		redisplay(http.StatusInternalServerError, nil)
		return
	}

	acct, err := h.store.Register(r.Context(), form.FirstName, form.LastName, form.Email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			redisplay(http.StatusBadRequest, []validate.FieldError{
				{Field: "Email", Message: "Email address is already in use."},
			})
			return
		}
		log.Printf("account: registration failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, the registration failed.")
		redisplay(http.StatusInternalServerError, nil)
		return
	}

	h.flash.Add(w, r, "notice", "Congratulations, you're registered "+acct.FirstName+". Please log in.")
	http.Redirect(w, r, "/account/login", http.StatusSeeOther)
}

func (h *Handler) Management(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "account/management.html", "Account Management", nil)
}

func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	acct, err := h.store.GetByID(r.Context(), claims.AccountID)
	if err != nil {
		log.Printf("account: update page lookup failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	h.render.Render(w, r, "account/update.html", "Update Account Information", render.PageData{
		"AccountFirstname":     acct.FirstName,
		"AccountLastname":      acct.LastName,
		"AccountEmail":         acct.Email,
		"PasswordRequirements": validate.PasswordRequirements(),
	})
}

// UpdateProfile persists name/email changes and reissues the token so the
// session cookie keeps matching the stored account.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	form := parseUpdateForm(r)

	redisplay := func(status int, errs []validate.FieldError) {
		h.render.RenderStatus(w, r, status, "account/update.html", "Update Account Information", render.PageData{
			"Errors":               errs,
			"AccountFirstname":     form.FirstName,
			"AccountLastname":      form.LastName,
			"AccountEmail":         form.Email,
			"PasswordRequirements": validate.PasswordRequirements(),
		})
	}

	errs := form.validate()

	// The new email must not belong to a different account.
	if existing, err := h.store.GetByEmail(r.Context(), form.Email); err == nil && existing.ID != claims.AccountID {
		errs = append(errs, validate.FieldError{
			Field:   "Email",
			Message: "Email address is already in use by another account.",
		})
	}

	if len(errs) > 0 {
		redisplay(http.StatusBadRequest, errs)
		return
	}

	if err := h.store.UpdateProfile(r.Context(), claims.AccountID, form.FirstName, form.LastName, form.Email); err != nil {
		log.Printf("account: profile update failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, the account update failed.")
		redisplay(http.StatusInternalServerError, nil)
		return
	}

	acct, err := h.store.GetByID(r.Context(), claims.AccountID)
	if err != nil {
		log.Printf("account: reload after update failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}

	token, err := h.tokens.Generate(acct)
	if err != nil {
		log.Printf("account: token reissue failed: %v", err)
		h.render.Error(w, r, http.StatusInternalServerError, "")
		return
	}
	auth.SetSessionCookie(w, token, h.secureCookies)

	h.flash.Add(w, r, "notice", "Your account information has been successfully updated.")
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

// UpdatePassword re-hashes and stores the new password. Claims are not
// affected, so the token is left alone.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	form := parsePasswordForm(r)

	if errs := form.validate(); len(errs) > 0 {
		h.flash.Add(w, r, "notice", "Password does not meet requirements.")
		http.Redirect(w, r, "/account/update", http.StatusSeeOther)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		log.Printf("account: password hashing failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, there was an error processing the password.")
		http.Redirect(w, r, "/account/update", http.StatusSeeOther)
		return
	}

	if err := h.store.UpdatePassword(r.Context(), claims.AccountID, hash); err != nil {
		log.Printf("account: password update failed: %v", err)
		h.flash.Add(w, r, "notice", "Sorry, the password update failed.")
		http.Redirect(w, r, "/account/update", http.StatusSeeOther)
		return
	}

	h.flash.Add(w, r, "notice", "Your password has been successfully changed.")
	http.Redirect(w, r, "/account/", http.StatusSeeOther)
}

// Logout clears the session cookie unconditionally.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	h.flash.Add(w, r, "notice", "You have been successfully logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
