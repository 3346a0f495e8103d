package account

import (
	"net/http"
	"strings"

	"github.com/cse-motors/motors/internal/validate"
)

type registerForm struct {
	FirstName string `validate:"required,min=1,max=50"`
	LastName  string `validate:"required,min=2,max=50"`
	Email     string `validate:"required,email,max=255"`
	Password  string `validate:"required,strongpassword"`
}

var registerMessages = map[string]string{
	"FirstName": "Please provide a first name.",
	"LastName":  "Please provide a last name.",
	"Email":     "A valid email is required.",
	"Password":  "Password does not meet requirements.",
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		FirstName: strings.TrimSpace(r.PostFormValue("account_firstname")),
		LastName:  strings.TrimSpace(r.PostFormValue("account_lastname")),
		Email:     strings.TrimSpace(strings.ToLower(r.PostFormValue("account_email"))),
		Password:  r.PostFormValue("account_password"),
	}
}

func (f registerForm) validate() []validate.FieldError {
	return validate.Struct(f, registerMessages)
}

type loginForm struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,strongpassword"`
}

var loginMessages = map[string]string{
	"Email":    "A valid email is required.",
	"Password": "Password does not meet requirements.",
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(strings.ToLower(r.PostFormValue("account_email"))),
		Password: r.PostFormValue("account_password"),
	}
}

func (f loginForm) validate() []validate.FieldError {
	return validate.Struct(f, loginMessages)
}

type updateForm struct {
	FirstName string `validate:"required,min=2,max=50"`
	LastName  string `validate:"required,min=2,max=50"`
	Email     string `validate:"required,email,max=255"`
}

var updateMessages = map[string]string{
	"FirstName": "Please provide a first name (minimum 2 characters).",
	"LastName":  "Please provide a last name (minimum 2 characters).",
	"Email":     "A valid email is required.",
}

func parseUpdateForm(r *http.Request) updateForm {
	return updateForm{
		FirstName: strings.TrimSpace(r.PostFormValue("account_firstname")),
		LastName:  strings.TrimSpace(r.PostFormValue("account_lastname")),
		Email:     strings.TrimSpace(strings.ToLower(r.PostFormValue("account_email"))),
	}
}

func (f updateForm) validate() []validate.FieldError {
	return validate.Struct(f, updateMessages)
}

type passwordForm struct {
	Password string `validate:"required,strongpassword"`
}

func parsePasswordForm(r *http.Request) passwordForm {
	return passwordForm{Password: r.PostFormValue("account_password")}
}

func (f passwordForm) validate() []validate.FieldError {
	return validate.Struct(f, map[string]string{
		"Password": "Password does not meet requirements.",
	})
}
