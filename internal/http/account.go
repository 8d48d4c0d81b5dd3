package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/validation"
)

// AccountController handles registration, login/logout and the account
// page.
type AccountController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	limiter  *auth.RateLimiter
}

func NewAccountController(service *auth.Service, sessions *auth.SessionManager, limiter *auth.RateLimiter) *AccountController {
	return &AccountController{service: service, sessions: sessions, limiter: limiter}
}

type registerForm struct {
	Username string
	Email    string
}

// RegisterPage renders the registration form. Authenticated users are
// sent home instead.
func (ctl *AccountController) RegisterPage(c *gin.Context) {
	if auth.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	ctl.renderRegisterForm(c, validation.FieldErrors{}, registerForm{})
}

func (ctl *AccountController) renderRegisterForm(c *gin.Context, errs validation.FieldErrors, form registerForm) {
	c.HTML(http.StatusOK, "registration", gin.H{
		"Errors":    errs,
		"Form":      form,
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// Register creates the account and logs the new user straight in.
func (ctl *AccountController) Register(c *gin.Context) {
	form := registerForm{
		Username: strings.TrimSpace(c.PostForm("username")),
		Email:    strings.TrimSpace(c.PostForm("email")),
	}
	password1 := c.PostForm("password1")
	password2 := c.PostForm("password2")

	errs := validation.FieldErrors{}
	if password1 != password2 {
		errs.Add("password2", "the two password fields didn't match")
	}
	if len(password1) > 0 && len(password1) < auth.MinPasswordLength {
		errs.Add("password1", auth.ErrPasswordTooShort.Error())
	}
	if !errs.Empty() {
		ctl.renderRegisterForm(c, errs, form)
		return
	}

	user, err := ctl.service.Register(form.Username, form.Email, password1)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameRequired), errors.Is(err, auth.ErrUsernameInvalid):
			errs.Add("username", err.Error())
		case errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrEmailInvalid):
			errs.Add("email", err.Error())
		case errors.Is(err, auth.ErrPasswordRequired), errors.Is(err, auth.ErrPasswordTooShort):
			errs.Add("password1", err.Error())
		case errors.Is(err, auth.ErrUserExists):
			errs.Add("username", err.Error())
		default:
			log.Printf("ERROR: registering user: %v", err)
			c.String(http.StatusInternalServerError, "Failed to create the account")
			return
		}
		ctl.renderRegisterForm(c, errs, form)
		return
	}

	if err := ctl.sessions.CreateSession(c.Request, user); err != nil {
		log.Printf("ERROR: creating session: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/account/")
}

// LoginPage renders the login form. ?next= carries the path to return
// to after a successful login.
func (ctl *AccountController) LoginPage(c *gin.Context) {
	if auth.GetUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login", gin.H{
		"Username":  "",
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// Login authenticates the user. Attempts are throttled per client and
// username; a throttled or failed attempt re-renders the form with a
// generic error.
func (ctl *AccountController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	renderError := func(message string) {
		c.HTML(http.StatusOK, "login", gin.H{
			"Error":     message,
			"Username":  username,
			"Next":      next,
			"CSRFToken": auth.GetCSRFToken(c),
		})
	}

	if !ctl.limiter.Allow(c.ClientIP(), username) {
		renderError("Too many login attempts, try again later")
		return
	}

	user, err := ctl.service.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			renderError(err.Error())
			return
		}
		log.Printf("ERROR: authenticating user: %v", err)
		c.String(http.StatusInternalServerError, "Failed to log in")
		return
	}

	ctl.limiter.Reset(c.ClientIP(), username)

	if err := ctl.sessions.CreateSession(c.Request, user); err != nil {
		log.Printf("ERROR: creating session: %v", err)
		c.String(http.StatusInternalServerError, "Failed to log in")
		return
	}

	if next == "/" {
		next = "/account/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the landing page.
func (ctl *AccountController) Logout(c *gin.Context) {
	if err := ctl.sessions.DestroySession(c.Request); err != nil {
		log.Printf("ERROR: destroying session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// Page renders the account overview.
func (ctl *AccountController) Page(c *gin.Context) {
	user, err := ctl.service.GetUserByID(auth.GetUserID(c))
	if err != nil {
		log.Printf("ERROR: loading account: %v", err)
		c.String(http.StatusInternalServerError, "Failed to load the account")
		return
	}

	c.HTML(http.StatusOK, "account", gin.H{
		"User":      user,
		"Username":  user.Username,
		"CSRFToken": auth.GetCSRFToken(c),
	})
}
