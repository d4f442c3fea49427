package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

func (h *handlers) loginPage(c *gin.Context) {
	if sessionStore(c).Authenticated() {
		redirect(c, "/", nil)
		return
	}
	respond(c, http.StatusOK, nil, gin.H{"next": safeNext(c.Query("next"), "")})
}

func (h *handlers) registerPage(c *gin.Context) {
	if sessionStore(c).Authenticated() {
		redirect(c, "/", nil)
		return
	}
	respond(c, http.StatusOK, nil, nil)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: "Invalid login request"}, nil)
		return
	}
	store := sessionStore(c)
	if _, err := store.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		respond(c, statusFor(err), failure(err, "Login failed"), nil)
		return
	}
	h.deps.Carts.Drop(store.Namespace())
	redirect(c, safeNext(req.Next, "/"), success("Login successful!"))
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respond(c, http.StatusBadRequest, &notice{Level: noticeError, Message: "Invalid registration request"}, nil)
		return
	}
	store := sessionStore(c)
	if _, err := store.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respond(c, statusFor(err), failure(err, "Registration failed"), nil)
		return
	}
	h.deps.Carts.Drop(store.Namespace())
	redirect(c, safeNext(req.Next, "/"), success("Registration successful!"))
}

func (h *handlers) logout(c *gin.Context) {
	store := sessionStore(c)
	if err := store.Logout(c.Request.Context()); err != nil {
		h.logger.Printf("logout %s: %v", store.Namespace(), err)
	}
	h.deps.Carts.Drop(store.Namespace())
	redirect(c, "/login", success("Logged out successfully"))
}

func (h *handlers) me(c *gin.Context) {
	respond(c, http.StatusOK, nil, verifiedIdentity(c))
}
