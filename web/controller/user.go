// Package controller provides the HTTP request handlers of the taskman
// backend: account management, session handling and task CRUD.
package controller

import (
	"net/http"

	"taskman/logger"
	"taskman/web/entity"
	"taskman/web/middleware"
	"taskman/web/service"

	"github.com/gin-gonic/gin"
)

// UserController handles signup, login, session revocation and profile
// self-service. All routes under /users/me operate on the acting user
// resolved by the token guard; there is no way to address someone else's
// profile.
type UserController struct {
	userService  service.UserService
	emailService service.EmailService
	authService  *service.AuthService
}

// NewUserController creates a UserController and registers its routes.
func NewUserController(g *gin.RouterGroup, authService *service.AuthService) *UserController {
	a := &UserController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/users", a.signup)
	g.POST("/users/login", a.login)
	g.GET("/users/:id/avatar", a.getAvatar)

	auth := g.Group("/users", middleware.TokenAuth(a.authService))

	auth.POST("/logout", a.logout)
	auth.POST("/logoutall", a.logoutAll)
	auth.GET("/me", a.me)
	auth.PATCH("/me", a.updateMe)
	auth.DELETE("/me", a.deleteMe)
	auth.POST("/me/avatar", a.uploadAvatar)
	auth.DELETE("/me/avatar", a.deleteAvatar)
}

// signup creates an account and logs the first session in.
func (a *UserController) signup(c *gin.Context) {
	form := &entity.SignupForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userService.CreateUser(form.Name, form.Email, form.Password, form.Age)
	if err != nil {
		serviceError(c, err)
		return
	}

	a.emailService.SendWelcomeEmail(user.Email, user.Name)

	token, err := a.authService.IssueToken(user.Id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.AuthResult{User: user, Token: token})
}

// login verifies credentials and issues a fresh session token. Sessions on
// other devices stay valid.
func (a *UserController) login(c *gin.Context) {
	form := &entity.LoginForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userService.FindByCredentials(form.Email, form.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			logger.Debugf("failed login for %s from %s", form.Email, getRemoteIp(c))
		}
		serviceError(c, err)
		return
	}

	token, err := a.authService.IssueToken(user.Id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.AuthResult{User: user, Token: token})
}

// logout revokes the session token the request was authenticated with.
func (a *UserController) logout(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	token := middleware.GetAuthToken(c)

	if err := a.authService.RevokeToken(user.Id, token); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// logoutAll revokes every session of the acting user.
func (a *UserController) logoutAll(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	if err := a.authService.RevokeAllTokens(user.Id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// me returns the acting user's profile.
func (a *UserController) me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetAuthUser(c))
}

// updateMe applies an allow-listed profile update.
func (a *UserController) updateMe(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.userService.UpdateUser(middleware.GetAuthUser(c), updates)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteMe removes the account and everything it owns.
func (a *UserController) deleteMe(c *gin.Context) {
	user := middleware.GetAuthUser(c)

	if err := a.userService.DeleteUser(user); err != nil {
		serviceError(c, err)
		return
	}

	a.emailService.SendFarewellEmail(user.Email, user.Name)
	c.JSON(http.StatusOK, user)
}

// uploadAvatar stores the uploaded picture as the acting user's avatar.
func (a *UserController) uploadAvatar(c *gin.Context) {
	avatar, ok := readImageUpload(c, "avatar")
	if !ok {
		return
	}

	if err := a.userService.SetAvatar(middleware.GetAuthUser(c), avatar); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// deleteAvatar clears the acting user's avatar.
func (a *UserController) deleteAvatar(c *gin.Context) {
	if err := a.userService.ClearAvatar(middleware.GetAuthUser(c)); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// getAvatar serves any user's avatar publicly by user id.
func (a *UserController) getAvatar(c *gin.Context) {
	avatar, err := a.userService.GetAvatar(c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", avatar)
}
