package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/biscotto/internal/server/models"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type verifyEmailRequest struct {
	UserID string `json:"userId" binding:"required"`
	Code   string `json:"code" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

type profileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (a *API) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := a.users.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		a.fail(c, err, messages{Duplicate: "User with this email already exists"})
		return
	}

	body := gin.H{
		"message": "User created successfully. Please verify your email.",
		"userId":  res.UserID,
	}
	if res.VerificationCode != "" {
		body["verificationCode"] = res.VerificationCode
	}
	c.JSON(http.StatusCreated, body)
}

func (a *API) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := a.users.VerifyEmail(c.Request.Context(), req.UserID, req.Code)
	if err != nil {
		a.fail(c, err, messages{NotFound: "User not found", InvalidCode: "Invalid verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully", "token": res.Token, "user": res.User})
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := a.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.fail(c, err, messages{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": res.Token, "user": res.User})
}

func (a *API) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := a.users.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		a.fail(c, err, messages{})
		return
	}

	body := gin.H{
		"message": "If the email exists, a reset code has been sent.",
		"userId":  res.UserID,
	}
	if res.ResetCode != "" {
		body["resetCode"] = res.ResetCode
	}
	c.JSON(http.StatusOK, body)
}

func (a *API) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := a.users.ResetPassword(c.Request.Context(), req.UserID, req.Code, req.NewPassword)
	if err != nil {
		a.fail(c, err, messages{NotFound: "User not found", InvalidCode: "Invalid reset code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (a *API) me(c *gin.Context) {
	user, err := a.users.GetCurrentUser(c.Request.Context(), c.GetString(ctxToken))
	if err != nil {
		a.fail(c, err, messages{NotFound: "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (a *API) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := a.users.UpdateProfile(c.Request.Context(), c.GetString(ctxToken),
		models.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		a.fail(c, err, messages{NotFound: "User not found", Duplicate: "Email already in use"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}
