package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleet-api/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		OrgName  string `json:"orgName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("missing_fields"))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		OrgName:  req.OrgName,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if err == service.ErrConflict {
			c.JSON(http.StatusConflict, errorResponse("email_exists"))
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": result.Token,
		"user":  result.User,
		"org":   result.Org,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password"`
		OrgID    string `json:"orgId"`
		OrgName  string `json:"orgName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("missing_email"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		OrgID:    req.OrgID,
		OrgName:  req.OrgName,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	user, org, err := h.authService.Me(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"org":  org,
	})
}
