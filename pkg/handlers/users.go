package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-api/pkg/auth"
	"library-api/pkg/logger"
	"library-api/pkg/models"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type profilePatchRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (s *Server) register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var existing models.Customer
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrEmailTaken.Error()})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to hash password")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	customer := models.Customer{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.db.Create(&customer).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to create customer")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	ctx.JSON(http.StatusCreated, newCustomerView(customer))
}

func (s *Server) getProfile(ctx *gin.Context) {
	customer, ok := s.currentCustomer(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, newCustomerView(customer))
}

func (s *Server) updateProfile(ctx *gin.Context) {
	customer, ok := s.currentCustomer(ctx)
	if !ok {
		return
	}

	var req profilePatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if req.Email != nil && *req.Email != customer.Email {
		var existing models.Customer
		err := s.db.Where("email = ? AND id <> ?", *req.Email, customer.ID).First(&existing).Error
		if err == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrEmailTaken.Error()})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		customer.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			logger.Get().Error().Err(err).Msg("failed to hash password")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		customer.Password = hash
	}
	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}

	if err := s.db.Save(&customer).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to update customer")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	ctx.JSON(http.StatusOK, newCustomerView(customer))
}

// currentCustomer resolves the authenticated principal to its Customer row.
func (s *Server) currentCustomer(ctx *gin.Context) (models.Customer, bool) {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return models.Customer{}, false
	}

	var customer models.Customer
	if err := s.db.First(&customer, principal.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return models.Customer{}, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return models.Customer{}, false
	}
	return customer, true
}
