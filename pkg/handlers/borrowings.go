package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-api/pkg/auth"
	"library-api/pkg/logger"
	"library-api/pkg/models"
)

type borrowingCreateRequest struct {
	BorrowDate         string `json:"borrow_date" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required"`
	BookID             uint   `json:"book_id" binding:"required"`
}

type borrowingReturnRequest struct {
	ActualReturnDate string `json:"actual_return_date"`
}

func (s *Server) listBorrowings(ctx *gin.Context) {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	page, size := pagination(ctx)

	query := s.db.Model(&models.Borrowing{})
	if !principal.IsStaff {
		query = query.Where("user_id = ?", principal.UserID)
	}

	if userIDStr := ctx.Query("user_id"); userIDStr != "" {
		if !principal.IsStaff {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "user_id filter is staff only"})
			return
		}
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	if activeStr := ctx.Query("is_active"); activeStr != "" {
		switch activeStr {
		case "true":
			query = query.Where("actual_return_date IS NULL")
		case "false":
			query = query.Where("actual_return_date IS NOT NULL")
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "is_active must be true or false"})
			return
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var borrowings []models.Borrowing
	err := query.Preload("Book").Preload("User").
		Order("borrow_date DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&borrowings).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]borrowingView, len(borrowings))
	for i, b := range borrowings {
		items[i] = newBorrowingView(b)
	}
	ctx.JSON(http.StatusOK, pageEnvelope{
		Page:          page,
		PageSize:      size,
		TotalElements: total,
		Items:         items,
	})
}

func (s *Server) getBorrowing(ctx *gin.Context) {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	borrowing, ok := s.findBorrowing(ctx, principal)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, newBorrowingView(borrowing))
}

func (s *Server) createBorrowing(ctx *gin.Context) {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req borrowingCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	borrowDate, err := parseDate(req.BorrowDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "borrow_date must be formatted as YYYY-MM-DD"})
		return
	}
	expectedDate, err := parseDate(req.ExpectedReturnDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "expected_return_date must be formatted as YYYY-MM-DD"})
		return
	}

	borrowing := models.Borrowing{
		BorrowDate:         borrowDate,
		ExpectedReturnDate: expectedDate,
		BookID:             req.BookID,
		UserID:             principal.UserID,
	}
	if err := borrowing.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The stock check is the conditional decrement itself: the inventory
	// value is never read into memory, so two borrowers cannot both pass a
	// check against the same last copy.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND inventory > 0", req.BookID).
			Update("inventory", gorm.Expr("inventory - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Book{}).Where("id = ?", req.BookID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrBookNotFound
			}
			return ErrOutOfStock
		}
		return tx.Create(&borrowing).Error
	})
	if err != nil {
		if errors.Is(err, ErrOutOfStock) || errors.Is(err, ErrBookNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Get().Error().Err(err).Msg("failed to create borrowing")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create borrowing"})
		return
	}

	if err := s.db.Preload("Book").Preload("User").First(&borrowing, borrowing.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, newBorrowingView(borrowing))
}

func (s *Server) returnBorrowing(ctx *gin.Context) {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	borrowing, ok := s.findBorrowing(ctx, principal)
	if !ok {
		return
	}

	var req borrowingReturnRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	}

	returnDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ActualReturnDate != "" {
		var err error
		returnDate, err = parseDate(req.ActualReturnDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "actual_return_date must be formatted as YYYY-MM-DD"})
			return
		}
	}
	if returnDate.Before(borrowing.BorrowDate) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": models.ErrActualBeforeDate.Error()})
		return
	}

	// Closing the borrowing and restoring the copy commit together. The
	// conditional update on the open record makes a second return a no-op
	// that leaves inventory untouched.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Borrowing{}).
			Where("id = ? AND actual_return_date IS NULL", borrowing.ID).
			Update("actual_return_date", returnDate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}
		return tx.Model(&models.Book{}).
			Where("id = ?", borrowing.BookID).
			Update("inventory", gorm.Expr("inventory + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyReturned) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Get().Error().Err(err).Msg("failed to return borrowing")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to return borrowing"})
		return
	}

	if err := s.db.Preload("Book").Preload("User").First(&borrowing, borrowing.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, newBorrowingView(borrowing))
}

// findBorrowing loads the borrowing from the :id route param. Non-staff
// callers only see their own records; anything else is a 404.
func (s *Server) findBorrowing(ctx *gin.Context, principal auth.Principal) (models.Borrowing, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "borrowing not found"})
		return models.Borrowing{}, false
	}

	query := s.db.Preload("Book").Preload("User").Where("id = ?", id)
	if !principal.IsStaff {
		query = query.Where("user_id = ?", principal.UserID)
	}

	var borrowing models.Borrowing
	if err := query.First(&borrowing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "borrowing not found"})
			return models.Borrowing{}, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return models.Borrowing{}, false
	}
	return borrowing, true
}
