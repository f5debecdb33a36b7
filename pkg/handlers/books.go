package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-api/pkg/logger"
	"library-api/pkg/models"
)

type bookRequest struct {
	Title     string   `json:"title" binding:"required"`
	Author    string   `json:"author" binding:"required"`
	Cover     string   `json:"cover" binding:"required"`
	Inventory *int     `json:"inventory" binding:"required"`
	DailyFee  *float64 `json:"daily_fee" binding:"required"`
}

type bookPatchRequest struct {
	Title     *string  `json:"title"`
	Author    *string  `json:"author"`
	Cover     *string  `json:"cover"`
	Inventory *int     `json:"inventory"`
	DailyFee  *float64 `json:"daily_fee"`
}

func (s *Server) listBooks(ctx *gin.Context) {
	page, size := pagination(ctx)

	var total int64
	if err := s.db.Model(&models.Book{}).Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var books []models.Book
	err := s.db.Order("title, author").
		Offset((page - 1) * size).
		Limit(size).
		Find(&books).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]bookListItem, len(books))
	for i, b := range books {
		items[i] = newBookListItem(b)
	}
	ctx.JSON(http.StatusOK, pageEnvelope{
		Page:          page,
		PageSize:      size,
		TotalElements: total,
		Items:         items,
	})
}

func (s *Server) getBook(ctx *gin.Context) {
	book, ok := s.findBook(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, newBookDetail(book))
}

func (s *Server) createBook(ctx *gin.Context) {
	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	book := models.Book{
		Title:     req.Title,
		Author:    req.Author,
		Cover:     req.Cover,
		Inventory: *req.Inventory,
		DailyFee:  *req.DailyFee,
	}
	if err := book.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Create(&book).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to create book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	ctx.JSON(http.StatusCreated, newBookDetail(book))
}

func (s *Server) updateBook(ctx *gin.Context) {
	book, ok := s.findBook(ctx)
	if !ok {
		return
	}

	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	book.Title = req.Title
	book.Author = req.Author
	book.Cover = req.Cover
	book.Inventory = *req.Inventory
	book.DailyFee = *req.DailyFee
	if err := book.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Save(&book).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to update book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	ctx.JSON(http.StatusOK, newBookDetail(book))
}

func (s *Server) patchBook(ctx *gin.Context) {
	book, ok := s.findBook(ctx)
	if !ok {
		return
	}

	var req bookPatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Cover != nil {
		book.Cover = *req.Cover
	}
	if req.Inventory != nil {
		book.Inventory = *req.Inventory
	}
	if req.DailyFee != nil {
		book.DailyFee = *req.DailyFee
	}
	if err := book.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.db.Save(&book).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to update book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	ctx.JSON(http.StatusOK, newBookDetail(book))
}

func (s *Server) deleteBook(ctx *gin.Context) {
	book, ok := s.findBook(ctx)
	if !ok {
		return
	}
	if err := s.db.Delete(&book).Error; err != nil {
		logger.Get().Error().Err(err).Msg("failed to delete book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// findBook loads the book from the :id route param, replying 404 on a bad id
// or a missing row.
func (s *Server) findBook(ctx *gin.Context) (models.Book, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return models.Book{}, false
	}

	var book models.Book
	if err := s.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return models.Book{}, false
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return models.Book{}, false
	}
	return book, true
}
