package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-api/pkg/auth"
	"library-api/pkg/config"
)

type Server struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{db: db, cfg: cfg}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	authed := auth.Middleware(s.cfg.JWTSecret)
	staff := auth.StaffOnly()

	books := router.Group("/books")
	{
		books.GET("", s.listBooks)
		books.GET("/:id", s.getBook)
		books.POST("", authed, staff, s.createBook)
		books.PUT("/:id", authed, staff, s.updateBook)
		books.PATCH("/:id", authed, staff, s.patchBook)
		books.DELETE("/:id", authed, staff, s.deleteBook)
	}

	users := router.Group("/users")
	{
		users.POST("/register", s.register)
		users.GET("/me", authed, s.getProfile)
		users.PATCH("/me", authed, s.updateProfile)
	}

	borrowings := router.Group("/borrowings", authed)
	{
		borrowings.GET("", s.listBorrowings)
		borrowings.GET("/:id", s.getBorrowing)
		borrowings.POST("", s.createBorrowing)
		borrowings.POST("/:id/return", s.returnBorrowing)
	}

	router.GET("/manage/health", s.healthCheck)

	return router
}

func (s *Server) healthCheck(ctx *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "UP"})
}
