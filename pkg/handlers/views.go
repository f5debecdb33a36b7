package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"library-api/pkg/models"
)

const dateLayout = "2006-01-02"

// Response shapes are defined per operation: the list projection of a book is
// narrower than its detail, and a customer never exposes the password hash.

type bookListItem struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Cover  string `json:"cover"`
}

type bookDetail struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Cover     string  `json:"cover"`
	Inventory int     `json:"inventory"`
	DailyFee  float64 `json:"daily_fee"`
}

type customerView struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

type borrowingView struct {
	ID                 uint         `json:"id"`
	BorrowDate         string       `json:"borrow_date"`
	ExpectedReturnDate string       `json:"expected_return_date"`
	ActualReturnDate   *string      `json:"actual_return_date"`
	Book               bookDetail   `json:"book"`
	User               customerView `json:"user"`
}

type pageEnvelope struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	Items         any   `json:"items"`
}

func newBookListItem(b models.Book) bookListItem {
	return bookListItem{ID: b.ID, Title: b.Title, Author: b.Author, Cover: b.Cover}
}

func newBookDetail(b models.Book) bookDetail {
	return bookDetail{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Cover:     b.Cover,
		Inventory: b.Inventory,
		DailyFee:  b.DailyFee,
	}
}

func newCustomerView(c models.Customer) customerView {
	return customerView{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		IsStaff:   c.IsStaff,
	}
}

func newBorrowingView(b models.Borrowing) borrowingView {
	var returned *string
	if b.ActualReturnDate != nil {
		d := b.ActualReturnDate.Format(dateLayout)
		returned = &d
	}
	return borrowingView{
		ID:                 b.ID,
		BorrowDate:         b.BorrowDate.Format(dateLayout),
		ExpectedReturnDate: b.ExpectedReturnDate.Format(dateLayout),
		ActualReturnDate:   returned,
		Book:               newBookDetail(b.Book),
		User:               newCustomerView(b.User),
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// pagination reads the page/size query params, clamping to sane defaults.
func pagination(ctx *gin.Context) (page, size int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(ctx.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}
	return page, size
}
