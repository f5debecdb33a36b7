package models

import (
	"errors"
	"time"
)

const (
	CoverHard = "HARD"
	CoverSoft = "SOFT"
)

var (
	ErrInvalidCover       = errors.New("cover must be HARD or SOFT")
	ErrNegativeInventory  = errors.New("inventory must be greater or equal than 0")
	ErrNegativeDailyFee   = errors.New("daily fee must be greater or equal than 0")
	ErrExpectedBeforeDate = errors.New("expected return date should be greater or equal than borrow date")
	ErrActualBeforeDate   = errors.New("actual return date should be greater or equal than borrow date")
)

type Book struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"size:255;not null"`
	Author    string  `gorm:"size:255;not null"`
	Cover     string  `gorm:"size:10;not null"`
	Inventory int     `gorm:"not null;check:inventory >= 0"`
	DailyFee  float64 `gorm:"type:decimal(10,2);not null;check:daily_fee >= 0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	FirstName string `gorm:"size:255"`
	LastName  string `gorm:"size:255"`
	IsStaff   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Borrowing struct {
	ID                 uint       `gorm:"primaryKey"`
	BorrowDate         time.Time  `gorm:"type:date;not null"`
	ExpectedReturnDate time.Time  `gorm:"type:date;not null;check:expected_return_date >= borrow_date"`
	ActualReturnDate   *time.Time `gorm:"type:date;check:actual_return_date IS NULL OR actual_return_date >= borrow_date"`
	BookID             uint       `gorm:"not null"`
	UserID             uint       `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Book Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	User Customer `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Validate checks the invariants that must hold before a book is written,
// independent of the database constraints.
func (b Book) Validate() error {
	if b.Cover != CoverHard && b.Cover != CoverSoft {
		return ErrInvalidCover
	}
	if b.Inventory < 0 {
		return ErrNegativeInventory
	}
	if b.DailyFee < 0 {
		return ErrNegativeDailyFee
	}
	return nil
}

// Validate checks the chronological ordering of the borrowing dates.
func (b Borrowing) Validate() error {
	if b.ExpectedReturnDate.Before(b.BorrowDate) {
		return ErrExpectedBeforeDate
	}
	if b.ActualReturnDate != nil && b.ActualReturnDate.Before(b.BorrowDate) {
		return ErrActualBeforeDate
	}
	return nil
}

// Active reports whether the book is still checked out.
func (b Borrowing) Active() bool {
	return b.ActualReturnDate == nil
}
