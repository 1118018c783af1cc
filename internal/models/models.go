package models

import "time"

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Email        *string   `db:"email"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

type Factory struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Department struct {
	ID        int64  `db:"id" json:"id"`
	FactoryID int64  `db:"factory_id" json:"factoryId"`
	Name      string `db:"name" json:"name"`
}

// ImprovementCase keeps denormalized counters; each one must match its
// child rows (likes, comments) or logged views.
type ImprovementCase struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	FactoryID    int64     `db:"factory_id"`
	DepartmentID int64     `db:"department_id"`
	UserID       int64     `db:"user_id"`
	ViewCount    int       `db:"view_count"`
	LikeCount    int       `db:"like_count"`
	CommentCount int       `db:"comment_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type CaseImage struct {
	ID         int64     `db:"id"`
	CaseID     int64     `db:"case_id"`
	ImagePath  string    `db:"image_path"`
	ImageOrder int       `db:"image_order"`
	CreatedAt  time.Time `db:"created_at"`
}

type Like struct {
	ID        int64     `db:"id"`
	CaseID    int64     `db:"case_id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type ViewLog struct {
	ID         int64     `db:"id"`
	CaseID     int64     `db:"case_id"`
	UserID     int64     `db:"user_id"`
	ViewedDate string    `db:"viewed_date"`
	CreatedAt  time.Time `db:"created_at"`
}

type Comment struct {
	ID        int64     `db:"id"`
	CaseID    int64     `db:"case_id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
