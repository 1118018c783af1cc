package httpapi

import (
	"time"

	"kaizen-backend-go/internal/services"
)

type CaseDTO struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	FactoryID      int64     `json:"factoryId"`
	FactoryName    string    `json:"factoryName"`
	DepartmentID   int64     `json:"departmentId"`
	DepartmentName string    `json:"departmentName"`
	UserID         int64     `json:"userId"`
	Username       string    `json:"username"`
	ViewCount      int       `json:"viewCount"`
	LikeCount      int       `json:"likeCount"`
	CommentCount   int       `json:"commentCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Images         []string  `json:"images"`
}

type CommentDTO struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type TopCaseDTO struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	ViewCount      int    `json:"viewCount"`
	LikeCount      int    `json:"likeCount"`
	CommentCount   int    `json:"commentCount"`
	FactoryName    string `json:"factoryName"`
	DepartmentName string `json:"departmentName"`
}

type LikeResponse struct {
	LikeCount int `json:"likeCount"`
}

type StatisticsResponse struct {
	TotalCases int64 `json:"totalCases"`
}

func toCaseDTO(view services.CaseView) CaseDTO {
	images := view.Images
	if images == nil {
		images = []string{}
	}
	return CaseDTO{
		ID:             view.ID,
		Title:          view.Title,
		Description:    view.Description,
		FactoryID:      view.FactoryID,
		FactoryName:    view.FactoryName,
		DepartmentID:   view.DepartmentID,
		DepartmentName: view.DepartmentName,
		UserID:         view.UserID,
		Username:       view.Username,
		ViewCount:      view.ViewCount,
		LikeCount:      view.LikeCount,
		CommentCount:   view.CommentCount,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
		Images:         images,
	}
}

func toCaseDTOs(views []services.CaseView) []CaseDTO {
	items := make([]CaseDTO, 0, len(views))
	for _, view := range views {
		items = append(items, toCaseDTO(view))
	}
	return items
}

func toCommentDTO(comment services.CommentView) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		UserID:    comment.UserID,
		Username:  comment.Username,
		CreatedAt: comment.CreatedAt,
	}
}
