package httpapi

import (
	"net/http"
	"time"

	"kaizen-backend-go/internal/services"
)

func (s *Server) TopViews(w http.ResponseWriter, r *http.Request) {
	items, err := services.TopViewedThisMonth(r.Context(), s.DB, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]TopCaseDTO, 0, len(items))
	for _, item := range items {
		out = append(out, TopCaseDTO{
			ID:             item.ID,
			Title:          item.Title,
			ViewCount:      item.ViewCount,
			LikeCount:      item.LikeCount,
			CommentCount:   item.CommentCount,
			FactoryName:    item.FactoryName,
			DepartmentName: item.DepartmentName,
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

func (s *Server) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := services.GetStatistics(r.Context(), s.DB)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, StatisticsResponse{TotalCases: stats.TotalCases})
}
