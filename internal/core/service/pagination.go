package service

import "taskapp/internal/core/model/response"

func NewPagination(total int64, page, limit int) response.Pagination {
	totalPages := 0

	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return response.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNextPage: int64(page)*int64(limit) < total,
		HasPrevPage: page > 1,
	}
}
