package dto

import "github.com/hrlab/worktime-api/internal/models"

// EmployeeCreateRequest captures POST /employees payload.
type EmployeeCreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Surname string `json:"surname" binding:"required,min=1,max=100"`
}

// EmployeeUpdateRequest captures PUT /employees/:id payload.
type EmployeeUpdateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Surname string `json:"surname" binding:"required,min=1,max=100"`
}

// EmployeeListQuery captures employee listing query parameters.
type EmployeeListQuery struct {
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// Filter converts the query into a repository filter.
func (q EmployeeListQuery) Filter() models.EmployeeFilter {
	return models.EmployeeFilter{
		Search:    q.Search,
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}
