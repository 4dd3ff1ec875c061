package dto

import "github.com/vitacross/vitacross-api/internal/models"

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserListResponse struct {
	Data   []models.User `json:"data"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type DashboardResponse struct {
	TotalUsers            int64            `json:"totalUsers"`
	TotalOrders           int64            `json:"totalOrders"`
	PendingOrders         int64            `json:"pendingOrders"`
	Revenue               float64          `json:"revenue"`
	ConsultationsByStatus map[string]int64 `json:"consultationsByStatus"`
	RecentUsers           []models.User    `json:"recentUsers"`
	RecentOrders          []models.Order   `json:"recentOrders"`
}

type UpsertSettingRequest struct {
	Value string `json:"value"`
	Type  string `json:"type" validate:"omitempty,oneof=string bool int json"`
}
