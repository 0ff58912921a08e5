package handlers

import "restrolytics-backend/internal/models"

type RestaurantsResponse struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Pagination  PaginationResponse  `json:"pagination"`
	Loading     bool                `json:"loading"`
}

type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
