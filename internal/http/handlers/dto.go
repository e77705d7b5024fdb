package handlers

import "github.com/rogerio-castellano/inventory-search/internal/models"

// ProductsSearchResult documents the success body; products are flat
// attribute maps of strings and numbers.
type ProductsSearchResult struct {
	Count    int              `json:"count" example:"1"`
	Products []models.Product `json:"products"`
}

type PreflightResult struct {
	Message string `json:"message" example:"CORS preflight"`
}

type ErrorResult struct {
	Error string `json:"error" example:"invalid minPrice \"abc\": can't convert abc to decimal"`
}

type HealthResult struct {
	Status  string `json:"status" example:"ok"`
	Backend string `json:"backend" example:"memory"`
}
