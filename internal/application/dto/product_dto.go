package dto

import "github.com/tu-usuario/inventory-ops/internal/domain/entity"

// CreateProductRequest alta de producto (manager|admin).
type CreateProductRequest struct {
	Name     string `json:"name" validate:"required"`
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

// UpdateProductRequest edición de producto (manager|admin). Quantity aquí es una
// corrección explícita de stock, no un movimiento por orden.
type UpdateProductRequest struct {
	Name     string `json:"name" validate:"required"`
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{ID: p.ID, Name: p.Name, SKU: p.SKU, Quantity: p.Quantity}
}
