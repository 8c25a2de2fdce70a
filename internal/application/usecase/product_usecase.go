package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
)

// ProductUseCase altas, ediciones y listado de productos del inventario.
type ProductUseCase struct {
	repo     repository.ProductRepository
	recorder *audit.Recorder
}

// NewProductUseCase construye el caso de uso de productos.
func NewProductUseCase(repo repository.ProductRepository, recorder *audit.Recorder) *ProductUseCase {
	return &ProductUseCase{repo: repo, recorder: recorder}
}

// Create da de alta un producto. Name y SKU no pueden ser vacíos; Quantity >= 0.
func (uc *ProductUseCase) Create(ctx context.Context, actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.SKU) == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		SKU:       in.SKU,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.recorder.Record(actor, "create_product", fmt.Sprintf("id=%s, sku=%s", product.ID, product.SKU))
	return dto.ToProductResponse(product), nil
}

// Update edita nombre, sku y stock de un producto existente. Quantity aquí es una
// corrección explícita; el consumo por órdenes pasa por el motor de órdenes.
func (uc *ProductUseCase) Update(ctx context.Context, actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.SKU) == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	product.Name = in.Name
	product.SKU = in.SKU
	product.Quantity = in.Quantity
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.recorder.Record(actor, "update_product", "id="+id)
	return dto.ToProductResponse(product), nil
}

// List devuelve todos los productos. Cualquier identidad autenticada puede leerlos.
func (uc *ProductUseCase) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}
