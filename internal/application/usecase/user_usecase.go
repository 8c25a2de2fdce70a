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
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase administración de cuentas locales (panel admin).
type UserUseCase struct {
	repo     repository.AccountRepository
	recorder *audit.Recorder
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(repo repository.AccountRepository, recorder *audit.Recorder) *UserUseCase {
	return &UserUseCase{repo: repo, recorder: recorder}
}

// Create da de alta una cuenta local con password bcrypt. Solo la invoca un admin.
func (uc *UserUseCase) Create(ctx context.Context, actor string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" || !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}
	account := &entity.Account{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.recorder.Record(actor, "create_user", fmt.Sprintf("id=%s, role=%s", account.ID, account.Role))
	return dto.ToUserResponse(account), nil
}

// List devuelve todas las cuentas, sin hashes de credencial.
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	accounts, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]*dto.UserResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.ToUserResponse(a))
	}
	return out, nil
}
