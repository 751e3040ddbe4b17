package billing

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes del usuario.
type ClientUseCase struct {
	repo repository.ClientRepository
	now  func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo cliente.
func (uc *ClientUseCase) Create(ctx context.Context, userID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Address:   in.Address,
		Phone:     in.Phone,
		TaxID:     in.TaxID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// List lista los clientes del usuario.
func (uc *ClientUseCase) List(ctx context.Context, userID string) ([]dto.ClientResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Get devuelve un cliente del usuario.
func (uc *ClientUseCase) Get(ctx context.Context, userID, id string) (*dto.ClientResponse, error) {
	c, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, userID, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	c, err := uc.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Email, c.Company = in.Name, in.Email, in.Company
	c.Address, c.Phone, c.TaxID = in.Address, in.Phone, in.TaxID
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toClientResponse(c)
	return &out, nil
}

// Delete elimina el cliente. ErrConflict si todavía tiene facturas.
func (uc *ClientUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.load(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ClientUseCase) load(ctx context.Context, userID, id string) (*entity.Client, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.UserID != userID {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func validateClient(in *dto.ClientRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return fmt.Errorf("%w: el nombre del cliente es obligatorio", domain.ErrInvalidInput)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: el email del cliente es obligatorio", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return nil
}
