package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// Estados de pasarela expuestos.
const (
	GatewayActive        = "active"
	GatewayConfigured    = "configured"
	GatewayNotConfigured = "not_configured"
)

// gatewayOrder orden de presentación.
var gatewayOrder = []string{
	entity.GatewayStripe, entity.GatewayPayPal, entity.GatewayPayoneer,
	entity.GatewayLemonSqueezy, entity.GatewayXoom, entity.GatewayWise,
}

const maskPrefix = "••••"

// GatewayUseCase configuración de pasarelas de pago.
type GatewayUseCase struct {
	repo repository.PaymentGatewayRepository
	now  func() time.Time
}

// NewGatewayUseCase construye el caso de uso.
func NewGatewayUseCase(repo repository.PaymentGatewayRepository) *GatewayUseCase {
	return &GatewayUseCase{repo: repo, now: time.Now}
}

// List todas las pasarelas soportadas con su estado; los secretos van enmascarados.
func (uc *GatewayUseCase) List(ctx context.Context, userID string) ([]dto.PaymentGatewayResponse, error) {
	stored, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*entity.PaymentGateway, len(stored))
	for _, g := range stored {
		byType[g.GatewayType] = g
	}
	out := make([]dto.PaymentGatewayResponse, 0, len(gatewayOrder))
	for _, t := range gatewayOrder {
		g, ok := byType[t]
		if !ok {
			g = &entity.PaymentGateway{GatewayType: t}
		}
		out = append(out, toGatewayResponse(g))
	}
	return out, nil
}

// Save upsert por (usuario, tipo). Un valor enmascarado igual al devuelto por List
// conserva el secreto guardado.
func (uc *GatewayUseCase) Save(ctx context.Context, userID, gatewayType string, in dto.PaymentGatewayRequest) (*dto.PaymentGatewayResponse, error) {
	t := strings.ToLower(strings.TrimSpace(gatewayType))
	fields, ok := entity.GatewayFields[t]
	if !ok {
		return nil, fmt.Errorf("%w: pasarela %q desconocida", domain.ErrInvalidInput, gatewayType)
	}
	known := make(map[string]entity.GatewayField, len(fields))
	for _, f := range fields {
		known[f.Key] = f
	}
	for k := range in.Config {
		if _, ok := known[k]; !ok {
			return nil, fmt.Errorf("%w: clave %q no aplica a %s", domain.ErrInvalidInput, k, t)
		}
	}
	prev, err := uc.repo.GetByUserAndType(ctx, userID, t)
	if err != nil {
		return nil, err
	}

	cfg := make(map[string]string, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(in.Config[f.Key])
		if f.Secret && prev != nil && v != "" && v == MaskSecret(prev.Config[f.Key]) {
			v = prev.Config[f.Key]
		}
		if v != "" {
			cfg[f.Key] = v
		}
	}
	now := uc.now()
	g := &entity.PaymentGateway{
		ID:          uuid.New().String(),
		UserID:      userID,
		GatewayType: t,
		IsActive:    in.IsActive,
		Config:      cfg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive && !g.IsConfigured() {
		return nil, fmt.Errorf("%w: faltan claves para activar %s", domain.ErrInvalidInput, t)
	}
	if err := uc.repo.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("guardar pasarela: %w", err)
	}
	out := toGatewayResponse(g)
	return &out, nil
}

// MaskSecret deja visibles los últimos 4 caracteres. Ej: "sk_test_abcd1234" → "••••1234".
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 4 {
		return maskPrefix
	}
	return maskPrefix + string(r[len(r)-4:])
}

// GatewayStatus active | configured | not_configured.
func GatewayStatus(g *entity.PaymentGateway) string {
	switch {
	case g.IsUsable():
		return GatewayActive
	case g.IsConfigured():
		return GatewayConfigured
	default:
		return GatewayNotConfigured
	}
}

func toGatewayResponse(g *entity.PaymentGateway) dto.PaymentGatewayResponse {
	fields := entity.GatewayFields[g.GatewayType]
	out := dto.PaymentGatewayResponse{
		ID:          g.ID,
		GatewayType: g.GatewayType,
		IsActive:    g.IsActive,
		Status:      GatewayStatus(g),
		Fields:      make([]string, 0, len(fields)),
		Config:      make(map[string]string, len(g.Config)),
	}
	for _, f := range fields {
		out.Fields = append(out.Fields, f.Key)
		v, ok := g.Config[f.Key]
		if !ok {
			continue
		}
		if f.Secret {
			v = MaskSecret(v)
		}
		out.Config[f.Key] = v
	}
	return out
}
