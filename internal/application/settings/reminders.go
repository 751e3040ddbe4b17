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

// ReminderUseCase configuración de recordatorios (una por tipo y usuario).
type ReminderUseCase struct {
	repo      repository.ReminderSettingRepository
	templates repository.EmailTemplateRepository
	now       func() time.Time
}

// NewReminderUseCase construye el caso de uso.
func NewReminderUseCase(repo repository.ReminderSettingRepository, templates repository.EmailTemplateRepository) *ReminderUseCase {
	return &ReminderUseCase{repo: repo, templates: templates, now: time.Now}
}

// List devuelve los tres tipos. Los no guardados salen con los días por defecto e inactivos:
// el resolvedor solo usa configuraciones guardadas.
func (uc *ReminderUseCase) List(ctx context.Context, userID string) ([]dto.ReminderSettingResponse, error) {
	stored, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byKind := make(map[entity.ReminderKind]*entity.ReminderSetting, len(stored))
	for _, s := range stored {
		byKind[s.Kind] = s
	}
	out := make([]dto.ReminderSettingResponse, 0, len(entity.ReminderKinds))
	for _, k := range entity.ReminderKinds {
		if s, ok := byKind[k]; ok {
			out = append(out, toReminderResponse(s))
			continue
		}
		out = append(out, dto.ReminderSettingResponse{
			Kind:       string(k),
			DaysOffset: entity.DefaultReminderOffsets[k],
		})
	}
	return out, nil
}

// Save upsert idempotente por (usuario, tipo).
func (uc *ReminderUseCase) Save(ctx context.Context, userID, kind string, in dto.ReminderSettingRequest) (*dto.ReminderSettingResponse, error) {
	k := entity.ReminderKind(strings.ToLower(strings.TrimSpace(kind)))
	if !k.Valid() {
		return nil, fmt.Errorf("%w: tipo de recordatorio %q desconocido", domain.ErrInvalidInput, kind)
	}
	if in.DaysOffset < 0 {
		return nil, fmt.Errorf("%w: los días no pueden ser negativos", domain.ErrInvalidInput)
	}
	templateID := strings.TrimSpace(in.EmailTemplateID)
	if templateID != "" {
		if err := uc.ensureTemplate(ctx, userID, templateID); err != nil {
			return nil, err
		}
	}
	now := uc.now()
	s := &entity.ReminderSetting{
		ID:              uuid.New().String(),
		UserID:          userID,
		Kind:            k,
		DaysOffset:      in.DaysOffset,
		IsActive:        in.IsActive,
		EmailTemplateID: templateID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, fmt.Errorf("guardar recordatorio: %w", err)
	}
	out := toReminderResponse(s)
	return &out, nil
}

func (uc *ReminderUseCase) ensureTemplate(ctx context.Context, userID, templateID string) error {
	list, err := uc.templates.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, t := range list {
		if t.ID == templateID {
			return nil
		}
	}
	return fmt.Errorf("%w: plantilla %s", domain.ErrNotFound, templateID)
}

func toReminderResponse(s *entity.ReminderSetting) dto.ReminderSettingResponse {
	updated := s.UpdatedAt
	return dto.ReminderSettingResponse{
		ID:              s.ID,
		Kind:            string(s.Kind),
		DaysOffset:      s.DaysOffset,
		IsActive:        s.IsActive,
		EmailTemplateID: s.EmailTemplateID,
		Stored:          true,
		UpdatedAt:       &updated,
	}
}
