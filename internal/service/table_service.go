package service

import (
	"context"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
)

type TableService interface {
	Create(ctx context.Context, req dto.TableRequest) (*dto.TableResponse, error)
	List(ctx context.Context) ([]dto.TableResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.TableRequest) (*dto.TableResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tableService struct {
	repo repository.TableRepository
}

func NewTableService(repo repository.TableRepository) TableService {
	return &tableService{repo: repo}
}

func (s *tableService) Create(ctx context.Context, req dto.TableRequest) (*dto.TableResponse, error) {
	t := &model.Table{Name: req.Name, Capacity: req.Capacity, State: model.TableAvailable, IsActive: true}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, duplicateOr(err, "ya existe la mesa "+req.Name, "no se pudo crear la mesa")
	}
	resp := tableToResponse(t)
	return &resp, nil
}

func (s *tableService) List(ctx context.Context) ([]dto.TableResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar las mesas", err)
	}
	resp := make([]dto.TableResponse, 0, len(list))
	for i := range list {
		resp = append(resp, tableToResponse(&list[i]))
	}
	return resp, nil
}

func (s *tableService) Update(ctx context.Context, id uuid.UUID, req dto.TableRequest) (*dto.TableResponse, error) {
	t, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFoundOr(err, "mesa no encontrada")
	}
	t.Name = req.Name
	t.Capacity = req.Capacity
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, duplicateOr(err, "ya existe la mesa "+req.Name, "no se pudo actualizar la mesa")
	}
	resp := tableToResponse(t)
	return &resp, nil
}

// Delete deactivates a free table. A table with a live order cannot go.
func (s *tableService) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return notFoundOr(err, "mesa no encontrada")
	}
	if t.State != model.TableAvailable {
		return apierror.Conflict("la mesa tiene una orden en curso")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Internal("no se pudo eliminar la mesa", err)
	}
	return nil
}

func tableToResponse(t *model.Table) dto.TableResponse {
	return dto.TableResponse{ID: t.ID.String(), Name: t.Name, Capacity: t.Capacity, State: t.State}
}
