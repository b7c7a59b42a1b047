package service

import (
	"context"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, search string, page, limit int) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Comment:  req.Comment,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apierror.Internal("no se pudo crear el cliente", err)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "cliente no encontrado")
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, search string, page, limit int) (*dto.CustomerListResponse, error) {
	list, total, err := s.repo.List(ctx, search, repository.Page{Page: page, Limit: limit})
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los clientes", err)
	}
	data := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		data = append(data, customerToResponse(&list[i]))
	}
	return &dto.CustomerListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "cliente no encontrado")
	}
	c.Name = req.Name
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	c.Comment = req.Comment
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, apierror.Internal("no se pudo actualizar el cliente", err)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

// Delete deactivates the customer; closed orders keep their reference.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "cliente no encontrado")
	}
	return nil
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Comment: c.Comment,
	}
}
