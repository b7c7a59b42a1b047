package service

import (
	"context"
	"errors"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ToppingsGroupService interface {
	Create(ctx context.Context, req dto.ToppingsGroupRequest) (*dto.ToppingsGroupResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ToppingsGroupResponse, error)
	List(ctx context.Context, all bool) ([]dto.ToppingsGroupResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ToppingsGroupRequest) (*dto.ToppingsGroupResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// groupKind carries what differs between toppings and sauce groups.
type groupKind struct {
	name     string
	notFound string
	created  string
	updated  string
	deleted  string
}

var groupKinds = map[string]groupKind{
	model.GroupKindToppings: {
		name:     model.GroupKindToppings,
		notFound: "grupo de toppings no encontrado",
		created:  EventToppingsGroupCreated,
		updated:  EventToppingsGroupUpdated,
		deleted:  EventToppingsGroupDeleted,
	},
	model.GroupKindSauce: {
		name:     model.GroupKindSauce,
		notFound: "grupo de salsas no encontrado",
		created:  EventSauceGroupCreated,
		updated:  EventSauceGroupUpdated,
		deleted:  EventSauceGroupDeleted,
	},
}

type toppingsGroupService struct {
	kind        groupKind
	repo        repository.ToppingsGroupRepository
	ingredients repository.IngredientRepository
	events      EventPublisher
	cache       CatalogCache
}

// NewToppingsGroupService returns a service scoped to one group kind
// (model.GroupKindToppings or model.GroupKindSauce). Groups of the other kind
// are invisible to it. Unknown kinds fall back to toppings.
func NewToppingsGroupService(
	kind string,
	repo repository.ToppingsGroupRepository,
	ingredients repository.IngredientRepository,
	events EventPublisher,
	cache CatalogCache,
) ToppingsGroupService {
	k, ok := groupKinds[kind]
	if !ok {
		k = groupKinds[model.GroupKindToppings]
	}
	return &toppingsGroupService{kind: k, repo: repo, ingredients: ingredients, events: events, cache: cache}
}

func (s *toppingsGroupService) Create(ctx context.Context, req dto.ToppingsGroupRequest) (*dto.ToppingsGroupResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Conflict("ya existe el grupo " + req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal("no se pudo consultar el grupo", err)
	}
	toppings, err := s.loadToppings(ctx, req.ToppingIDs)
	if err != nil {
		return nil, err
	}
	g := &model.ToppingsGroup{Name: req.Name, Kind: s.kind.name, IsActive: true}
	if err := s.repo.Create(ctx, g, toppings); err != nil {
		return nil, duplicateOr(err, "ya existe el grupo "+req.Name, "no se pudo crear el grupo")
	}
	if req.IsActive != nil && !*req.IsActive {
		// gorm skips a false bool on insert when the column has a default
		g.IsActive = false
		if err := s.repo.Update(ctx, g, nil); err != nil {
			return nil, apierror.Internal("no se pudo crear el grupo", err)
		}
	}
	log.Info().Str("toppings_group_id", g.ID.String()).Str("kind", g.Kind).Msg("toppings group created")
	return s.announce(ctx, g.ID, s.kind.created)
}

// find loads a group of this service's kind.
func (s *toppingsGroupService) find(ctx context.Context, id uuid.UUID) (*model.ToppingsGroup, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, s.kind.notFound)
	}
	if g.Kind != s.kind.name {
		return nil, apierror.NotFound(s.kind.notFound)
	}
	return g, nil
}

func (s *toppingsGroupService) Get(ctx context.Context, id uuid.UUID) (*dto.ToppingsGroupResponse, error) {
	g, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toppingsGroupToResponse(g)
	return &resp, nil
}

func (s *toppingsGroupService) List(ctx context.Context, all bool) ([]dto.ToppingsGroupResponse, error) {
	list, err := s.repo.List(ctx, s.kind.name, !all)
	if err != nil {
		return nil, apierror.Internal("no se pudo listar los grupos", err)
	}
	resp := make([]dto.ToppingsGroupResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toppingsGroupToResponse(&list[i]))
	}
	return resp, nil
}

// Update renames the group and, when topping_ids is sent, replaces its
// toppings. An empty list clears them.
func (s *toppingsGroupService) Update(ctx context.Context, id uuid.UUID, req dto.ToppingsGroupRequest) (*dto.ToppingsGroupResponse, error) {
	g, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.repo.FindByName(ctx, req.Name); err == nil && other.ID != id {
		return nil, apierror.Conflict("ya existe el grupo " + req.Name)
	}
	var toppings []model.Ingredient
	if req.ToppingIDs != nil {
		if toppings, err = s.loadToppings(ctx, req.ToppingIDs); err != nil {
			return nil, err
		}
		if toppings == nil {
			toppings = []model.Ingredient{}
		}
	}
	g.Name = req.Name
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	g.Toppings = nil
	if err := s.repo.Update(ctx, g, toppings); err != nil {
		return nil, duplicateOr(err, "ya existe el grupo "+req.Name, "no se pudo actualizar el grupo")
	}
	return s.announce(ctx, id, s.kind.updated)
}

func (s *toppingsGroupService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, s.kind.notFound)
	}
	s.invalidate(ctx)
	if s.events != nil {
		s.events.Publish(s.kind.deleted, map[string]string{"id": id.String()})
	}
	log.Info().Str("toppings_group_id", id.String()).Str("kind", s.kind.name).Msg("toppings group deleted")
	return nil
}

func (s *toppingsGroupService) loadToppings(ctx context.Context, raw []string) ([]model.Ingredient, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool)
	for _, r := range raw {
		id, err := parseID("topping_ids", r)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	list, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apierror.Internal("no se pudo leer los ingredientes", err)
	}
	if len(list) != len(ids) {
		return nil, apierror.NotFound("algún topping no existe")
	}
	return list, nil
}

func (s *toppingsGroupService) announce(ctx context.Context, id uuid.UUID, event string) (*dto.ToppingsGroupResponse, error) {
	s.invalidate(ctx)
	resp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.Publish(event, resp)
	}
	return resp, nil
}

func (s *toppingsGroupService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func toppingsGroupToResponse(g *model.ToppingsGroup) dto.ToppingsGroupResponse {
	r := dto.ToppingsGroupResponse{
		ID:       g.ID.String(),
		Name:     g.Name,
		Kind:     g.Kind,
		IsActive: g.IsActive,
		Toppings: make([]dto.IngredientResponse, 0, len(g.Toppings)),
	}
	for i := range g.Toppings {
		r.Toppings = append(r.Toppings, ingredientToResponse(&g.Toppings[i]))
	}
	return r
}
