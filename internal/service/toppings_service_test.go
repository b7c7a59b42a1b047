package service

import (
	"context"
	"testing"

	"hygpos/internal/apierror"
	"hygpos/internal/dto"
	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupsFixture struct {
	cat      *memCatalog
	pub      *recordingPublisher
	cache    *memCache
	toppings ToppingsGroupService
	sauces   ToppingsGroupService
	cheddar  *model.Ingredient
	mayo     *model.Ingredient
}

func newGroupsFixture() *groupsFixture {
	f := &groupsFixture{cat: newMemCatalog(), pub: &recordingPublisher{}, cache: &memCache{warm: true}}
	f.cheddar = f.cat.addIngredient("Cheddar", "300", nil)
	f.mayo = f.cat.addIngredient("Mayonesa", "50", nil)
	repo, ingredients := memToppingsRepo{f.cat}, memIngredientRepo{f.cat}
	f.toppings = NewToppingsGroupService(model.GroupKindToppings, repo, ingredients, f.pub, f.cache)
	f.sauces = NewToppingsGroupService(model.GroupKindSauce, repo, ingredients, f.pub, f.cache)
	return f
}

func TestToppingsGroup_CreateAnnouncesAndInvalidates(t *testing.T) {
	f := newGroupsFixture()

	g, err := f.toppings.Create(context.Background(), dto.ToppingsGroupRequest{
		Name:       "Quesos",
		ToppingIDs: []string{f.cheddar.ID.String(), f.cheddar.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, model.GroupKindToppings, g.Kind)
	require.Len(t, g.Toppings, 1)
	assert.Equal(t, "Cheddar", g.Toppings[0].Name)
	assert.Equal(t, []string{EventToppingsGroupCreated}, f.pub.names())
	assert.False(t, f.cache.warm)
}

func TestToppingsGroup_KindsAreSeparate(t *testing.T) {
	f := newGroupsFixture()
	ctx := context.Background()

	sauce, err := f.sauces.Create(ctx, dto.ToppingsGroupRequest{Name: "Salsas", ToppingIDs: []string{f.mayo.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, model.GroupKindSauce, sauce.Kind)
	_, err = f.toppings.Create(ctx, dto.ToppingsGroupRequest{Name: "Quesos"})
	require.NoError(t, err)

	list, err := f.sauces.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Salsas", list[0].Name)

	id := uuid.MustParse(sauce.ID)
	_, err = f.toppings.Get(ctx, id)
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
	assert.True(t, apierror.Is(f.toppings.Delete(ctx, id), apierror.KindNotFound))

	require.NoError(t, f.sauces.Delete(ctx, id))
	assert.Equal(t, []string{EventSauceGroupCreated, EventToppingsGroupCreated, EventSauceGroupDeleted}, f.pub.names())
}

func TestToppingsGroup_DuplicateNameConflicts(t *testing.T) {
	f := newGroupsFixture()
	ctx := context.Background()

	_, err := f.toppings.Create(ctx, dto.ToppingsGroupRequest{Name: "Extras"})
	require.NoError(t, err)
	_, err = f.sauces.Create(ctx, dto.ToppingsGroupRequest{Name: "Extras"})
	assert.True(t, apierror.Is(err, apierror.KindConflict))
}

func TestToppingsGroup_UpdateReplacesToppings(t *testing.T) {
	f := newGroupsFixture()
	ctx := context.Background()

	g, err := f.toppings.Create(ctx, dto.ToppingsGroupRequest{Name: "Quesos", ToppingIDs: []string{f.cheddar.ID.String()}})
	require.NoError(t, err)
	id := uuid.MustParse(g.ID)

	off := false
	g, err = f.toppings.Update(ctx, id, dto.ToppingsGroupRequest{Name: "Quesos", ToppingIDs: []string{}, IsActive: &off})
	require.NoError(t, err)
	assert.Empty(t, g.Toppings)
	assert.False(t, g.IsActive)

	active, err := f.toppings.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.toppings.Update(ctx, id, dto.ToppingsGroupRequest{Name: "Quesos", ToppingIDs: []string{uuid.NewString()}})
	assert.True(t, apierror.Is(err, apierror.KindNotFound))
}
