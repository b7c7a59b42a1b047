package service

import (
	"context"
	"errors"
	"testing"

	"hygpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	cat   *memCatalog
	pub   *recordingPublisher
	cache *memCache
	svc   CostService
}

func newCascadeFixture() *cascadeFixture {
	f := &cascadeFixture{cat: newMemCatalog(), pub: &recordingPublisher{}, cache: &memCache{}}
	f.svc = NewCostService(
		memIngredientRepo{f.cat}, memProductRepo{f.cat}, memUnitRepo{f.cat}, memHistoryRepo{f.cat},
		f.pub, f.cache,
	)
	return f
}

// seedScenario: ingredient at 10 used twice by compound A; promotion B bundles one A.
func (f *cascadeFixture) seedScenario() (ing *model.Ingredient, a, b *model.Product) {
	ing = f.cat.addIngredient("Queso", "10", nil)
	a = f.cat.addProduct(&model.Product{
		Name: "Tostado", Type: model.ProductCompound, Price: dec("80"), Cost: dec("20"),
		Ingredients: []model.ProductIngredient{{ID: uuid.New(), IngredientID: ing.ID, Quantity: dec("2")}},
	})
	b = f.cat.addProduct(&model.Product{
		Name: "Promo Tostado", Type: model.ProductPromotion, Price: dec("100"), Cost: dec("20"),
		PromotionItems: []model.PromotionProduct{{ID: uuid.New(), ProductID: a.ID, Quantity: dec("1")}},
	})
	return ing, a, b
}

func TestCascade_IngredientCostRaisesCompoundAndPromotion(t *testing.T) {
	f := newCascadeFixture()
	ing, a, b := f.seedScenario()

	r := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, ing.ID, dec("15"))

	require.True(t, r.Success, r.Message)
	assertDecimal(t, "15", f.cat.ingredients[ing.ID].Cost)
	assertDecimal(t, "30", f.cat.products[a.ID].Cost)
	assertDecimal(t, "30", f.cat.products[b.ID].Cost)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, r.UpdatedProducts)
	assert.Equal(t, []uuid.UUID{b.ID}, r.UpdatedPromotions)
}

func TestCascade_RecordsHistoryAndAnnounces(t *testing.T) {
	f := newCascadeFixture()
	ing, a, _ := f.seedScenario()

	r := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, ing.ID, dec("15"))
	require.True(t, r.Success)

	require.Len(t, f.cat.history, 3)
	assert.Equal(t, model.CostEntityIngredient, f.cat.history[0].EntityType)
	assertDecimal(t, "10", f.cat.history[0].CostBefore)
	assertDecimal(t, "15", f.cat.history[0].CostAfter)

	hist, err := f.svc.History(context.Background(), model.CostEntityProduct, a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assertDecimal(t, "20", hist[0].CostBefore)
	assertDecimal(t, "30", hist[0].CostAfter)

	assert.Equal(t, []string{EventProductUpdated, EventProductUpdated}, f.pub.names())
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestCascade_SameCostTwiceIsIdempotent(t *testing.T) {
	f := newCascadeFixture()
	ing, a, b := f.seedScenario()

	first := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, ing.ID, dec("15"))
	second := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, ing.ID, dec("15"))

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.ElementsMatch(t, first.UpdatedProducts, second.UpdatedProducts)
	assertDecimal(t, "30", f.cat.products[a.ID].Cost)
	assertDecimal(t, "30", f.cat.products[b.ID].Cost)
}

func TestCascade_ConvertsRecipeUnits(t *testing.T) {
	f := newCascadeFixture()
	g := f.cat.addUnit("g", true)
	kg := f.cat.addUnit("kg", false)
	f.cat.addConversion(kg, g, "1000")
	flour := f.cat.addIngredient("Harina", "2", kg)
	bread := f.cat.addProduct(&model.Product{
		Name: "Pan", Type: model.ProductCompound, Price: dec("10"),
		Ingredients: []model.ProductIngredient{{ID: uuid.New(), IngredientID: flour.ID, Quantity: dec("500"), UnitOfMeasureID: &g.ID}},
	})

	r := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, flour.ID, dec("4"))

	require.True(t, r.Success, r.Message)
	assertDecimal(t, "2", f.cat.products[bread.ID].Cost)
}

func TestCascade_MissingConversionFails(t *testing.T) {
	f := newCascadeFixture()
	g := f.cat.addUnit("g", true)
	l := f.cat.addUnit("l", true)
	flour := f.cat.addIngredient("Harina", "2", l)
	f.cat.addProduct(&model.Product{
		Name: "Pan", Type: model.ProductCompound, Price: dec("10"),
		Ingredients: []model.ProductIngredient{{ID: uuid.New(), IngredientID: flour.ID, Quantity: dec("500"), UnitOfMeasureID: &g.ID}},
	})

	r := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, flour.ID, dec("4"))

	assert.False(t, r.Success)
	assert.NotEmpty(t, r.Message)
	assert.Empty(t, f.pub.names())
}

func TestCascade_FailuresAreReportedNotReturned(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *cascadeFixture) (uuid.UUID, string)
		message string
	}{
		{
			name: "unknown ingredient",
			prepare: func(*cascadeFixture) (uuid.UUID, string) {
				return uuid.New(), "5"
			},
			message: "ingrediente no encontrado",
		},
		{
			name: "negative cost",
			prepare: func(f *cascadeFixture) (uuid.UUID, string) {
				ing, _, _ := f.seedScenario()
				return ing.ID, "-1"
			},
			message: "el costo no puede ser negativo",
		},
		{
			name: "persistence failure",
			prepare: func(f *cascadeFixture) (uuid.UUID, string) {
				ing, _, _ := f.seedScenario()
				f.cat.failProductUpdate = errors.New("connection reset")
				return ing.ID, "15"
			},
			message: "Error interno del servidor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCascadeFixture()
			id, cost := tt.prepare(f)
			r := f.svc.UpdateIngredientCostAndCascade(context.Background(), nil, id, dec(cost))
			assert.False(t, r.Success)
			assert.Equal(t, tt.message, r.Message)
			assert.Empty(t, r.UpdatedProducts)
		})
	}
}

func TestProductCost_DerivesFromContents(t *testing.T) {
	f := newCascadeFixture()
	_, a, b := f.seedScenario()

	got, err := f.svc.ProductCost(context.Background(), nil, f.cat.hydrate(f.cat.products[a.ID]))
	require.NoError(t, err)
	assertDecimal(t, "20", got)

	got, err = f.svc.ProductCost(context.Background(), nil, f.cat.hydrate(f.cat.products[b.ID]))
	require.NoError(t, err)
	assertDecimal(t, "20", got)
}
