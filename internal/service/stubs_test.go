package service

import (
	"context"
	"sync"
	"time"

	"hygpos/internal/dto"
	"hygpos/internal/model"
	"hygpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Catalog (units, ingredients, products, toppings, cost history) ───────────

type memCatalog struct {
	units       map[uuid.UUID]*model.UnitOfMeasure
	conversions []model.UnitConversion
	ingredients map[uuid.UUID]*model.Ingredient
	products    map[uuid.UUID]*model.Product
	groups      map[uuid.UUID]*model.ToppingsGroup
	history     []model.CostHistory

	failProductUpdate error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		units:       make(map[uuid.UUID]*model.UnitOfMeasure),
		ingredients: make(map[uuid.UUID]*model.Ingredient),
		products:    make(map[uuid.UUID]*model.Product),
		groups:      make(map[uuid.UUID]*model.ToppingsGroup),
	}
}

func (c *memCatalog) addUnit(abbr string, base bool) *model.UnitOfMeasure {
	u := &model.UnitOfMeasure{ID: uuid.New(), Name: abbr, Abbreviation: abbr, IsBase: base}
	c.units[u.ID] = u
	return u
}

func (c *memCatalog) addConversion(from, to *model.UnitOfMeasure, factor string) {
	c.conversions = append(c.conversions, model.UnitConversion{
		ID: uuid.New(), FromUnitID: from.ID, ToUnitID: to.ID,
		Factor: decimal.RequireFromString(factor), FromUnit: from, ToUnit: to,
	})
}

func (c *memCatalog) addIngredient(name, cost string, unit *model.UnitOfMeasure) *model.Ingredient {
	i := &model.Ingredient{ID: uuid.New(), Name: name, Cost: decimal.RequireFromString(cost), IsActive: true}
	if unit != nil {
		i.UnitOfMeasureID = &unit.ID
	}
	c.ingredients[i.ID] = i
	return i
}

func (c *memCatalog) addProduct(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.IsActive = true
	c.products[p.ID] = p
	return p
}

func (c *memCatalog) addGroup(name string, toppings ...*model.Ingredient) *model.ToppingsGroup {
	g := &model.ToppingsGroup{ID: uuid.New(), Name: name, Kind: model.GroupKindToppings, IsActive: true}
	for _, t := range toppings {
		g.Toppings = append(g.Toppings, *t)
	}
	c.groups[g.ID] = g
	return g
}

// hydrate returns a copy of p with every relation pointing at current data,
// the way the gorm preloads do.
func (c *memCatalog) hydrate(p *model.Product) *model.Product {
	cp := *p
	cp.Ingredients = nil
	for _, in := range p.Ingredients {
		if ing, ok := c.ingredients[in.IngredientID]; ok {
			ic := *ing
			in.Ingredient = &ic
		}
		cp.Ingredients = append(cp.Ingredients, in)
	}
	cp.PromotionItems = nil
	for _, it := range p.PromotionItems {
		if prod, ok := c.products[it.ProductID]; ok {
			pc := *prod
			it.Product = &pc
		}
		cp.PromotionItems = append(cp.PromotionItems, it)
	}
	cp.PromotionSlots = nil
	for _, sl := range p.PromotionSlots {
		sc := sl
		sc.Options = nil
		for _, op := range sl.Options {
			if prod, ok := c.products[op.ProductID]; ok {
				pc := *prod
				op.Product = &pc
			}
			sc.Options = append(sc.Options, op)
		}
		cp.PromotionSlots = append(cp.PromotionSlots, sc)
	}
	cp.AvailableToppingGroups = nil
	for _, g := range p.AvailableToppingGroups {
		if grp, ok := c.groups[g.ToppingsGroupID]; ok {
			gc := *grp
			g.ToppingsGroup = &gc
		}
		cp.AvailableToppingGroups = append(cp.AvailableToppingGroups, g)
	}
	return &cp
}

type memUnitRepo struct{ c *memCatalog }

func (r memUnitRepo) CreateUnit(_ context.Context, u *model.UnitOfMeasure) error {
	for _, x := range r.c.units {
		if x.Abbreviation == u.Abbreviation {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.c.units[u.ID] = u
	return nil
}

func (r memUnitRepo) FindUnitByID(_ context.Context, id uuid.UUID) (*model.UnitOfMeasure, error) {
	if u, ok := r.c.units[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUnitRepo) FindUnitByAbbreviation(_ context.Context, abbr string) (*model.UnitOfMeasure, error) {
	for _, u := range r.c.units {
		if u.Abbreviation == abbr {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUnitRepo) ListUnits(context.Context) ([]model.UnitOfMeasure, error) {
	var out []model.UnitOfMeasure
	for _, u := range r.c.units {
		out = append(out, *u)
	}
	return out, nil
}

func (r memUnitRepo) CreateConversion(_ context.Context, conv *model.UnitConversion) error {
	conv.ID = uuid.New()
	conv.FromUnit = r.c.units[conv.FromUnitID]
	conv.ToUnit = r.c.units[conv.ToUnitID]
	r.c.conversions = append(r.c.conversions, *conv)
	return nil
}

func (r memUnitRepo) ListConversions(context.Context, *gorm.DB) ([]model.UnitConversion, error) {
	return append([]model.UnitConversion(nil), r.c.conversions...), nil
}

type memIngredientRepo struct{ c *memCatalog }

func (r memIngredientRepo) Create(_ context.Context, i *model.Ingredient) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.c.ingredients[i.ID] = i
	return nil
}

func (r memIngredientRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	if i, ok := r.c.ingredients[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memIngredientRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, id := range ids {
		if i, ok := r.c.ingredients[id]; ok {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r memIngredientRepo) List(_ context.Context, onlyActive bool) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, i := range r.c.ingredients {
		if !onlyActive || i.IsActive {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r memIngredientRepo) Update(_ context.Context, i *model.Ingredient) error {
	cp := *i
	r.c.ingredients[i.ID] = &cp
	return nil
}

func (r memIngredientRepo) UpdateCost(_ context.Context, _ *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	i, ok := r.c.ingredients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.Cost = cost
	return nil
}

func (r memIngredientRepo) DB() *gorm.DB { return nil }

type memProductRepo struct{ c *memCatalog }

func (r memProductRepo) Create(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.c.products[p.ID] = &cp
	return nil
}

func (r memProductRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.c.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.c.hydrate(p), nil
}

func (r memProductRepo) FindByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.c.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memProductRepo) List(_ context.Context, f repository.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.c.products {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.OnlyActive && !p.IsActive {
			continue
		}
		out = append(out, *r.c.hydrate(p))
	}
	return out, int64(len(out)), nil
}

func (r memProductRepo) Update(_ context.Context, _ *gorm.DB, p *model.Product) error {
	if r.c.failProductUpdate != nil {
		return r.c.failProductUpdate
	}
	st, ok := r.c.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.Name, st.Description, st.Price, st.Cost, st.IsActive = p.Name, p.Description, p.Price, p.Cost, p.IsActive
	return nil
}

func (r memProductRepo) UpdateCost(_ context.Context, _ *gorm.DB, id uuid.UUID, cost decimal.Decimal) error {
	if r.c.failProductUpdate != nil {
		return r.c.failProductUpdate
	}
	p, ok := r.c.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Cost = cost
	return nil
}

func (r memProductRepo) ReplaceIngredients(_ context.Context, _ *gorm.DB, id uuid.UUID, items []model.ProductIngredient) error {
	for i := range items {
		items[i].ProductID = id
	}
	r.c.products[id].Ingredients = items
	return nil
}

func (r memProductRepo) ReplacePromotionItems(_ context.Context, _ *gorm.DB, id uuid.UUID, items []model.PromotionProduct) error {
	for i := range items {
		items[i].PromotionID = id
	}
	r.c.products[id].PromotionItems = items
	return nil
}

func (r memProductRepo) ReplacePromotionSlots(_ context.Context, _ *gorm.DB, id uuid.UUID, slots []model.PromotionSlot) error {
	for i := range slots {
		slots[i].ID = uuid.New()
		slots[i].PromotionID = id
	}
	r.c.products[id].PromotionSlots = slots
	return nil
}

func (r memProductRepo) ReplaceToppingGroups(_ context.Context, _ *gorm.DB, id uuid.UUID, groups []model.ProductAvailableToppingGroup) error {
	for i := range groups {
		groups[i].ProductID = id
	}
	r.c.products[id].AvailableToppingGroups = groups
	return nil
}

func (r memProductRepo) FindCompoundsUsingIngredient(_ context.Context, _ *gorm.DB, ingredientID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.c.products {
		if p.Type != model.ProductCompound {
			continue
		}
		for _, in := range p.Ingredients {
			if in.IngredientID == ingredientID {
				out = append(out, *r.c.hydrate(p))
				break
			}
		}
	}
	return out, nil
}

func (r memProductRepo) FindPromotionsContaining(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.Product, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Product
	for _, p := range r.c.products {
		if p.Type != model.ProductPromotion {
			continue
		}
		for _, it := range p.PromotionItems {
			if want[it.ProductID] {
				out = append(out, *r.c.hydrate(p))
				break
			}
		}
	}
	return out, nil
}

func (r memProductRepo) DB() *gorm.DB { return nil }

type memHistoryRepo struct{ c *memCatalog }

func (r memHistoryRepo) Create(_ context.Context, _ *gorm.DB, entries []model.CostHistory) error {
	r.c.history = append(r.c.history, entries...)
	return nil
}

func (r memHistoryRepo) ListByEntity(_ context.Context, kind string, id uuid.UUID, _ int) ([]model.CostHistory, error) {
	var out []model.CostHistory
	for _, h := range r.c.history {
		if h.EntityType == kind && h.EntityID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

type memToppingsRepo struct{ c *memCatalog }

func (r memToppingsRepo) Create(_ context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	cp := *g
	cp.Toppings = toppings
	r.c.groups[g.ID] = &cp
	return nil
}

func (r memToppingsRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ToppingsGroup, error) {
	if g, ok := r.c.groups[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memToppingsRepo) FindByName(_ context.Context, name string) (*model.ToppingsGroup, error) {
	for _, g := range r.c.groups {
		if g.Name == name {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memToppingsRepo) List(_ context.Context, kind string, onlyActive bool) ([]model.ToppingsGroup, error) {
	var out []model.ToppingsGroup
	for _, g := range r.c.groups {
		if g.Kind == kind && (!onlyActive || g.IsActive) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r memToppingsRepo) Update(_ context.Context, g *model.ToppingsGroup, toppings []model.Ingredient) error {
	st, ok := r.c.groups[g.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.Name, st.IsActive = g.Name, g.IsActive
	if toppings != nil {
		st.Toppings = toppings
	}
	return nil
}

func (r memToppingsRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.c.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.c.groups, id)
	return nil
}

// ── Orders, tables, daily cash, archive ──────────────────────────────────────

type memOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	tables *memTableRepo

	failCreatePayments error
	failFindArchivable error
}

func newMemOrderRepo(tables *memTableRepo) *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*model.Order), tables: tables}
}

func (r *memOrderRepo) copyOf(o *model.Order) *model.Order {
	cp := *o
	cp.Details = append([]model.OrderDetail(nil), o.Details...)
	cp.Payments = append([]model.OrderPayment(nil), o.Payments...)
	if o.TableID != nil && r.tables != nil {
		if t, ok := r.tables.tables[*o.TableID]; ok {
			tc := *t
			cp.Table = &tc
		}
	}
	return &cp
}

func (r *memOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = o.Date
	cp := *o
	cp.Table = nil
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.copyOf(o), nil
}

func (r *memOrderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *memOrderRepo) FindActiveByTable(_ context.Context, _ *gorm.DB, tableID uuid.UUID) (*model.Order, error) {
	for _, o := range r.orders {
		if o.TableID != nil && *o.TableID == tableID && !o.IsTerminal() {
			return r.copyOf(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if f.State != "" && f.State != "all" && o.State != f.State {
			continue
		}
		out = append(out, *r.copyOf(o))
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateHeader(_ context.Context, _ *gorm.DB, o *model.Order) error {
	st, ok := r.orders[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h := *o
	h.Table = nil
	h.Details, h.Payments = st.Details, st.Payments
	r.orders[o.ID] = &h
	return nil
}

func (r *memOrderRepo) AddDetails(_ context.Context, _ *gorm.DB, details []model.OrderDetail) error {
	for _, d := range details {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		o, ok := r.orders[d.OrderID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		o.Details = append(o.Details, d)
	}
	return nil
}

func (r *memOrderRepo) DeleteDetail(_ context.Context, _ *gorm.DB, orderID, detailID uuid.UUID) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, d := range o.Details {
		if d.ID == detailID {
			o.Details = append(o.Details[:i], o.Details[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memOrderRepo) CreatePayments(_ context.Context, _ *gorm.DB, payments []model.OrderPayment) error {
	if r.failCreatePayments != nil {
		return r.failCreatePayments
	}
	for _, p := range payments {
		r.orders[p.OrderID].Payments = append(r.orders[p.OrderID].Payments, p)
	}
	return nil
}

func (r *memOrderRepo) FindArchivable(_ context.Context, _ *gorm.DB, states []string, from, to time.Time) ([]model.Order, error) {
	if r.failFindArchivable != nil {
		return nil, r.failFindArchivable
	}
	var out []model.Order
	for _, o := range r.orders {
		match := false
		for _, s := range states {
			match = match || o.State == s
		}
		if match && !o.Date.Before(from) && o.Date.Before(to) {
			out = append(out, *r.copyOf(o))
		}
	}
	return out, nil
}

func (r *memOrderRepo) DeleteOrders(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.orders, id)
	}
	return nil
}

func (r *memOrderRepo) DB() *gorm.DB { return nil }

type memTableRepo struct {
	tables map[uuid.UUID]*model.Table
}

func newMemTableRepo() *memTableRepo {
	return &memTableRepo{tables: make(map[uuid.UUID]*model.Table)}
}

func (r *memTableRepo) add(name string) *model.Table {
	t := &model.Table{ID: uuid.New(), Name: name, Capacity: 4, State: model.TableAvailable, IsActive: true}
	r.tables[t.ID] = t
	return t
}

func (r *memTableRepo) Create(_ context.Context, t *model.Table) error {
	for _, x := range r.tables {
		if x.Name == t.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *memTableRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Table, error) {
	if t, ok := r.tables[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTableRepo) List(context.Context) ([]model.Table, error) {
	var out []model.Table
	for _, t := range r.tables {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTableRepo) Update(_ context.Context, t *model.Table) error {
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *memTableRepo) UpdateState(_ context.Context, _ *gorm.DB, id uuid.UUID, state string) error {
	t, ok := r.tables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.State = state
	return nil
}

func (r *memTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	if t, ok := r.tables[id]; ok {
		t.IsActive = false
	}
	return nil
}

type memDailyCashRepo struct {
	ledgers   map[uuid.UUID]*model.DailyCash
	movements []model.CashMovement
}

func newMemDailyCashRepo() *memDailyCashRepo {
	return &memDailyCashRepo{ledgers: make(map[uuid.UUID]*model.DailyCash)}
}

func (r *memDailyCashRepo) Create(_ context.Context, _ *gorm.DB, d *model.DailyCash) error {
	for _, x := range r.ledgers {
		if x.Date == d.Date {
			return gorm.ErrDuplicatedKey
		}
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	r.ledgers[d.ID] = &cp
	return nil
}

func (r *memDailyCashRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.DailyCash, error) {
	d, ok := r.ledgers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	cp.Movements = nil
	for _, m := range r.movements {
		if m.DailyCashID == id {
			cp.Movements = append(cp.Movements, m)
		}
	}
	return &cp, nil
}

func (r *memDailyCashRepo) FindByDate(ctx context.Context, tx *gorm.DB, date string) (*model.DailyCash, error) {
	for _, d := range r.ledgers {
		if d.Date == date {
			return r.FindByID(ctx, tx, d.ID)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDailyCashRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.DailyCash, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *memDailyCashRepo) Update(_ context.Context, _ *gorm.DB, d *model.DailyCash) error {
	cp := *d
	cp.Movements = nil
	r.ledgers[d.ID] = &cp
	return nil
}

func (r *memDailyCashRepo) CreateMovement(_ context.Context, _ *gorm.DB, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memDailyCashRepo) List(context.Context, repository.Page) ([]model.DailyCash, int64, error) {
	var out []model.DailyCash
	for _, d := range r.ledgers {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *memDailyCashRepo) DB() *gorm.DB { return nil }

type memArchiveRepo struct {
	orders    []model.ArchivedOrder
	failTimes int
	calls     int
}

func (r *memArchiveRepo) InsertOrders(_ context.Context, _ *gorm.DB, orders []model.ArchivedOrder) error {
	r.calls++
	if r.calls <= r.failTimes {
		return gorm.ErrInvalidTransaction
	}
	r.orders = append(r.orders, orders...)
	return nil
}

func (r *memArchiveRepo) List(_ context.Context, from, to time.Time, _ repository.Page) ([]model.ArchivedOrder, int64, error) {
	var out []model.ArchivedOrder
	for _, a := range r.orders {
		if !a.Date.Before(from) && a.Date.Before(to) {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

// ── Collaborators ────────────────────────────────────────────────────────────

type recordedEvent struct {
	Name string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Name: event, Data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

type recordingNotifier struct {
	subjects []string
	bodies   []string
}

func (n *recordingNotifier) NotifyOperator(_ context.Context, subject, body string) error {
	n.subjects = append(n.subjects, subject)
	n.bodies = append(n.bodies, body)
	return nil
}

type recordingQueue struct {
	tickets []uuid.UUID
}

func (q *recordingQueue) EnqueueOrderTicket(_ context.Context, id uuid.UUID) error {
	q.tickets = append(q.tickets, id)
	return nil
}

type memCache struct {
	menu        []dto.MenuItem
	warm        bool
	invalidated int
}

func (c *memCache) GetMenu(context.Context) ([]dto.MenuItem, bool) { return c.menu, c.warm }

func (c *memCache) SetMenu(_ context.Context, items []dto.MenuItem) error {
	c.menu, c.warm = items, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.menu, c.warm = nil, false
	c.invalidated++
	return nil
}

type stubBackup struct {
	err    error
	writes int
	last   []model.ArchivedOrder
}

func (b *stubBackup) Write(_, _ time.Time, orders []model.ArchivedOrder) (string, error) {
	b.writes++
	b.last = orders
	if b.err != nil {
		return "", b.err
	}
	return "/tmp/backup.json", nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var (
	_ repository.UnitRepository          = memUnitRepo{}
	_ repository.IngredientRepository    = memIngredientRepo{}
	_ repository.ProductRepository       = memProductRepo{}
	_ repository.CostHistoryRepository   = memHistoryRepo{}
	_ repository.ToppingsGroupRepository = memToppingsRepo{}
	_ repository.OrderRepository         = (*memOrderRepo)(nil)
	_ repository.TableRepository         = (*memTableRepo)(nil)
	_ repository.DailyCashRepository     = (*memDailyCashRepo)(nil)
	_ repository.ArchiveRepository       = (*memArchiveRepo)(nil)
)
