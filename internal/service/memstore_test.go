package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"

	"gorm.io/gorm"
)

type pmKey struct {
	productID uint
	modelID   uint
}

// memDB is an in-memory stand-in for Postgres. A transaction holds mu for its
// whole duration and works on a copy that replaces the state only on commit.
type memDB struct {
	mu sync.Mutex

	tailors       map[uint]model.Tailor
	models        map[uint]model.Model
	products      map[uint]model.Product
	productModels map[pmKey]model.ProductModel
	balances      map[model.BalanceKey]model.Inventory
	transfers     []model.Transfer
	nextID        uint

	// failUpsert and failCreate make the matching store call fail, to exercise rollback
	failUpsert error
	failCreate error
}

func newMemDB() *memDB {
	return &memDB{
		tailors:       map[uint]model.Tailor{},
		models:        map[uint]model.Model{},
		products:      map[uint]model.Product{},
		productModels: map[pmKey]model.ProductModel{},
		balances:      map[model.BalanceKey]model.Inventory{},
	}
}

func (d *memDB) id() uint {
	d.nextID++
	return d.nextID
}

func (d *memDB) clone() *memDB {
	c := newMemDB()
	for k, v := range d.tailors {
		c.tailors[k] = v
	}
	for k, v := range d.models {
		c.models[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.productModels {
		c.productModels[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	c.transfers = append([]model.Transfer(nil), d.transfers...)
	c.nextID = d.nextID
	c.failUpsert = d.failUpsert
	c.failCreate = d.failCreate
	return c
}

func (d *memDB) commit(c *memDB) {
	d.tailors = c.tailors
	d.models = c.models
	d.products = c.products
	d.productModels = c.productModels
	d.balances = c.balances
	d.transfers = c.transfers
	d.nextID = c.nextID
}

// seed helpers, used by tests outside any transaction

func (d *memDB) addTailor(name string) model.Tailor {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := model.Tailor{TailorID: d.id(), TailorName: name}
	d.tailors[t.TailorID] = t
	return t
}

func (d *memDB) addModel(name string) model.Model {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := model.Model{ModelID: d.id(), ModelName: name}
	d.models[m.ModelID] = m
	return m
}

func (d *memDB) addProduct(code, name string, tailorID uint, modelIDs ...uint) model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := model.Product{ProductID: d.id(), ProductCode: code, ProductName: name, TailorID: tailorID}
	d.products[p.ProductID] = p
	for _, mid := range modelIDs {
		d.productModels[pmKey{p.ProductID, mid}] = model.ProductModel{ProductID: p.ProductID, ModelID: mid}
	}
	return p
}

func (d *memDB) balance(key model.BalanceKey) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.balances[key]
	return b.Quantity, ok
}

func (d *memDB) transferCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transfers)
}

// unlocked queries shared by repositories and tx stores

func (d *memDB) productWithRelations(p model.Product) *model.Product {
	if t, ok := d.tailors[p.TailorID]; ok {
		p.Tailor = &t
	}
	p.Models = nil
	for _, pm := range d.sortedModels(p.ProductID) {
		if m, ok := d.models[pm.ModelID]; ok {
			pm.Model = &m
		}
		p.Models = append(p.Models, pm)
	}
	return &p
}

func (d *memDB) sortedModels(productID uint) []model.ProductModel {
	var pms []model.ProductModel
	for k, pm := range d.productModels {
		if k.productID == productID {
			pms = append(pms, pm)
		}
	}
	sort.Slice(pms, func(i, j int) bool { return pms[i].ModelID < pms[j].ModelID })
	return pms
}

func (d *memDB) countTransfers(match func(t model.Transfer) bool) int64 {
	var n int64
	for _, t := range d.transfers {
		if match(t) {
			n++
		}
	}
	return n
}

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func paginate[T any](items []T, page repository.Page) []T {
	off, lim := page.Offset(), page.Limit()
	if off >= len(items) {
		return []T{}
	}
	end := off + lim
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

// ---- tailors ----

type memTailorRepo struct{ d *memDB }

func (r memTailorRepo) Create(_ context.Context, t *model.Tailor) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, e := range r.d.tailors {
		if e.TailorName == t.TailorName {
			return fmt.Errorf("%w: tailors_tailor_name_key", repository.ErrDuplicate)
		}
	}
	t.TailorID = r.d.id()
	r.d.tailors[t.TailorID] = *t
	return nil
}

func (r memTailorRepo) Search(_ context.Context, f repository.TailorFilter) ([]model.Tailor, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Tailor
	for _, t := range r.d.tailors {
		if contains(t.TailorName, f.Name) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TailorID < out[j].TailorID })
	return paginate(out, f.Page), int64(len(out)), nil
}

func (r memTailorRepo) FindByID(_ context.Context, id uint) (*model.Tailor, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tailors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r memTailorRepo) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, t := range r.d.tailors {
		if t.TailorName == name && t.TailorID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memTailorRepo) Update(_ context.Context, t *model.Tailor) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.tailors[t.TailorID] = *t
	return nil
}

func (r memTailorRepo) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.tailors, id)
	return nil
}

func (r memTailorRepo) CountProducts(_ context.Context, id uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var n int64
	for _, p := range r.d.products {
		if p.TailorID == id {
			n++
		}
	}
	return n, nil
}

// ---- models ----

type memModelRepo struct{ d *memDB }

func (r memModelRepo) Create(_ context.Context, m *model.Model) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, e := range r.d.models {
		if e.ModelName == m.ModelName {
			return fmt.Errorf("%w: models_model_name_key", repository.ErrDuplicate)
		}
	}
	m.ModelID = r.d.id()
	r.d.models[m.ModelID] = *m
	return nil
}

func (r memModelRepo) Search(_ context.Context, f repository.ModelFilter) ([]model.Model, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Model
	for _, m := range r.d.models {
		if contains(m.ModelName, f.Name) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return paginate(out, f.Page), int64(len(out)), nil
}

func (r memModelRepo) FindByID(_ context.Context, id uint) (*model.Model, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	m, ok := r.d.models[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r memModelRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Model, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Model
	for _, id := range ids {
		if m, ok := r.d.models[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memModelRepo) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, m := range r.d.models {
		if m.ModelName == name && m.ModelID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memModelRepo) Update(_ context.Context, m *model.Model) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.d.models[m.ModelID] = *m
	return nil
}

func (r memModelRepo) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	delete(r.d.models, id)
	return nil
}

func (r memModelRepo) CountProducts(_ context.Context, id uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var n int64
	for k := range r.d.productModels {
		if k.modelID == id {
			n++
		}
	}
	return n, nil
}

// ---- products ----

type memProductRepo struct{ d *memDB }

func (r memProductRepo) Search(_ context.Context, f repository.ProductFilter) ([]model.Product, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Product
	for _, p := range r.d.products {
		if contains(p.ProductCode, f.Code) && contains(p.ProductName, f.Name) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return paginate(out, f.Page), int64(len(out)), nil
}

func (r memProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.d.productWithRelations(p), nil
}

func (r memProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, p := range r.d.products {
		if p.ProductCode == code {
			return r.d.productWithRelations(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memProductRepo) Delete(_ context.Context, id uint) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for k := range r.d.productModels {
		if k.productID == id {
			delete(r.d.productModels, k)
		}
	}
	delete(r.d.products, id)
	return nil
}

func (r memProductRepo) CountTransfers(_ context.Context, id uint) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return r.d.countTransfers(func(t model.Transfer) bool { return t.ProductID == id }), nil
}

func (r memProductRepo) WithinTx(_ context.Context, fn func(store repository.ProductStore) error) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	tx := r.d.clone()
	if err := fn(memProductStore{tx}); err != nil {
		return err
	}
	r.d.commit(tx)
	return nil
}

type memProductStore struct{ d *memDB }

// LockCodeSequence is a no-op: the transaction already holds the whole store.
func (s memProductStore) LockCodeSequence(context.Context) error { return nil }

func (s memProductStore) LastProductCode(context.Context) (string, error) {
	last := ""
	for _, p := range s.d.products {
		c := p.ProductCode
		if len(c) > len(last) || (len(c) == len(last) && c > last) {
			last = c
		}
	}
	return last, nil
}

func (s memProductStore) Create(_ context.Context, p *model.Product) error {
	if s.d.failCreate != nil {
		return s.d.failCreate
	}
	for _, e := range s.d.products {
		if e.ProductCode == p.ProductCode {
			return fmt.Errorf("%w: products_product_code_key", repository.ErrDuplicate)
		}
	}
	p.ProductID = s.d.id()
	for i := range p.Models {
		p.Models[i].ProductID = p.ProductID
		s.d.productModels[pmKey{p.ProductID, p.Models[i].ModelID}] = p.Models[i]
	}
	row := *p
	row.Models = nil
	s.d.products[p.ProductID] = row
	return nil
}

func (s memProductStore) FindForUpdate(_ context.Context, id uint) (*model.Product, error) {
	p, ok := s.d.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s memProductStore) Save(_ context.Context, p *model.Product) error {
	row := *p
	row.Models = nil
	row.Tailor = nil
	s.d.products[p.ProductID] = row
	return nil
}

func (s memProductStore) ListModels(_ context.Context, productID uint) ([]model.ProductModel, error) {
	return s.d.sortedModels(productID), nil
}

func (s memProductStore) UpsertModel(_ context.Context, pm *model.ProductModel) error {
	k := pmKey{pm.ProductID, pm.ModelID}
	if existing, ok := s.d.productModels[k]; ok {
		existing.Image = pm.Image
		existing.UpdatedBy = pm.UpdatedBy
		s.d.productModels[k] = existing
		return nil
	}
	s.d.productModels[k] = *pm
	return nil
}

func (s memProductStore) DeleteModel(_ context.Context, productID, modelID uint) error {
	delete(s.d.productModels, pmKey{productID, modelID})
	return nil
}

func (s memProductStore) CountModelTransfers(_ context.Context, productID, modelID uint) (int64, error) {
	return s.d.countTransfers(func(t model.Transfer) bool {
		return t.ProductID == productID && t.ModelID == modelID
	}), nil
}

// ---- ledger ----

type memTransferRepo struct{ d *memDB }

func (r memTransferRepo) WithinTx(_ context.Context, fn func(store repository.LedgerStore) error) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	tx := r.d.clone()
	if err := fn(memLedgerStore{tx}); err != nil {
		return err
	}
	r.d.commit(tx)
	return nil
}

func (r memTransferRepo) FindBalance(_ context.Context, key model.BalanceKey) (*model.Inventory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	return memLedgerStore{r.d}.FindBalance(context.Background(), key)
}

func (r memTransferRepo) ListBalances(_ context.Context, productID uint) ([]model.Inventory, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Inventory
	for k, b := range r.d.balances {
		if k.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memTransferRepo) Search(_ context.Context, f repository.TransferFilter) ([]model.Transfer, int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var out []model.Transfer
	for i := len(r.d.transfers) - 1; i >= 0; i-- {
		t := r.d.transfers[i]
		if (f.ProductID == 0 || t.ProductID == f.ProductID) &&
			(f.Category == "" || t.Category == f.Category) &&
			(f.Type == "" || t.Type == f.Type) {
			if p, ok := r.d.products[t.ProductID]; ok {
				t.Product = &p
			}
			if m, ok := r.d.models[t.ModelID]; ok {
				t.Model = &m
			}
			out = append(out, t)
		}
	}
	return paginate(out, f.Page), int64(len(out)), nil
}

type memLedgerStore struct{ d *memDB }

func (s memLedgerStore) LockAssociation(_ context.Context, productID, modelID uint) (*model.ProductModel, error) {
	pm, ok := s.d.productModels[pmKey{productID, modelID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := s.d.products[productID]
	m := s.d.models[modelID]
	pm.Product = &p
	pm.Model = &m
	return &pm, nil
}

func (s memLedgerStore) FindBalance(_ context.Context, key model.BalanceKey) (*model.Inventory, error) {
	b, ok := s.d.balances[key]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s memLedgerStore) UpsertBalance(_ context.Context, key model.BalanceKey, quantity int, actor string) error {
	if s.d.failUpsert != nil {
		return s.d.failUpsert
	}
	if quantity < 0 {
		return errors.New("check constraint chk_inventory_quantity violated")
	}
	b, ok := s.d.balances[key]
	if !ok {
		b = model.Inventory{ProductID: key.ProductID, ModelID: key.ModelID, Category: key.Category, CreatedBy: actor}
	}
	b.Quantity = quantity
	b.UpdatedBy = actor
	s.d.balances[key] = b
	return nil
}

func (s memLedgerStore) InsertTransfer(_ context.Context, t *model.Transfer) error {
	t.TransferID = s.d.id()
	s.d.transfers = append(s.d.transfers, *t)
	return nil
}

// ---- events and qr ----

type recordedEvent struct {
	Type string
	Data interface{}
	User string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(eventType string, data interface{}, user, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Data: data, User: user})
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeQR struct {
	mu      sync.Mutex
	files   map[string]string // name -> content
	n       int
	failErr error
}

func newFakeQR() *fakeQR { return &fakeQR{files: map[string]string{}} }

func (q *fakeQR) Write(content string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failErr != nil {
		return "", q.failErr
	}
	q.n++
	name := fmt.Sprintf("qr-%d.png", q.n)
	q.files[name] = content
	return name, nil
}

func (q *fakeQR) Remove(name string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.files, name)
	return nil
}

func (q *fakeQR) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.files)
}

var (
	_ repository.TailorRepository   = memTailorRepo{}
	_ repository.ModelRepository    = memModelRepo{}
	_ repository.ProductRepository  = memProductRepo{}
	_ repository.ProductStore       = memProductStore{}
	_ repository.TransferRepository = memTransferRepo{}
	_ repository.LedgerStore        = memLedgerStore{}
	_ EventPublisher                = (*eventRecorder)(nil)
	_ QRWriter                      = (*fakeQR)(nil)
)
