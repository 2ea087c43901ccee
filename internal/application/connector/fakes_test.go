package connector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// In-memory repositories
// ---------------------------------------------------------------------------

type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) get(id uuid.UUID) (*T, error) {
	row, ok := t.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (t *table[T]) put(id uuid.UUID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id uuid.UUID) {
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

type memoryStore struct {
	backends  *table[connector.Backend]
	bindings  *table[connector.Binding]
	templates *table[connector.ProductTemplate]
	variants  *table[connector.ProductVariant]
	attrs     *table[connector.Attribute]
	values    *table[connector.AttributeValue]
	lines     *table[connector.AttributeLine]
	images    *table[connector.ProductImage]
	taxes     *table[connector.Tax]
	groups    *table[connector.TaxGroup]
	partners  *table[connector.Partner]
	carriers  *table[connector.Carrier]
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		backends:  newTable[connector.Backend](),
		bindings:  newTable[connector.Binding](),
		templates: newTable[connector.ProductTemplate](),
		variants:  newTable[connector.ProductVariant](),
		attrs:     newTable[connector.Attribute](),
		values:    newTable[connector.AttributeValue](),
		lines:     newTable[connector.AttributeLine](),
		images:    newTable[connector.ProductImage](),
		taxes:     newTable[connector.Tax](),
		groups:    newTable[connector.TaxGroup](),
		partners:  newTable[connector.Partner](),
		carriers:  newTable[connector.Carrier](),
	}
}

func (s *memoryStore) Bindings() connector.BindingRepository             { return memBindings{s} }
func (s *memoryStore) Templates() connector.TemplateRepository           { return memTemplates{s} }
func (s *memoryStore) Variants() connector.VariantRepository             { return memVariants{s} }
func (s *memoryStore) Attributes() connector.AttributeRepository         { return memAttributes{s} }
func (s *memoryStore) AttributeLines() connector.AttributeLineRepository { return memLines{s} }
func (s *memoryStore) Images() connector.ImageRepository                 { return memImages{s} }
func (s *memoryStore) Taxes() connector.TaxRepository                    { return memTaxes{s} }
func (s *memoryStore) Partners() connector.PartnerRepository             { return memPartners{s} }

// Execute implements connector.TransactionScope without rollback
func (s *memoryStore) Execute(ctx context.Context, fn func(ctx context.Context, repos connector.Repositories) error) error {
	return fn(ctx, s)
}

// bind stores a binding directly
func (s *memoryStore) bind(backendID uuid.UUID, entity connector.EntityType, externalID int64, internalID uuid.UUID) {
	b, err := connector.NewBinding(backendID, entity, externalID, internalID)
	if err != nil {
		panic(err)
	}
	s.bindings.put(b.ID, *b)
}

func (s *memoryStore) binding(entity connector.EntityType, externalID int64) (connector.Binding, bool) {
	for _, b := range s.bindings.all() {
		if b.EntityType == entity && b.ExternalID == externalID {
			return b, true
		}
	}
	return connector.Binding{}, false
}

type memBackends struct{ s *memoryStore }

func (r memBackends) FindByID(_ context.Context, id uuid.UUID) (*connector.Backend, error) {
	return r.s.backends.get(id)
}

func (r memBackends) List(context.Context) ([]connector.Backend, error) {
	return r.s.backends.all(), nil
}

func (r memBackends) Save(_ context.Context, b *connector.Backend) error {
	r.s.backends.put(b.ID, *b)
	return nil
}

type memBindings struct{ s *memoryStore }

func (r memBindings) FindByExternalID(_ context.Context, backendID uuid.UUID, entity connector.EntityType, externalID int64) (*connector.Binding, error) {
	for _, b := range r.s.bindings.all() {
		if b.BackendID == backendID && b.EntityType == entity && b.ExternalID == externalID {
			return &b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memBindings) FindByInternalID(_ context.Context, backendID uuid.UUID, entity connector.EntityType, internalID uuid.UUID) (*connector.Binding, error) {
	for _, b := range r.s.bindings.all() {
		if b.BackendID == backendID && b.EntityType == entity && b.InternalID == internalID {
			return &b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memBindings) ListByBackend(_ context.Context, backendID uuid.UUID, entity connector.EntityType) ([]connector.Binding, error) {
	out := make([]connector.Binding, 0)
	for _, b := range r.s.bindings.all() {
		if b.BackendID == backendID && b.EntityType == entity {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBindings) Save(_ context.Context, b *connector.Binding) error {
	r.s.bindings.put(b.ID, *b)
	return nil
}

type memTemplates struct{ s *memoryStore }

func (r memTemplates) FindByID(_ context.Context, id uuid.UUID) (*connector.ProductTemplate, error) {
	return r.s.templates.get(id)
}

func (r memTemplates) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*connector.ProductTemplate, error) {
	for _, t := range r.s.templates.all() {
		if t.CompanyID == companyID && t.DefaultCode == code {
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memTemplates) FindMatching(_ context.Context, companyID uuid.UUID, field connector.MatchingStrategy, value string, limit int) ([]connector.ProductTemplate, error) {
	out := make([]connector.ProductTemplate, 0)
	for _, t := range r.s.templates.all() {
		if t.CompanyID != companyID || t.Deleted {
			continue
		}
		if (field == connector.MatchingByReference && t.DefaultCode == value) ||
			(field == connector.MatchingByBarcode && t.Barcode == value) {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memTemplates) Save(_ context.Context, t *connector.ProductTemplate) error {
	r.s.templates.put(t.ID, *t)
	return nil
}

type memVariants struct{ s *memoryStore }

func (r memVariants) FindByID(_ context.Context, id uuid.UUID) (*connector.ProductVariant, error) {
	return r.s.variants.get(id)
}

func (r memVariants) FindByCode(_ context.Context, companyID uuid.UUID, code string) (*connector.ProductVariant, error) {
	for _, v := range r.s.variants.all() {
		if v.CompanyID == companyID && v.DefaultCode == code {
			return &v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memVariants) FindMatching(_ context.Context, companyID uuid.UUID, field connector.MatchingStrategy, value string) ([]connector.ProductVariant, error) {
	out := make([]connector.ProductVariant, 0)
	for _, v := range r.s.variants.all() {
		if v.CompanyID != companyID {
			continue
		}
		if (field == connector.MatchingByReference && v.DefaultCode == value) ||
			(field == connector.MatchingByBarcode && v.Barcode == value) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r memVariants) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]connector.ProductVariant, error) {
	out := make([]connector.ProductVariant, 0)
	for _, v := range r.s.variants.all() {
		if v.TemplateID == templateID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r memVariants) Save(_ context.Context, v *connector.ProductVariant) error {
	r.s.variants.put(v.ID, *v)
	return nil
}

type memAttributes struct{ s *memoryStore }

func (r memAttributes) FindByID(_ context.Context, id uuid.UUID) (*connector.Attribute, error) {
	return r.s.attrs.get(id)
}

func (r memAttributes) Save(_ context.Context, a *connector.Attribute) error {
	r.s.attrs.put(a.ID, *a)
	return nil
}

func (r memAttributes) FindValueByID(_ context.Context, id uuid.UUID) (*connector.AttributeValue, error) {
	return r.s.values.get(id)
}

func (r memAttributes) SaveValue(_ context.Context, v *connector.AttributeValue) error {
	r.s.values.put(v.ID, *v)
	return nil
}

type memLines struct{ s *memoryStore }

func (r memLines) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]connector.AttributeLine, error) {
	out := make([]connector.AttributeLine, 0)
	for _, l := range r.s.lines.all() {
		if l.TemplateID == templateID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLines) Save(_ context.Context, l *connector.AttributeLine) error {
	r.s.lines.put(l.ID, *l)
	return nil
}

func (r memLines) Delete(_ context.Context, id uuid.UUID) error {
	r.s.lines.remove(id)
	return nil
}

type memImages struct{ s *memoryStore }

func (r memImages) FindByID(_ context.Context, id uuid.UUID) (*connector.ProductImage, error) {
	return r.s.images.get(id)
}

func (r memImages) Save(_ context.Context, i *connector.ProductImage) error {
	r.s.images.put(i.ID, *i)
	return nil
}

type memTaxes struct{ s *memoryStore }

func (r memTaxes) FindByID(_ context.Context, id uuid.UUID) (*connector.Tax, error) {
	return r.s.taxes.get(id)
}

func (r memTaxes) ListByGroup(_ context.Context, groupID uuid.UUID) ([]connector.Tax, error) {
	out := make([]connector.Tax, 0)
	for _, t := range r.s.taxes.all() {
		if t.GroupID != nil && *t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTaxes) Save(_ context.Context, t *connector.Tax) error {
	r.s.taxes.put(t.ID, *t)
	return nil
}

func (r memTaxes) FindGroupByID(_ context.Context, id uuid.UUID) (*connector.TaxGroup, error) {
	return r.s.groups.get(id)
}

func (r memTaxes) FindGroupByName(_ context.Context, companyID uuid.UUID, name string) (*connector.TaxGroup, error) {
	for _, g := range r.s.groups.all() {
		if g.CompanyID == companyID && g.Name == name {
			return &g, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memTaxes) SaveGroup(_ context.Context, g *connector.TaxGroup) error {
	r.s.groups.put(g.ID, *g)
	return nil
}

type memPartners struct{ s *memoryStore }

func (r memPartners) FindByID(_ context.Context, id uuid.UUID) (*connector.Partner, error) {
	return r.s.partners.get(id)
}

func (r memPartners) FindByEmail(_ context.Context, companyID uuid.UUID, email string) (*connector.Partner, error) {
	for _, p := range r.s.partners.all() {
		if p.CompanyID == companyID && strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memPartners) Save(_ context.Context, p *connector.Partner) error {
	r.s.partners.put(p.ID, *p)
	return nil
}

func (r memPartners) FindCarrierByID(_ context.Context, id uuid.UUID) (*connector.Carrier, error) {
	return r.s.carriers.get(id)
}

func (r memPartners) SaveCarrier(_ context.Context, c *connector.Carrier) error {
	r.s.carriers.put(c.ID, *c)
	return nil
}

// ---------------------------------------------------------------------------
// Fake shop
// ---------------------------------------------------------------------------

type writeCall struct {
	resource string
	id       int64
	values   connector.Record
}

type fakeShop struct {
	records  map[string]map[int64]connector.Record
	search   map[string][]int64
	images   map[string]*connector.RemoteImage
	reads    []string
	queries  []connector.Filters
	created  []writeCall
	written  []writeCall
	nextID   int64
	readErrs map[string]error
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		records:  make(map[string]map[int64]connector.Record),
		search:   make(map[string][]int64),
		images:   make(map[string]*connector.RemoteImage),
		readErrs: make(map[string]error),
		nextID:   100,
	}
}

func (f *fakeShop) add(entity connector.EntityType, record connector.Record) {
	f.addResource(entity.Resource(), record)
}

func (f *fakeShop) addResource(resource string, record connector.Record) {
	if f.records[resource] == nil {
		f.records[resource] = make(map[int64]connector.Record)
	}
	f.records[resource][record.ID()] = record
}

func (f *fakeShop) Read(_ context.Context, resource string, id int64) (connector.Record, error) {
	key := fmt.Sprintf("%s/%d", resource, id)
	f.reads = append(f.reads, key)
	if err, ok := f.readErrs[key]; ok {
		return nil, err
	}
	record, ok := f.records[resource][id]
	if !ok {
		return nil, fmt.Errorf("HTTP 404: %s", key)
	}
	return record, nil
}

func (f *fakeShop) Search(_ context.Context, resource string, filters connector.Filters) ([]int64, error) {
	f.queries = append(f.queries, filters.Clone())
	ids := f.search[resource]
	limit, ok := filters["limit"]
	if !ok {
		return ids, nil
	}
	offset, size := 0, len(ids)
	if parts := strings.SplitN(limit, ",", 2); len(parts) == 2 {
		offset, _ = strconv.Atoi(parts[0])
		size, _ = strconv.Atoi(parts[1])
	} else {
		size, _ = strconv.Atoi(limit)
	}
	if offset >= len(ids) {
		return []int64{}, nil
	}
	end := offset + size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], nil
}

func (f *fakeShop) Create(_ context.Context, resource, _ string, values connector.Record) (int64, error) {
	f.nextID++
	f.created = append(f.created, writeCall{resource: resource, id: f.nextID, values: values})
	return f.nextID, nil
}

func (f *fakeShop) Write(_ context.Context, resource, _ string, id int64, values connector.Record) error {
	f.written = append(f.written, writeCall{resource: resource, id: id, values: values})
	return nil
}

func (f *fakeShop) ReadImage(_ context.Context, productID, imageID int64) (*connector.RemoteImage, error) {
	img, ok := f.images[fmt.Sprintf("%d/%d", productID, imageID)]
	if !ok {
		return nil, fmt.Errorf("HTTP 404: image %d/%d", productID, imageID)
	}
	return img, nil
}

func (f *fakeShop) For(*connector.Backend) (connector.WebService, error) {
	return f, nil
}

// ---------------------------------------------------------------------------
// Queue and image store
// ---------------------------------------------------------------------------

type recordingQueue struct {
	jobs []*connector.Job
	seen map[string]bool
}

func newRecordingQueue() *recordingQueue {
	return &recordingQueue{seen: make(map[string]bool)}
}

func (q *recordingQueue) Enqueue(_ context.Context, job *connector.Job) (bool, error) {
	if job.IdentityKey != "" {
		if q.seen[job.IdentityKey] {
			return false, nil
		}
		q.seen[job.IdentityKey] = true
	}
	q.jobs = append(q.jobs, job)
	return true, nil
}

func (q *recordingQueue) named(name connector.JobName) []*connector.Job {
	out := make([]*connector.Job, 0)
	for _, j := range q.jobs {
		if j.Name == name {
			out = append(out, j)
		}
	}
	return out
}

type memoryImages struct {
	objects map[string][]byte
}

func (m *memoryImages) Put(_ context.Context, key string, content []byte, _ string) (string, error) {
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = content
	return "memory://" + key, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	testCompanyID = uuid.MustParse("0b9a8f5e-4a43-4d5f-9d2c-6f2e1c3b7a10")
	testNow       = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
)

type fixture struct {
	store   *memoryStore
	shop    *fakeShop
	queue   *recordingQueue
	images  *memoryImages
	backend *connector.Backend
}

func newFixture() *fixture {
	backend, err := connector.NewBackend("shop", "https://shop.example.com", "KEY", "1.6.1.2", testCompanyID)
	if err != nil {
		panic(err)
	}
	backend.Languages = []connector.Language{{ExternalID: 1, Code: "en_US"}}
	f := &fixture{
		store:   newMemoryStore(),
		shop:    newFakeShop(),
		queue:   newRecordingQueue(),
		images:  &memoryImages{},
		backend: backend,
	}
	f.store.backends.put(backend.ID, *backend)
	return f
}

func (f *fixture) env() *Environment {
	return NewEnvironment(f.backend, f.store, f.shop, f.images, zap.NewNop(), func() time.Time { return testNow })
}

func (f *fixture) runner() *JobRunner {
	return NewJobRunner(JobRunnerConfig{
		Backends:    memBackends{f.store},
		Scope:       f.store,
		WebServices: f.shop,
		Queue:       f.queue,
		Images:      f.images,
		Logger:      zap.NewNop(),
		Now:         func() time.Time { return testNow },
	})
}

func ids(values ...int64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, map[string]any{"id": strconv.FormatInt(v, 10)})
	}
	return out
}

func product(id int64, fields map[string]any) connector.Record {
	r := connector.Record{
		"id":                 strconv.FormatInt(id, 10),
		"name":               "Shirt",
		"reference":          "",
		"price":              "10",
		"wholesale_price":    "4",
		"weight":             "0.5",
		"id_tax_rules_group": "0",
		"id_manufacturer":    "0",
		"active":             "1",
		"date_add":           "2026-01-01 10:00:00",
		"date_upd":           "2026-01-02 10:00:00",
		"associations":       map[string]any{},
	}
	for k, v := range fields {
		r[k] = v
	}
	return r
}
