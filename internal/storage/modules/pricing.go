package modules

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// PricingStore - данные ценообразования по tenderId.
type PricingStore map[string]domain.PricingRecord

// Validate - ключ карты совпадает с tenderId записи.
func (s PricingStore) Validate() error {
	for id, rec := range s {
		if id == "" || rec.TenderID != id {
			return invalidInput("pricing store: key %q does not match tenderId %q", id, rec.TenderID)
		}
	}
	return nil
}

// Pricing - модуль данных ценообразования.
type Pricing struct {
	st  Store
	log ports.Logger
	now clock
	mu  sync.Mutex
}

var _ Module = (*Pricing)(nil)

func NewPricing(st Store, log ports.Logger, opts ...Option) *Pricing {
	o := buildOptions(opts)
	return &Pricing{st: st, log: log, now: o.now}
}

func (p *Pricing) Name() string { return "pricing" }

func (p *Pricing) Keys() []string { return append([]string{KeyPricing}, LegacyPricingKeys...) }

func (p *Pricing) Initialize(ctx context.Context) MigrationOutcome {
	return migration[PricingStore, PricingStore]{
		module:  p.Name(),
		modern:  KeyPricing,
		legacy:  LegacyPricingKeys,
		empty:   func(s PricingStore) bool { return len(s) == 0 },
		convert: identity[PricingStore],
	}.run(ctx, p.st, p.log)
}

func (p *Pricing) load(ctx context.Context) PricingStore {
	var s PricingStore
	if !p.st.Get(ctx, KeyPricing, &s) || s == nil {
		return PricingStore{}
	}
	return s
}

// loadForUpdate - как load, но ключ, который есть и не читается, - ошибка.
func (p *Pricing) loadForUpdate(ctx context.Context) (PricingStore, error) {
	var s PricingStore
	if _, err := p.st.Lookup(ctx, KeyPricing, &s); err != nil {
		return nil, unreadable(p.Name(), KeyPricing, err)
	}
	if s == nil {
		s = PricingStore{}
	}
	return s, nil
}

func (p *Pricing) Get(ctx context.Context, tenderID string) (domain.PricingRecord, bool) {
	rec, ok := p.load(ctx)[tenderID]
	return rec, ok
}

// Save - сохраняет запись, увеличивая версию и обновляя lastUpdated.
func (p *Pricing) Save(ctx context.Context, rec domain.PricingRecord) (domain.PricingRecord, error) {
	if strings.TrimSpace(rec.TenderID) == "" {
		return domain.PricingRecord{}, invalidInput("pricing: tenderId is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.loadForUpdate(ctx)
	if err != nil {
		return domain.PricingRecord{}, err
	}
	rec.Version = s[rec.TenderID].Version + 1
	rec.LastUpdated = p.now.stamp()
	s[rec.TenderID] = rec
	if err := p.st.Set(ctx, KeyPricing, s); err != nil {
		return domain.PricingRecord{}, err
	}
	return rec, nil
}

// Delete - удаляет запись; false, если её не было.
func (p *Pricing) Delete(ctx context.Context, tenderID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.loadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := s[tenderID]; !ok {
		return false, nil
	}
	delete(s, tenderID)
	return true, p.st.Set(ctx, KeyPricing, s)
}

// TenderIDs - идентификаторы тендеров в лексикографическом порядке.
func (p *Pricing) TenderIDs(ctx context.Context) []string {
	return slices.Sorted(maps.Keys(p.load(ctx)))
}

func (p *Pricing) Count(ctx context.Context) int { return len(p.load(ctx)) }

func (p *Pricing) Exists(ctx context.Context, tenderID string) bool {
	_, ok := p.Get(ctx, tenderID)
	return ok
}

// Import - слияние (входящие записи побеждают) либо полная замена.
func (p *Pricing) Import(ctx context.Context, in PricingStore, replace bool) (int, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := PricingStore{}
	if !replace {
		var err error
		if s, err = p.loadForUpdate(ctx); err != nil {
			return 0, err
		}
	}
	maps.Copy(s, in)
	if err := p.st.Set(ctx, KeyPricing, s); err != nil {
		return 0, err
	}
	return len(in), nil
}

func (p *Pricing) Export(ctx context.Context) PricingStore { return p.load(ctx) }

func (p *Pricing) Clear(ctx context.Context) error { return p.st.Remove(ctx, KeyPricing) }
