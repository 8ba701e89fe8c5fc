package modules

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Gunvolt24/tenderstore/internal/domain"
	"github.com/Gunvolt24/tenderstore/internal/ports"
)

// ProjectSortField - поле сортировки проектов.
type ProjectSortField string

const (
	SortByName      ProjectSortField = "name"
	SortByValue     ProjectSortField = "value"
	SortByDeadline  ProjectSortField = "deadline"
	SortByProgress  ProjectSortField = "progress"
	SortByCreatedAt ProjectSortField = "createdAt"
)

// Projects - портфель проектов под ключом KeyProjects.
type Projects struct {
	st  Store
	log ports.Logger
	now clock
	mu  sync.Mutex
}

var _ Module = (*Projects)(nil)

func NewProjects(st Store, log ports.Logger, opts ...Option) *Projects {
	o := buildOptions(opts)
	return &Projects{st: st, log: log, now: o.now}
}

func (p *Projects) Name() string { return "projects" }

func (p *Projects) Keys() []string { return append([]string{KeyProjects}, LegacyProjectKeys...) }

func (p *Projects) Initialize(ctx context.Context) MigrationOutcome {
	return migration[domain.ProjectList, domain.ProjectList]{
		module:  p.Name(),
		modern:  KeyProjects,
		legacy:  LegacyProjectKeys,
		empty:   func(l domain.ProjectList) bool { return len(l) == 0 },
		convert: identity[domain.ProjectList],
	}.run(ctx, p.st, p.log)
}

func (p *Projects) load(ctx context.Context) domain.ProjectList {
	var list domain.ProjectList
	if !p.st.Get(ctx, KeyProjects, &list) {
		return nil
	}
	return list
}

// loadForUpdate - как load, но ключ, который есть и не читается, - ошибка.
func (p *Projects) loadForUpdate(ctx context.Context) (domain.ProjectList, error) {
	var list domain.ProjectList
	if _, err := p.st.Lookup(ctx, KeyProjects, &list); err != nil {
		return nil, unreadable(p.Name(), KeyProjects, err)
	}
	return list, nil
}

func (p *Projects) All(ctx context.Context) []domain.Project {
	return p.load(ctx)
}

func (p *Projects) Get(ctx context.Context, id string) (domain.Project, error) {
	for _, pr := range p.load(ctx) {
		if pr.ID == id {
			return pr, nil
		}
	}
	return domain.Project{}, notFound("project", id)
}

// Create - новый проект: id (если не задан), метки времени, прогресс в пределах 0..100.
func (p *Projects) Create(ctx context.Context, in domain.Project) (domain.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Project{}, invalidInput("project name is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.loadForUpdate(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if slices.ContainsFunc(list, func(x domain.Project) bool { return x.ID == in.ID }) {
		return domain.Project{}, invalidInput("project %q already exists", in.ID)
	}
	if in.Status == "" {
		in.Status = domain.ProjectPlanning
	}
	in.Progress = clampProgress(in.Progress)
	now := p.now.stamp()
	in.CreatedAt, in.UpdatedAt = now, now

	if err := p.st.Set(ctx, KeyProjects, append(list, in)); err != nil {
		return domain.Project{}, err
	}
	return in, nil
}

// Update - замена полей проекта; id и createdAt сохраняются.
func (p *Projects) Update(ctx context.Context, id string, in domain.Project) (domain.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.loadForUpdate(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	i := slices.IndexFunc(list, func(x domain.Project) bool { return x.ID == id })
	if i < 0 {
		return domain.Project{}, notFound("project", id)
	}
	in.ID, in.CreatedAt = id, list[i].CreatedAt
	if in.Status == "" {
		in.Status = list[i].Status
	}
	in.Progress = clampProgress(in.Progress)
	in.UpdatedAt = p.now.stamp()
	list[i] = in

	if err := p.st.Set(ctx, KeyProjects, list); err != nil {
		return domain.Project{}, err
	}
	return in, nil
}

func (p *Projects) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(x domain.Project) bool { return x.ID == id })
	if len(list) == n {
		return notFound("project", id)
	}
	return p.st.Set(ctx, KeyProjects, list)
}

// Search - регистронезависимый поиск по имени, заказчику и описанию. Пустой запрос - все проекты.
func (p *Projects) Search(ctx context.Context, query string) []domain.Project {
	list := p.load(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]domain.Project, 0, len(list))
	for _, pr := range list {
		if strings.Contains(strings.ToLower(pr.Name), q) ||
			strings.Contains(strings.ToLower(pr.Client), q) ||
			strings.Contains(strings.ToLower(pr.Description), q) {
			out = append(out, pr)
		}
	}
	return out
}

// SortProjects - устойчивая сортировка копии списка.
func SortProjects(list []domain.Project, field ProjectSortField, desc bool) []domain.Project {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b domain.Project) int {
		var c int
		switch field {
		case SortByValue:
			c = cmp.Compare(a.Value, b.Value)
		case SortByDeadline:
			c = cmp.Compare(a.Deadline, b.Deadline)
		case SortByProgress:
			c = cmp.Compare(a.Progress, b.Progress)
		case SortByCreatedAt:
			c = cmp.Compare(a.CreatedAt, b.CreatedAt)
		default:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}

func (p *Projects) Count(ctx context.Context) int { return len(p.load(ctx)) }

func (p *Projects) Exists(ctx context.Context, id string) bool {
	_, err := p.Get(ctx, id)
	return err == nil
}

// Import - слияние по id (входящие записи побеждают) либо полная замена.
// Возвращает число импортированных проектов.
func (p *Projects) Import(ctx context.Context, in []domain.Project, replace bool) (int, error) {
	if err := domain.ProjectList(in).Validate(); err != nil {
		return 0, invalidInput("import projects: %v", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var list domain.ProjectList
	if !replace {
		var err error
		if list, err = p.loadForUpdate(ctx); err != nil {
			return 0, err
		}
	}
	for _, pr := range in {
		if i := slices.IndexFunc(list, func(x domain.Project) bool { return x.ID == pr.ID }); i >= 0 {
			list[i] = pr
			continue
		}
		list = append(list, pr)
	}
	if list == nil {
		list = domain.ProjectList{}
	}
	if err := p.st.Set(ctx, KeyProjects, list); err != nil {
		return 0, err
	}
	return len(in), nil
}

func (p *Projects) Export(ctx context.Context) []domain.Project {
	list := p.load(ctx)
	if list == nil {
		return []domain.Project{}
	}
	return list
}

func (p *Projects) Clear(ctx context.Context) error {
	return p.st.Remove(ctx, KeyProjects)
}

func clampProgress(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(100, v))
}
