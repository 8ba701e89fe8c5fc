package domain

import "fmt"

// ProjectStatus - стадия тендерного проекта.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPlanning  ProjectStatus = "planning"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Project - проект (тендер) в портфеле.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Client      string        `json:"client,omitempty"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Progress    float64       `json:"progress"`
	Value       float64       `json:"value"`
	Deadline    string        `json:"deadline,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// ProjectList - коллекция проектов под одним ключом.
type ProjectList []Project

// Validate - у каждого проекта есть id, id не повторяются.
func (l ProjectList) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i, p := range l {
		if p.ID == "" {
			return fmt.Errorf("project[%d]: empty id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("project[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// ProjectQuery - поиск проектов: подстрока, сортировка и страница.
// Limit <= 0 - без ограничения.
type ProjectQuery struct {
	Text   string
	SortBy string
	Desc   bool
	Limit  int
	Offset int
}
