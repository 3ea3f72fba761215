package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Education struct {
	Degree    string `json:"degree"`
	College   string `json:"college"`
	CGPA      string `json:"cgpa"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	// Year is the legacy single-year field. Stored and returned as-is.
	Year *int `json:"year,omitempty"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Timeline    string   `json:"timeline"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Timeline    string `json:"timeline"`
	Description string `json:"description"`
}

type Links struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// Profile is the root document. Education, projects and experience entries
// have no identity outside their position in the parent.
type Profile struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Portfolio  string       `json:"portfolio"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
	Projects   []Project    `json:"projects"`
	Experience []Experience `json:"experience"`
	Languages  []string     `json:"languages"`
	Links      Links        `json:"links"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

var (
	ErrNameRequired          = errors.New("name is required")
	ErrEmailRequired         = errors.New("email is required")
	ErrProjectTitleRequired  = errors.New("project title is required")
	ErrProjectSkillsRequired = errors.New("project skills must not be empty")
)

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmailRequired
	}
	for i, pr := range p.Projects {
		if strings.TrimSpace(pr.Title) == "" {
			return fmt.Errorf("projects[%d]: %w", i, ErrProjectTitleRequired)
		}
		if len(pr.Skills) == 0 {
			return fmt.Errorf("projects[%d]: %w", i, ErrProjectSkillsRequired)
		}
	}
	return nil
}

// Normalize replaces nil collections with empty ones so documents always
// serialize with arrays instead of null.
func (p *Profile) Normalize() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	for i := range p.Projects {
		if p.Projects[i].Skills == nil {
			p.Projects[i].Skills = []string{}
		}
	}
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate persisted state through a shared slice.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = append([]string(nil), p.Skills...)
	c.Languages = append([]string(nil), p.Languages...)
	c.Experience = append([]Experience(nil), p.Experience...)
	c.Education = make([]Education, len(p.Education))
	for i, e := range p.Education {
		c.Education[i] = e
		if e.Year != nil {
			y := *e.Year
			c.Education[i].Year = &y
		}
	}
	c.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		c.Projects[i] = pr
		c.Projects[i].Skills = append([]string(nil), pr.Skills...)
	}
	c.Normalize()
	return &c
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	// FindMostRecentlyUpdated resolves the authoritative profile of a
	// single-user deployment. Returns a not found error on an empty store.
	FindMostRecentlyUpdated(ctx context.Context) (*Profile, error)
	// ListAll returns every profile in creation order.
	ListAll(ctx context.Context) ([]*Profile, error)
	// ListByProjectSkill may return a superset; callers filter precisely.
	ListByProjectSkill(ctx context.Context, skill string) ([]*Profile, error)
	// Save inserts or replaces the profile keyed by ID, assigning one on first
	// save, and stamps UpdatedAt. Email stays unique across profiles.
	Save(ctx context.Context, p *Profile) error
	Count(ctx context.Context) (int, error)
}
