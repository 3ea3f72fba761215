package http

import (
	"time"

	"github.com/google/uuid"

	profileUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/search"
)

// Profile DTOs
type EducationDTO struct {
	Degree    string `json:"degree"`
	College   string `json:"college"`
	CGPA      string `json:"cgpa"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	// Year is the legacy single-year field, accepted and echoed alongside
	// the start/end pair on purpose. Omitted when unset.
	Year *int `json:"year,omitempty"`
}

type ProjectDTO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Timeline    string   `json:"timeline"`
}

type ExperienceDTO struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Timeline    string `json:"timeline"`
	Description string `json:"description"`
}

type LinksDTO struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

type ProfileDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Portfolio  string          `json:"portfolio"`
	Education  []EducationDTO  `json:"education"`
	Skills     []string        `json:"skills"`
	Projects   []ProjectDTO    `json:"projects"`
	Experience []ExperienceDTO `json:"experience"`
	Languages  []string        `json:"languages"`
	Links      LinksDTO        `json:"links"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Portfolio:  p.Portfolio,
		Education:  make([]EducationDTO, len(p.Education)),
		Skills:     nonNil(p.Skills),
		Projects:   make([]ProjectDTO, len(p.Projects)),
		Experience: make([]ExperienceDTO, len(p.Experience)),
		Languages:  nonNil(p.Languages),
		Links:      LinksDTO(p.Links),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO(e)
	}
	for i, pr := range p.Projects {
		dto.Projects[i] = ProjectDTO{
			Title:       pr.Title,
			Description: pr.Description,
			Skills:      nonNil(pr.Skills),
			Timeline:    pr.Timeline,
		}
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO(e)
	}
	return dto
}

// UpsertProfileRequest keeps every field optional so the use case can tell
// an omitted field from an explicitly empty one. Only name and email are
// required, and the use case enforces that.
type UpsertProfileRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email"`
	Phone      *string          `json:"phone"`
	Portfolio  *string          `json:"portfolio"`
	Education  *[]EducationDTO  `json:"education"`
	Skills     *[]string        `json:"skills"`
	Projects   *[]ProjectDTO    `json:"projects"`
	Experience *[]ExperienceDTO `json:"experience"`
	Languages  *[]string        `json:"languages"`
	Links      *struct {
		GitHub    *string `json:"github"`
		LinkedIn  *string `json:"linkedin"`
		Portfolio *string `json:"portfolio"`
	} `json:"links"`
}

func (req *UpsertProfileRequest) ToInput() profileUC.ProfileInput {
	input := profileUC.ProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Portfolio: req.Portfolio,
		Skills:    req.Skills,
		Languages: req.Languages,
	}
	if req.Education != nil {
		edu := make([]profile.Education, len(*req.Education))
		for i, e := range *req.Education {
			edu[i] = profile.Education(e)
		}
		input.Education = &edu
	}
	if req.Projects != nil {
		projects := make([]profile.Project, len(*req.Projects))
		for i, pr := range *req.Projects {
			projects[i] = profile.Project(pr)
		}
		input.Projects = &projects
	}
	if req.Experience != nil {
		exp := make([]profile.Experience, len(*req.Experience))
		for i, e := range *req.Experience {
			exp[i] = profile.Experience(e)
		}
		input.Experience = &exp
	}
	if req.Links != nil {
		input.Links = &profileUC.LinksInput{
			GitHub:    req.Links.GitHub,
			LinkedIn:  req.Links.LinkedIn,
			Portfolio: req.Links.Portfolio,
		}
	}
	return input
}

type RevisionDTO struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	EventType  string     `json:"event_type"`
	Snapshot   ProfileDTO `json:"snapshot"`
	RecordedAt time.Time  `json:"recorded_at"`
}

func ToRevisionDTO(r profile.Revision) RevisionDTO {
	return RevisionDTO{
		ID:         r.ID,
		Email:      r.Email,
		EventType:  string(r.EventType),
		Snapshot:   ToProfileDTO(&r.Snapshot),
		RecordedAt: r.RecordedAt,
	}
}

// Search DTOs
type ProfileMatchDTO struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SkillMatchDTO struct {
	Type  string `json:"type"`
	Skill string `json:"skill"`
	Name  string `json:"name"`
}

type EducationMatchDTO struct {
	Type      string `json:"type"`
	Degree    string `json:"degree"`
	College   string `json:"college"`
	CGPA      string `json:"cgpa"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	// Year goes beyond the fixed education shape on purpose: older documents
	// only carry the legacy single year, and clients still read it here.
	// Omitted when unset.
	Year      *int   `json:"year,omitempty"`
	Name      string `json:"name"`
}

type ExperienceMatchDTO struct {
	Type        string `json:"type"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Timeline    string `json:"timeline"`
	Description string `json:"description"`
	Name        string `json:"name"`
}

type ProjectMatchDTO struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Timeline    string   `json:"timeline"`
	Name        string   `json:"name"`
}

// ToMatchRecordDTO selects the wire fields for one search hit. It does no
// filtering or ordering. A record whose entity is missing renders with
// zero values rather than failing.
func ToMatchRecordDTO(r search.MatchRecord) any {
	kind := string(r.Kind)
	switch r.Kind {
	case search.KindProfile:
		return ProfileMatchDTO{Type: kind, Name: r.OwnerName, Email: r.OwnerEmail}
	case search.KindSkill:
		return SkillMatchDTO{Type: kind, Skill: r.Skill, Name: r.OwnerName}
	case search.KindEducation:
		dto := EducationMatchDTO{Type: kind, Name: r.OwnerName}
		if e := r.Education; e != nil {
			dto.Degree, dto.College, dto.CGPA = e.Degree, e.College, e.CGPA
			dto.StartYear, dto.EndYear, dto.Year = e.StartYear, e.EndYear, e.Year
		}
		return dto
	case search.KindExperience:
		dto := ExperienceMatchDTO{Type: kind, Name: r.OwnerName}
		if e := r.Experience; e != nil {
			dto.Role, dto.Company, dto.Timeline, dto.Description = e.Role, e.Company, e.Timeline, e.Description
		}
		return dto
	case search.KindProject:
		dto := ProjectMatchDTO{Type: kind, Name: r.OwnerName, Skills: []string{}}
		if p := r.Project; p != nil {
			dto.Title, dto.Description, dto.Timeline = p.Title, p.Description, p.Timeline
			dto.Skills = nonNil(p.Skills)
		}
		return dto
	default:
		return ProfileMatchDTO{Type: kind, Name: r.OwnerName, Email: r.OwnerEmail}
	}
}

func ToMatchRecordDTOs(records []search.MatchRecord) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = ToMatchRecordDTO(r)
	}
	return out
}

// ProjectBySkillDTO keeps title, skills, description first for existing clients.
type ProjectBySkillDTO struct {
	Title       string   `json:"title"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
	Timeline    string   `json:"timeline"`
	Name        string   `json:"name"`
}

func ToProjectBySkillDTO(m search.ProjectMatch) ProjectBySkillDTO {
	return ProjectBySkillDTO{
		Title:       m.Title,
		Skills:      nonNil(m.Skills),
		Description: m.Description,
		Timeline:    m.Timeline,
		Name:        m.OwnerName,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
