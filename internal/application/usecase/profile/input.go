package profile

import (
	"strings"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
)

type LinksInput struct {
	GitHub    *string
	LinkedIn  *string
	Portfolio *string
}

// ProfileInput is a partial profile. A nil field means "not sent" and keeps
// the stored value; a non-nil field overwrites it, even when empty.
type ProfileInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Portfolio  *string
	Education  *[]profile.Education
	Skills     *[]string
	Projects   *[]profile.Project
	Experience *[]profile.Experience
	Languages  *[]string
	Links      *LinksInput
}

func (in ProfileInput) Validate() error {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return profile.ErrNameRequired
	}
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return profile.ErrEmailRequired
	}
	return nil
}

// ApplyTo merges the present fields of in into p.
func (in ProfileInput) ApplyTo(p *profile.Profile) {
	setString(&p.Name, in.Name)
	if in.Email != nil {
		p.Email = strings.TrimSpace(*in.Email)
	}
	setString(&p.Phone, in.Phone)
	setString(&p.Portfolio, in.Portfolio)

	if in.Education != nil {
		p.Education = append([]profile.Education{}, (*in.Education)...)
	}
	if in.Skills != nil {
		p.Skills = append([]string{}, (*in.Skills)...)
	}
	if in.Projects != nil {
		p.Projects = make([]profile.Project, len(*in.Projects))
		for i, pr := range *in.Projects {
			pr.Skills = append([]string{}, pr.Skills...)
			p.Projects[i] = pr
		}
	}
	if in.Experience != nil {
		p.Experience = append([]profile.Experience{}, (*in.Experience)...)
	}
	if in.Languages != nil {
		p.Languages = append([]string{}, (*in.Languages)...)
	}
	if in.Links != nil {
		setString(&p.Links.GitHub, in.Links.GitHub)
		setString(&p.Links.LinkedIn, in.Links.LinkedIn)
		setString(&p.Links.Portfolio, in.Links.Portfolio)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
