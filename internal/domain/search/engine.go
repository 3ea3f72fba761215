package search

import (
	"strings"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/textnorm"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
)

// Search scans every document for case-insensitive literal occurrences of
// query. Records come out grouped by document, in the order the documents
// were supplied, and within a document in the order profile, skill,
// education, experience, project. Documents are read, never modified.
func Search(query string, documents []*profile.Profile) ([]MatchRecord, error) {
	if textnorm.IsBlank(query) {
		return nil, apperror.NewInvalidQuery("search query must not be empty")
	}
	q := textnorm.Normalize(strings.TrimSpace(query))

	results := make([]MatchRecord, 0)
	for _, doc := range documents {
		if doc == nil {
			continue
		}
		results = appendMatches(results, q, doc)
	}
	return results, nil
}

func appendMatches(out []MatchRecord, q string, doc *profile.Profile) []MatchRecord {
	if textnorm.Contains(doc.Name, q) {
		out = append(out, MatchRecord{
			Kind:       KindProfile,
			OwnerName:  doc.Name,
			OwnerEmail: doc.Email,
		})
	}

	// One skill record per profile: the first matching entry wins.
	for _, s := range doc.Skills {
		if textnorm.Contains(s, q) {
			out = append(out, MatchRecord{
				Kind:       KindSkill,
				OwnerName:  doc.Name,
				OwnerEmail: doc.Email,
				Skill:      s,
			})
			break
		}
	}

	for _, edu := range doc.Education {
		if textnorm.Contains(edu.Degree, q) || textnorm.Contains(edu.College, q) {
			e := edu
			if edu.Year != nil {
				y := *edu.Year
				e.Year = &y
			}
			out = append(out, MatchRecord{
				Kind:       KindEducation,
				OwnerName:  doc.Name,
				OwnerEmail: doc.Email,
				Education:  &e,
			})
		}
	}

	for _, exp := range doc.Experience {
		if textnorm.Contains(exp.Role, q) ||
			textnorm.Contains(exp.Company, q) ||
			textnorm.Contains(exp.Description, q) {
			e := exp
			out = append(out, MatchRecord{
				Kind:       KindExperience,
				OwnerName:  doc.Name,
				OwnerEmail: doc.Email,
				Experience: &e,
			})
		}
	}

	for _, pr := range doc.Projects {
		if textnorm.Contains(pr.Title, q) || textnorm.Contains(pr.Description, q) {
			p := pr
			p.Skills = copySkills(pr.Skills)
			out = append(out, MatchRecord{
				Kind:       KindProject,
				OwnerName:  doc.Name,
				OwnerEmail: doc.Email,
				Project:    &p,
			})
		}
	}

	return out
}

// ProjectsBySkill returns every project that lists a skill containing the
// given term, in document order and then project order.
func ProjectsBySkill(skill string, documents []*profile.Profile) ([]ProjectMatch, error) {
	if textnorm.IsBlank(skill) {
		return nil, apperror.NewInvalidQuery("skill parameter is required")
	}
	q := textnorm.Normalize(strings.TrimSpace(skill))

	results := make([]ProjectMatch, 0)
	for _, doc := range documents {
		if doc == nil {
			continue
		}
		for _, pr := range doc.Projects {
			if !anySkillContains(pr.Skills, q) {
				continue
			}
			results = append(results, ProjectMatch{
				OwnerName:   doc.Name,
				Title:       pr.Title,
				Description: pr.Description,
				Skills:      copySkills(pr.Skills),
				Timeline:    pr.Timeline,
			})
		}
	}
	return results, nil
}

func anySkillContains(skills []string, q string) bool {
	for _, s := range skills {
		if textnorm.Contains(s, q) {
			return true
		}
	}
	return false
}

func copySkills(skills []string) []string {
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
