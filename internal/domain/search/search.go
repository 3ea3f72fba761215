package search

import (
	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
)

type Kind string

const (
	KindProfile    Kind = "profile"
	KindSkill      Kind = "skill"
	KindEducation  Kind = "education"
	KindExperience Kind = "experience"
	KindProject    Kind = "project"
)

// MatchRecord is one hit produced by Search. Exactly one of the entity
// fields is set, according to Kind; KindProfile and KindSkill use the
// owner fields and Skill only.
type MatchRecord struct {
	Kind       Kind
	OwnerName  string
	OwnerEmail string
	Skill      string
	Education  *profile.Education
	Experience *profile.Experience
	Project    *profile.Project
}

// ProjectMatch is one project returned by a skill lookup.
type ProjectMatch struct {
	OwnerName   string
	Title       string
	Description string
	Skills      []string
	Timeline    string
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}
