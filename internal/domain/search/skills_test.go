package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
)

func TestTopSkills_Empty(t *testing.T) {
	assert.Equal(t, []string{}, TopSkills(nil, 10))
	assert.Equal(t, []string{}, TopSkills([]*profile.Profile{{Name: "A", Skills: []string{"Go"}}}, 10))
}

func TestTopSkills_CaseVariantsAggregate(t *testing.T) {
	docs := []*profile.Profile{{
		Name: "A",
		Projects: []profile.Project{
			{Title: "One", Skills: []string{"React.js"}},
			{Title: "Two", Skills: []string{"react.js"}},
		},
	}}

	assert.Equal(t, []string{"react.js"}, TopSkills(docs, 10))
	assert.Equal(t, []SkillCount{{Skill: "react.js", Count: 2}}, SkillCounts(docs))
}

func TestTopSkills_RankingAndTieOrder(t *testing.T) {
	docs := []*profile.Profile{
		{Name: "A", Projects: []profile.Project{
			{Skills: []string{"Go", "SQL"}},
			{Skills: []string{"Docker", "go"}},
		}},
		{Name: "B", Projects: []profile.Project{
			{Skills: []string{"SQL", "GO", "Kafka"}},
		}},
	}

	// go=3, sql=2, docker=1, kafka=1 (docker discovered first)
	assert.Equal(t, []string{"go", "sql", "docker", "kafka"}, TopSkills(docs, 0))
	assert.Equal(t, []string{"go", "sql"}, TopSkills(docs, 2))
}

func TestTopSkills_LimitAndCorrectTopK(t *testing.T) {
	var projects []profile.Project
	// skill-i appears i+1 times.
	for i := 0; i < 15; i++ {
		for n := 0; n <= i; n++ {
			projects = append(projects, profile.Project{Skills: []string{fmt.Sprintf("Skill-%d", i)}})
		}
	}
	docs := []*profile.Profile{{Name: "A", Projects: projects}}

	top := TopSkills(docs, 10)
	require.Len(t, top, 10)

	seen := map[string]bool{}
	for _, s := range top {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}

	counts := map[string]int{}
	for _, c := range SkillCounts(docs) {
		counts[c.Skill] = c.Count
	}
	minIn := counts[top[len(top)-1]]
	for skill, c := range counts {
		if !seen[skill] {
			assert.LessOrEqual(t, c, minIn)
		}
	}
	assert.Equal(t, "skill-14", top[0])
}

func TestTopSkillCounts(t *testing.T) {
	docs := []*profile.Profile{{Name: "A", Projects: []profile.Project{
		{Skills: []string{"Go", "Go", "Rust"}},
	}}}
	assert.Equal(t, []SkillCount{{"go", 2}, {"rust", 1}}, TopSkillCounts(docs, 5))
	assert.Equal(t, []SkillCount{{"go", 2}}, TopSkillCounts(docs, 1))
}
