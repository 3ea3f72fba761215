package search

import (
	"sort"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/textnorm"
)

const DefaultTopSkillsLimit = 10

// SkillCounts counts project skills across all documents after case folding.
// Ordered by count descending; equal counts keep discovery order.
// Top-level profile skills are not counted.
func SkillCounts(documents []*profile.Profile) []SkillCount {
	index := make(map[string]int)
	counts := make([]SkillCount, 0)

	for _, doc := range documents {
		if doc == nil {
			continue
		}
		for _, pr := range doc.Projects {
			for _, s := range pr.Skills {
				key := textnorm.Normalize(s)
				if i, ok := index[key]; ok {
					counts[i].Count++
					continue
				}
				index[key] = len(counts)
				counts = append(counts, SkillCount{Skill: key, Count: 1})
			}
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopSkills returns at most limit lower-cased skill names, most frequent
// first. A non-positive limit means DefaultTopSkillsLimit.
func TopSkills(documents []*profile.Profile, limit int) []string {
	counts := TopSkillCounts(documents, limit)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Skill
	}
	return out
}

// TopSkillCounts is TopSkills with the frequencies kept.
func TopSkillCounts(documents []*profile.Profile, limit int) []SkillCount {
	if limit <= 0 {
		limit = DefaultTopSkillsLimit
	}
	counts := SkillCounts(documents)
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
