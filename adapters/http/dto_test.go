package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-dashboard/internal/domain/profile"
	"github.com/khoahotran/profile-dashboard/internal/domain/search"
)

func TestToMatchRecordDTO_WireShapes(t *testing.T) {
	year := 2019
	tests := []struct {
		name   string
		record search.MatchRecord
		want   string
	}{
		{
			name:   "profile",
			record: search.MatchRecord{Kind: search.KindProfile, OwnerName: "A", OwnerEmail: "a@example.com"},
			want:   `{"type":"profile","name":"A","email":"a@example.com"}`,
		},
		{
			name:   "skill",
			record: search.MatchRecord{Kind: search.KindSkill, OwnerName: "A", Skill: "Go"},
			want:   `{"type":"skill","skill":"Go","name":"A"}`,
		},
		{
			name: "education",
			record: search.MatchRecord{Kind: search.KindEducation, OwnerName: "A", Education: &profile.Education{
				Degree: "B.Tech", College: "IIT", CGPA: "8.1", StartYear: 2015, EndYear: 2019,
			}},
			want: `{"type":"education","degree":"B.Tech","college":"IIT","cgpa":"8.1","start_year":2015,"end_year":2019,"name":"A"}`,
		},
		{
			name: "education with legacy year",
			record: search.MatchRecord{Kind: search.KindEducation, OwnerName: "A", Education: &profile.Education{
				Degree: "B.Tech", Year: &year,
			}},
			want: `{"type":"education","degree":"B.Tech","college":"","cgpa":"","start_year":0,"end_year":0,"year":2019,"name":"A"}`,
		},
		{
			name: "experience",
			record: search.MatchRecord{Kind: search.KindExperience, OwnerName: "A", Experience: &profile.Experience{
				Role: "Dev", Company: "Acme", Timeline: "2020", Description: "apis",
			}},
			want: `{"type":"experience","role":"Dev","company":"Acme","timeline":"2020","description":"apis","name":"A"}`,
		},
		{
			name: "project",
			record: search.MatchRecord{Kind: search.KindProject, OwnerName: "A", Project: &profile.Project{
				Title: "Shop", Description: "store", Skills: []string{"Go"}, Timeline: "2021",
			}},
			want: `{"type":"project","title":"Shop","description":"store","skills":["Go"],"timeline":"2021","name":"A"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(ToMatchRecordDTO(tc.record))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestToMatchRecordDTO_MissingEntity(t *testing.T) {
	got, err := json.Marshal(ToMatchRecordDTO(search.MatchRecord{Kind: search.KindProject, OwnerName: "A"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"project","title":"","description":"","skills":[],"timeline":"","name":"A"}`, string(got))
}

func TestUpsertProfileRequest_ToInput_KeepsAbsentFieldsNil(t *testing.T) {
	var req UpsertProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","email":"a@example.com","skills":[],"links":{"github":"g"}}`), &req))

	in := req.ToInput()
	assert.Nil(t, in.Phone)
	assert.Nil(t, in.Projects)
	require.NotNil(t, in.Skills)
	assert.Empty(t, *in.Skills)
	require.NotNil(t, in.Links)
	assert.Equal(t, "g", *in.Links.GitHub)
	assert.Nil(t, in.Links.LinkedIn)
}
