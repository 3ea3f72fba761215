package profile

// DefaultProfile is the document materialized by the seed step on an empty store.
func DefaultProfile() *Profile {
	p := &Profile{
		Name:      "Avinash Kumar",
		Email:     "avinash.kumar@example.com",
		Phone:     "",
		Portfolio: "https://avinash.dev",
		Education: []Education{
			{
				Degree:    "B.Tech in Computer Science",
				College:   "Indian Institute of Information Technology",
				CGPA:      "8.4",
				StartYear: 2021,
				EndYear:   2025,
			},
		},
		Skills: []string{"JavaScript", "React.js", "Node.js", "MongoDB", "Go", "SQL"},
		Projects: []Project{
			{
				Title:       "Inventory System",
				Description: "Stock tracking dashboard with role based access and low stock alerts.",
				Skills:      []string{"React.js", "Node.js", "MongoDB"},
				Timeline:    "Jan 2024 - Mar 2024",
			},
			{
				Title:       "Profile Dashboard",
				Description: "Personal profile API with search and skill analytics.",
				Skills:      []string{"Go", "PostgreSQL", "React.js"},
				Timeline:    "Jun 2024",
			},
		},
		Experience: []Experience{
			{
				Role:        "Software Engineering Intern",
				Company:     "Acme Labs",
				Timeline:    "May 2024 - Jul 2024",
				Description: "Built internal REST services and dashboards.",
			},
		},
		Languages: []string{"English", "Hindi"},
		Links: Links{
			GitHub:    "https://github.com/avinash",
			LinkedIn:  "https://linkedin.com/in/avinash",
			Portfolio: "https://avinash.dev",
		},
	}
	p.Normalize()
	return p
}
