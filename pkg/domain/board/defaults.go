package board

// DefaultLanes is the product development roadmap used when no lanes are configured.
func DefaultLanes() []Lane {
	return []Lane{
		{
			ID:    "planning",
			Title: "Planning",
			Color: "hsl(340 72% 50%)",
			Tasks: []Task{
				{ID: "task-pl1", Content: "Q3 Roadmap Planning"},
				{ID: "task-pl2", Content: "Define V2.0.0 Scope"},
			},
		},
		{
			ID:    "development",
			Title: "Development",
			Color: "hsl(28 100% 53%)",
			Tasks: []Task{
				{ID: "task-d1", Content: "Setup CI/CD Pipeline"},
				{ID: "task-d2", Content: "Backend API for User Profiles"},
				{ID: "task-d3", Content: "Frontend Component Library Setup"},
				{ID: "task-d4", Content: "Database Schema Design"},
			},
		},
		{
			ID:    "upcoming-release",
			Title: "Upcoming Release",
			Color: "hsl(45 100% 51%)",
			Tasks: []Task{
				{ID: "task-ur1", Content: "Finalize V2.0.0 Feature Set"},
				{ID: "task-ur2", Content: "Alpha Release Candidate Build"},
				{ID: "task-ur3", Content: "User Acceptance Testing (UAT)"},
				{ID: "task-ur4", Content: "Prepare Launch Communications"},
			},
		},
		{
			ID:    "ux-ui",
			Title: "UX & UI",
			Color: "hsl(180 65% 40%)",
			Tasks: []Task{
				{ID: "task-ux1", Content: "User Persona Definition"},
				{ID: "task-ux2", Content: "Wireframing Key Screens"},
				{ID: "task-ux3", Content: "High-Fidelity Mockups"},
				{ID: "task-ux4", Content: "Usability Testing Round 1"},
			},
		},
		{
			ID:    "strategy",
			Title: "Strategy & Marketing",
			Color: "hsl(210 65% 45%)",
			Tasks: []Task{
				{ID: "task-s1", Content: "Competitor Analysis Q1"},
				{ID: "task-s2", Content: "Content Marketing Plan"},
				{ID: "task-s3", Content: "Social Media Campaign Launch"},
			},
		},
	}
}
