package rubric

var Platforms = []string{"KnowBe4", "Kognics.ai", "Cypher", "Kaltura", OtherPlatform}

// Default returns the built-in LMS rubric.
func Default() Rubric {
	return Rubric{
		Platforms: append([]string(nil), Platforms...),
		Categories: []Category{
			{
				ID:     "scalability",
				Name:   "Scalability & User Management",
				Weight: 0.20,
				Items: []Item{
					{ID: "user_group_management", Description: "Ease of creating, managing, and assigning users to specific groups/departments for targeted training. Ability to handle high user rotation efficiently."},
					{ID: "scalability_high_rotation", Description: "Ability to scale user licenses up/down seamlessly and cost-effectively to accommodate high employee turnover without financial penalty."},
					{ID: "learning_paths_curricula", Description: "Ability to create structured learning paths, course curricula, and development roadmaps beyond basic single-course assignments."},
					{ID: "mobile_learning_experience", Description: "Availability and quality of mobile app/responsive design for learners to access content on various devices."},
					{ID: "language_localization", Description: "Support for multiple languages for both content and platform interface."},
				},
			},
			{
				ID:     "authoring_content",
				Name:   "Authoring & Content Creation",
				Weight: 0.25,
				Items: []Item{
					{ID: "content_variety_interactivity", Description: "Ability to incorporate diverse media (video, audio, text, images), interactive elements (quizzes, simulations, drag-and-drop, branching scenarios), and dynamic content that adapts to user input."},
					{ID: "ease_of_use_authoring", Description: "How intuitive and user-friendly the authoring interface is for non-technical content creators. Minimal learning curve."},
					{ID: "customization_branding", Description: "Flexibility to customize content look & feel, add branding (logos, colors), and tailor modules to organizational specifics (beyond phishing templates)."},
					{ID: "accessibility_features", Description: "Features supporting learners with disabilities (e.g., closed captions, screen reader compatibility, keyboard navigation)."},
				},
			},
			{
				ID:     "learning_engagement",
				Name:   "Learning Experience & Engagement",
				Weight: 0.20,
				Items: []Item{
					{ID: "gamification_features", Description: "Robustness and effectiveness of gamification elements (badges, leaderboards, points, rewards) in motivating and sustaining learner engagement."},
					{ID: "personalized_learning", Description: "Ability to deliver personalized learning experiences, recommendations, and adaptive learning paths based on individual needs and progress."},
					{ID: "feedback_mechanisms", Description: "Effectiveness of real-time feedback, interactive assessments, and other mechanisms to reinforce learning and provide insights."},
					{ID: "collaboration_features", Description: "Support for collaborative learning (e.g., group discussions, peer-to-peer interaction)."},
				},
			},
			{
				ID:     "integrations",
				Name:   "Integrations & Ecosystem",
				Weight: 0.15,
				Items: []Item{
					{ID: "sso_integration", Description: "Ease and robustness of Single Sign-On (SSO) integration with our existing identity providers (e.g., Google Workspace)."},
					{ID: "hr_crm_integration", Description: "Seamless integration with HRIS and CRM systems for user data synchronization and holistic business insights."},
					{ID: "api_extensibility", Description: "Availability and quality of APIs for custom integrations and data exchange with other internal systems."},
				},
			},
			{
				ID:     "data_analytics",
				Name:   "Data Analytics & Business Impact",
				Weight: 0.20,
				Items: []Item{
					{ID: "impact_measurement", Description: "Ability to tie content performance and learning outcomes to tangible business goals and real-life scenarios (e.g., sales uplift, reduced incidents, improved productivity)."},
					{ID: "custom_reporting", Description: "Flexibility to create custom reports, dashboards, and visualize data beyond standard pre-built reports."},
					{ID: "predictive_analytics", Description: "Use of AI/ML for predictive insights (e.g., identifying at-risk learners, forecasting training needs, predicting business impact)."},
					{ID: "data_exportability", Description: "Ease of exporting raw and processed data for external analysis and warehousing."},
				},
			},
		},
	}
}
