package classify

// DefaultExcludedCategories lists the B2B/enterprise topics that disqualify a
// listing outright, independent of its text. Used when configuration does not
// supply its own list.
var DefaultExcludedCategories = []string{
	"Developer Tools", "SaaS", "Enterprise", "B2B", "Business Intelligence",
	"Analytics", "Operations", "Human Resources", "Legal", "Accounting",
	"Fintech", "Payments", "Security", "Infrastructure", "API", "Database",
	"Cloud Computing", "DevOps", "GitHub", "Development", "Software Engineering",
	"No-Code", "Maker Tools", "Design Tools", "Marketing automation",
	"Customer Communication", "Sales", "Business", "Enterprise Software",
}

// DefaultExcludedKeywords lists terms whose presence in a listing's tagline or
// description marks it as B2B/enterprise focused.
var DefaultExcludedKeywords = []string{
	"enterprise", "business", "company", "team", "workflow",
	"management", "analytics", "dashboard", "integration", "api",
	"developer", "development", "infrastructure", "security",
}
