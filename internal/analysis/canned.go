package analysis

import (
	"github.com/jonathan/jd-analyser/internal/sanitize"
	"github.com/jonathan/jd-analyser/internal/types"
)

// canned is served in offline mode. Treat as read-only; Canned hands out
// sanitized copies.
var canned = types.ExtractionResult{
	HardSkills: []string{
		"Microsoft Azure",
		"Google Cloud Platform",
		"Azure WAF",
		"Google Cloud Armor",
		"Azure Firewall",
		"Google VPC Firewall",
		"GitHub",
		"Terraform",
		"Azure Policy",
		"Google Organization Policy",
		"Infrastructure as Code",
		"DevOps",
		"Continuous Integration",
		"Continuous Delivery",
		"Agile development",
		"Jira",
		"Confluence",
	},
	SoftSkills: []string{
		"Self-starter",
		"Ability to learn quickly",
		"Listening skills",
		"Respect for others' views",
		"Communication",
		"Problem-solving",
		"Teamwork",
		"Passion for automation",
	},
	ResumeImprovements: []string{
		"Highlight experience with cloud technologies",
		"Emphasize agile team collaboration",
		"Showcase personal development pursuits and learning initiatives",
	},
	CoverLetterSnippet: "I am excited about the opportunity to join your team as a Junior Software Engineer. " +
		"With my background in cloud technologies and a strong passion for automation, I am eager to contribute to a collaborative agile team. " +
		"I believe my skills in Microsoft Azure and DevOps practices will enable me to support and improve your projects.",
}

// Canned returns the fixed offline extraction after the same sanitization a
// model reply goes through.
func Canned() types.ExtractionResult {
	return sanitize.Extraction(canned)
}
