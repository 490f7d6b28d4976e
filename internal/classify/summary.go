package classify

import (
	"fmt"

	"kodex/pkg/schema"
)

var domainPhrases = map[string]string{
	"general_productivity": "general productivity",
	"hiring_hr":            "HR and hiring",
	"finance":              "finance",
	"healthcare":           "healthcare",
	"education":            "education",
	"public_sector":        "public sector",
	"other":                "your domain",
}

func summarize(v verdict, values map[string]string, missing int) string {
	domain := "your domain"
	if d, ok := values["domain"]; ok {
		if phrase, known := domainPhrases[d]; known {
			domain = phrase
		}
	}

	switch v.bucket {
	case schema.BucketProhibited:
		return fmt.Sprintf("Based on your inputs, this AI system may fall under prohibited practices in the EU AI Act. "+
			"Prohibited systems cannot be placed on the EU market. "+
			"This classification is driven by the combination of the %s use case and the nature of decisions being made. "+
			"Consult legal counsel immediately before proceeding.", domain)
	case schema.BucketHighRisk:
		return fmt.Sprintf("Based on your inputs, this AI system likely falls into the high-risk category under the EU AI Act. "+
			"High-risk systems in %s require conformity assessment, registration in the EU database, quality management systems, and ongoing monitoring. "+
			"This does not mean you cannot use the system; it means specific compliance steps are required.", domain)
	case schema.BucketLimitedRisk:
		return "Based on your inputs, this AI system likely falls into the limited risk category. " +
			"The primary obligation is transparency: users must be informed they are interacting with AI, and AI-generated content must be disclosed. " +
			"Beyond transparency requirements, limited-risk systems do not face the extensive compliance burdens of high-risk systems."
	case schema.BucketMinimalRisk:
		return "Based on your inputs, this AI system appears to be minimal risk under the EU AI Act. " +
			"Minimal-risk systems (like spam filters, most productivity tools, and internal analytics) can be developed and used freely. " +
			"However, general principles of responsible AI and existing laws (like GDPR for personal data) still apply."
	}

	return fmt.Sprintf("We cannot provide a definitive classification because %d key question(s) were left open or answered with 'Not sure'. "+
		"The classification could range from minimal to high-risk depending on these answers. "+
		"Please review the missing information section and provide clarification, "+
		"or consult with someone in your organization who can answer these questions.", missing)
}
