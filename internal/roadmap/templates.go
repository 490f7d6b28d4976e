package roadmap

import "kodex/pkg/schema"

// Trigger selects a template when the answer to QuestionID is one of Values.
type Trigger struct {
	QuestionID string
	Values     []string
}

// Template is a remediation task before it is placed in a roadmap.
// Declaration order in the table is the tie-break within a priority.
type Template struct {
	ID          string
	Title       string
	Theme       string
	Why         string
	Checklist   []string
	Deliverable string
	Owner       string
	Effort      schema.Effort
	Priority    schema.Priority
	// Buckets the template always applies to.
	Buckets []schema.Bucket
	// When adds the template for other buckets if any trigger matches.
	When     []Trigger
	Requires []string
}

const (
	themeGovernance   = "Governance basics"
	themeData         = "Data & privacy"
	themeDocs         = "Documentation"
	themeOversight    = "Human oversight"
	themeMonitoring   = "Monitoring"
	themeVendors      = "Vendor management"
	themeTransparency = "Transparency"
)

var (
	allDefinite = []schema.Bucket{schema.BucketProhibited, schema.BucketHighRisk, schema.BucketLimitedRisk, schema.BucketMinimalRisk}
	everyBucket = append(append([]schema.Bucket(nil), allDefinite...), schema.BucketNeedsClarification)
	dataHeavy   = []schema.Bucket{schema.BucketProhibited, schema.BucketHighRisk, schema.BucketLimitedRisk}
	highOnly    = []schema.Bucket{schema.BucketHighRisk}
)

var templates = []Template{
	{
		ID:    "gov_register",
		Title: "Create an AI Use-Case Register",
		Theme: themeGovernance,
		Why:   "You need a single source of truth for all AI systems in your organization. This is foundational for any compliance effort and required for high-risk systems.",
		Checklist: []string{
			"List all AI tools and systems currently in use",
			"Document the purpose and owner for each system",
			"Note vendor names and contract details for third-party AI",
			"Record deployment dates and user counts",
			"Identify which systems process personal data",
		},
		Deliverable: "AI Use-Case Register (spreadsheet or database)",
		Owner:       "Product / Engineering",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP0,
		Buckets:     everyBucket,
	},
	{
		ID:    "gov_ownership",
		Title: "Assign AI Compliance Ownership",
		Theme: themeGovernance,
		Why:   "Someone needs to be responsible for AI compliance. In SMBs, this is often a founder, CTO, or senior product manager rather than a dedicated compliance hire.",
		Checklist: []string{
			"Designate a person accountable for AI compliance decisions",
			"Define escalation path for AI-related concerns",
			"Schedule quarterly AI review meetings",
			"Document decision-making authority and limits",
		},
		Deliverable: "AI Governance RACI chart",
		Owner:       "Founder",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP0,
		Buckets:     everyBucket,
	},
	{
		ID:    "gov_legal_review",
		Title: "Obtain Legal Review Before Further Use",
		Theme: themeGovernance,
		Why:   "The answers point to a practice the AI Act prohibits. Continuing to place the system on the EU market exposes you to the highest penalty tier.",
		Checklist: []string{
			"Pause rollout of the affected capability",
			"Brief external counsel with the assessment results",
			"Decide whether the use case can be redesigned or must be withdrawn",
			"Record the decision and its rationale",
		},
		Deliverable: "Legal opinion and go/no-go decision record",
		Owner:       "Founder / Legal",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP0,
		Buckets:     []schema.Bucket{schema.BucketProhibited},
	},
	{
		ID:    "clarify_open_questions",
		Title: "Resolve Open Assessment Questions",
		Theme: themeGovernance,
		Why:   "The classification could not be settled because key answers are missing or uncertain. Every other obligation depends on knowing the risk category.",
		Checklist: []string{
			"Review the missing information list from the assessment",
			"Find the person who owns each unanswered area",
			"Collect evidence for each answer (contracts, architecture notes, data maps)",
			"Re-run the assessment with the completed answers",
		},
		Deliverable: "Completed assessment with a definite risk category",
		Owner:       "Product",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP0,
		Buckets:     []schema.Bucket{schema.BucketNeedsClarification},
	},
	{
		ID:    "gov_review_cadence",
		Title: "Establish Review Cadence",
		Theme: themeGovernance,
		Why:   "AI systems change, and so do regulations. Regular reviews ensure you catch issues early and maintain compliance over time.",
		Checklist: []string{
			"Set quarterly review dates for AI register",
			"Define triggers for ad-hoc reviews (new AI tool, incident, regulation change)",
			"Create simple review checklist",
			"Assign review responsibilities",
		},
		Deliverable: "AI Review Schedule (calendar entries + checklist template)",
		Owner:       "Product",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP1,
		Buckets:     allDefinite,
	},
	{
		ID:    "data_inventory",
		Title: "Map Data Flows for AI Systems",
		Theme: themeData,
		Why:   "Understanding what data your AI processes is essential for both AI Act and GDPR compliance. High-risk systems have specific data governance requirements.",
		Checklist: []string{
			"Document input data types for each AI system",
			"Identify personal data being processed",
			"Note data retention periods",
			"Map data flows (collection → processing → storage → deletion)",
			"Flag any sensitive/special category data",
		},
		Deliverable: "AI Data Flow Diagram + Data Inventory",
		Owner:       "Engineering",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP0,
		Buckets:     dataHeavy,
	},
	{
		ID:    "data_lawful_basis",
		Title: "Confirm GDPR Lawful Basis for AI Processing",
		Theme: themeData,
		Why:   "AI processing of personal data requires a valid GDPR lawful basis. Without it, the AI use may be unlawful regardless of AI Act compliance.",
		Checklist: []string{
			"Identify lawful basis for each AI system processing personal data",
			"Document justification for chosen basis",
			"Update privacy notices if needed",
			"Review consent mechanisms if relying on consent",
			"Consider legitimate interest assessment if using that basis",
		},
		Deliverable: "Lawful Basis Register (extension of AI Use-Case Register)",
		Owner:       "Legal / Compliance",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP0,
		Buckets:     dataHeavy,
		When:        []Trigger{{QuestionID: "dataTypes", Values: []string{"personal_nonsensitive", "sensitive"}}},
	},
	{
		ID:    "data_dpia",
		Title: "Conduct Data Protection Impact Assessment",
		Theme: themeData,
		Why:   "High-risk AI processing likely requires a DPIA under GDPR Art. 35. This is a legal requirement, not just good practice.",
		Checklist: []string{
			"Identify if DPIA is required (high-risk processing, profiling, sensitive data)",
			"Describe the processing operations systematically",
			"Assess necessity and proportionality",
			"Identify and assess risks to individuals",
			"Document measures to mitigate risks",
			"Consult DPO if you have one",
		},
		Deliverable: "DPIA Document",
		Owner:       "Legal / Compliance",
		Effort:      schema.EffortLarge,
		Priority:    schema.PriorityP0,
		Buckets:     highOnly,
		Requires:    []string{"data_inventory", "data_lawful_basis"},
	},
	{
		ID:    "data_sensitive_safeguards",
		Title: "Add Safeguards for Sensitive and Biometric Data",
		Theme: themeData,
		Why:   "Special category and biometric data carry the strictest GDPR conditions and feed several AI Act high-risk triggers.",
		Checklist: []string{
			"Confirm an Art. 9 GDPR condition for each sensitive data category",
			"Restrict access to sensitive inputs and outputs",
			"Minimize or pseudonymize sensitive attributes where possible",
			"Document retention and deletion for biometric templates",
		},
		Deliverable: "Sensitive Data Safeguards Record",
		Owner:       "Legal / Engineering",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		When: []Trigger{
			{QuestionID: "dataTypes", Values: []string{"sensitive"}},
			{QuestionID: "biometric", Values: []string{"yes"}},
		},
		Requires: []string{"data_inventory"},
	},
	{
		ID:    "doc_technical",
		Title: "Create Technical Documentation",
		Theme: themeDocs,
		Why:   "High-risk systems require detailed technical documentation. Even for other systems, documentation helps demonstrate responsible AI practices.",
		Checklist: []string{
			"Document system architecture and components",
			"Describe training data sources and preparation",
			"Document model performance metrics and benchmarks",
			"Record known limitations and failure modes",
			"Include version history and change log",
		},
		Deliverable: "Technical Documentation Package",
		Owner:       "Engineering",
		Effort:      schema.EffortLarge,
		Priority:    schema.PriorityP1,
		Buckets:     highOnly,
		Requires:    []string{"gov_register", "data_inventory"},
	},
	{
		ID:    "doc_instructions",
		Title: "Prepare Instructions for Use",
		Theme: themeDocs,
		Why:   "Deployers of high-risk AI need clear instructions. Even internal tools benefit from usage guidelines to prevent misuse.",
		Checklist: []string{
			"Write intended use cases and limitations",
			"Document required human oversight procedures",
			"Explain how to interpret AI outputs",
			"Describe error handling and escalation",
			"Include contact information for support",
		},
		Deliverable: "AI Instructions for Use Document",
		Owner:       "Product",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     []schema.Bucket{schema.BucketHighRisk, schema.BucketLimitedRisk},
	},
	{
		ID:    "doc_risk_management",
		Title: "Establish Risk Management System",
		Theme: themeDocs,
		Why:   "High-risk AI systems require a documented risk management system. This is an ongoing process, not a one-time task.",
		Checklist: []string{
			"Identify and analyze known and foreseeable risks",
			"Estimate and evaluate risks",
			"Evaluate risks from intended use and reasonably foreseeable misuse",
			"Document risk mitigation measures",
			"Plan for residual risk management",
			"Establish testing procedures",
		},
		Deliverable: "AI Risk Management Documentation",
		Owner:       "Product / Engineering",
		Effort:      schema.EffortLarge,
		Priority:    schema.PriorityP0,
		Buckets:     highOnly,
		Requires:    []string{"gov_register", "data_inventory"},
	},
	{
		ID:    "hr_worker_information",
		Title: "Inform Workers and Candidates About AI Use",
		Theme: themeTransparency,
		Why:   "Employers deploying AI in the workplace must inform affected workers and their representatives before the system is put into service.",
		Checklist: []string{
			"List the HR processes where the AI is involved",
			"Draft a plain-language notice for candidates and employees",
			"Consult worker representatives where required",
			"Publish the notice in job postings and the employee handbook",
		},
		Deliverable: "Worker and Candidate AI Notice",
		Owner:       "HR / Legal",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP1,
		When:        []Trigger{{QuestionID: "domain", Values: []string{"hiring_hr"}}},
	},
	{
		ID:    "oversight_design",
		Title: "Design Human Oversight Mechanisms",
		Theme: themeOversight,
		Why:   "High-risk AI must enable effective human oversight. This means designing systems so humans can intervene, not just observe.",
		Checklist: []string{
			"Define what decisions require human review",
			"Design intervention points in AI workflow",
			"Create override/stop mechanisms",
			"Document how humans will be notified of AI decisions",
			"Train operators on oversight responsibilities",
		},
		Deliverable: "Human Oversight Design Document + Training Materials",
		Owner:       "Product / Engineering",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP0,
		Buckets:     highOnly,
	},
	{
		ID:    "oversight_training",
		Title: "Train Staff on AI Oversight",
		Theme: themeOversight,
		Why:   "People overseeing AI need to understand the system, its limitations, and when to intervene. Untrained oversight is not effective oversight.",
		Checklist: []string{
			"Identify who needs AI oversight training",
			"Develop training content covering system capabilities and limits",
			"Include examples of when to override AI",
			"Document training completion",
			"Plan refresher training schedule",
		},
		Deliverable: "AI Oversight Training Program",
		Owner:       "Product",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     highOnly,
		Requires:    []string{"oversight_design"},
	},
	{
		ID:    "monitor_logging",
		Title: "Implement AI System Logging",
		Theme: themeMonitoring,
		Why:   "Logs enable accountability, debugging, and compliance verification. High-risk systems have specific logging requirements.",
		Checklist: []string{
			"Define what inputs/outputs to log",
			"Set appropriate retention periods (consider GDPR minimization)",
			"Implement secure log storage",
			"Create access controls for logs",
			"Document logging approach and justify scope",
		},
		Deliverable: "Logging Implementation + Documentation",
		Owner:       "Engineering",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     []schema.Bucket{schema.BucketHighRisk, schema.BucketLimitedRisk},
		Requires:    []string{"gov_register"},
	},
	{
		ID:    "monitor_performance",
		Title: "Set Up Performance Monitoring",
		Theme: themeMonitoring,
		Why:   "AI systems can degrade over time (model drift, data drift). Monitoring helps you catch issues before they become compliance problems.",
		Checklist: []string{
			"Define key performance metrics",
			"Set acceptable thresholds and alerts",
			"Establish monitoring dashboard or reports",
			"Create escalation process for metric breaches",
			"Schedule regular performance reviews",
		},
		Deliverable: "AI Performance Monitoring Setup",
		Owner:       "Engineering",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     highOnly,
	},
	{
		ID:    "monitor_incidents",
		Title: "Create Incident Response Process",
		Theme: themeMonitoring,
		Why:   "When AI fails or causes harm, you need a clear process for response. High-risk system providers must report serious incidents.",
		Checklist: []string{
			"Define what constitutes an AI incident",
			"Create incident classification (severity levels)",
			"Document response procedures for each level",
			"Establish communication templates",
			"Identify regulatory reporting requirements",
		},
		Deliverable: "AI Incident Response Plan",
		Owner:       "Engineering / Compliance",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     highOnly,
	},
	{
		ID:    "vendor_inventory",
		Title: "Create Third-Party AI Vendor Inventory",
		Theme: themeVendors,
		Why:   "If you use third-party AI (like OpenAI, cloud ML services), you're still responsible for compliance. You need to know what you're using.",
		Checklist: []string{
			"List all third-party AI services and APIs",
			"Document what each vendor provides",
			"Record contract terms and data processing agreements",
			"Note vendor compliance certifications",
			"Identify vendor contact for compliance questions",
		},
		Deliverable: "Third-Party AI Vendor Register",
		Owner:       "Product / Legal",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP0,
		Buckets:     allDefinite,
		When:        []Trigger{{QuestionID: "companyRole", Values: []string{"integrator"}}},
	},
	{
		ID:    "vendor_assessment",
		Title: "Assess Vendor AI Compliance",
		Theme: themeVendors,
		Why:   "Your compliance depends partly on your vendors. You need to verify they can support your compliance needs.",
		Checklist: []string{
			"Request vendor documentation on AI Act compliance",
			"Review vendor data processing terms",
			"Assess vendor's ability to provide required documentation",
			"Evaluate vendor incident response capabilities",
			"Document assessment results",
		},
		Deliverable: "Vendor AI Compliance Assessment Report",
		Owner:       "Legal / Product",
		Effort:      schema.EffortMedium,
		Priority:    schema.PriorityP1,
		Buckets:     highOnly,
		Requires:    []string{"vendor_inventory"},
	},
	{
		ID:    "transparency_disclosure",
		Title: "Implement AI Disclosure Mechanisms",
		Theme: themeTransparency,
		Why:   "Users must know when they're interacting with AI. AI-generated content must be marked. This is a direct legal requirement for limited-risk systems.",
		Checklist: []string{
			"Identify all user-facing AI interactions",
			"Design clear disclosure messaging",
			"Implement disclosure in UI/UX",
			"For generated content, implement marking mechanism",
			"Document disclosure approach",
		},
		Deliverable: "AI Disclosure Implementation",
		Owner:       "Product / Engineering",
		Effort:      schema.EffortSmall,
		Priority:    schema.PriorityP0,
		Buckets:     []schema.Bucket{schema.BucketLimitedRisk, schema.BucketHighRisk},
		When:        []Trigger{{QuestionID: "behavior", Values: []string{"generates_content"}}},
	},
	{
		ID:    "transparency_explainability",
		Title: "Provide Decision Explanations",
		Theme: themeTransparency,
		Why:   "For AI making decisions about people, those affected may have rights to explanation (GDPR Art. 22). Even without legal requirement, explanations build trust.",
		Checklist: []string{
			"Identify decisions requiring explanation",
			"Design explanation format (technical vs. plain language)",
			"Implement explanation generation",
			"Test explanations with target audience",
			"Document explanation approach",
		},
		Deliverable: "AI Decision Explanation System",
		Owner:       "Engineering / Product",
		Effort:      schema.EffortLarge,
		Priority:    schema.PriorityP2,
		Buckets:     highOnly,
		Requires:    []string{"transparency_disclosure"},
	},
}

// Templates returns a copy of the template table in declaration order.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		t.Checklist = append([]string(nil), t.Checklist...)
		t.Buckets = append([]schema.Bucket(nil), t.Buckets...)
		t.Requires = append([]string(nil), t.Requires...)
		t.When = append([]Trigger(nil), t.When...)
		out[i] = t
	}
	return out
}
