package schema

// Bucket represents the risk category assigned to an AI system.
type Bucket string

const (
	BucketProhibited         Bucket = "Prohibited"
	BucketHighRisk           Bucket = "High-risk"
	BucketLimitedRisk        Bucket = "Limited risk"
	BucketMinimalRisk        Bucket = "Minimal risk"
	BucketNeedsClarification Bucket = "Needs clarification"
)

// Buckets lists every bucket from most to least severe, clarification last.
var Buckets = []Bucket{
	BucketProhibited,
	BucketHighRisk,
	BucketLimitedRisk,
	BucketMinimalRisk,
	BucketNeedsClarification,
}

// Severity ranks definite buckets from 0 (minimal) to 3 (prohibited).
// The second result is false for BucketNeedsClarification and unknown values.
func (b Bucket) Severity() (int, bool) {
	switch b {
	case BucketMinimalRisk:
		return 0, true
	case BucketLimitedRisk:
		return 1, true
	case BucketHighRisk:
		return 2, true
	case BucketProhibited:
		return 3, true
	}
	return 0, false
}

// Valid reports whether b is one of the declared buckets.
func (b Bucket) Valid() bool {
	for _, known := range Buckets {
		if b == known {
			return true
		}
	}
	return false
}

// Confidence represents how certain a classification is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	}
	return 0
}

// Min returns the less certain of c and other.
func (c Confidence) Min(other Confidence) Confidence {
	if other.rank() < c.rank() {
		return other
	}
	return c
}

// Max returns the more certain of c and other.
func (c Confidence) Max(other Confidence) Confidence {
	if other.rank() > c.rank() {
		return other
	}
	return c
}

// Valid reports whether c is one of the declared confidence levels.
func (c Confidence) Valid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// Effort is the rough size of a remediation task.
type Effort string

const (
	EffortSmall  Effort = "S"
	EffortMedium Effort = "M"
	EffortLarge  Effort = "L"
)

// Priority represents the remediation task priority level.
type Priority string

const (
	PriorityP0 Priority = "P0" // Do now
	PriorityP1 Priority = "P1" // Next quarter
	PriorityP2 Priority = "P2" // When capacity allows
)

// Rank orders priorities so that P0 sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	}
	return 3
}

// QuestionKind is the answer type a question accepts.
type QuestionKind string

const (
	KindSingleChoice QuestionKind = "single"
	KindFreeText     QuestionKind = "text"
)

// Tier is a penalty-severity class.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// AnswerNotSure is the option value every uncertain single-choice answer uses.
const AnswerNotSure = "not_sure"

// TopTaskCount is the number of roadmap tasks flagged IsTop5.
const TopTaskCount = 5
