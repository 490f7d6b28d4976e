package schema

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestIDGeneration(t *testing.T) {
	asmID, err := NewAssessmentID()
	if err != nil {
		t.Fatalf("Failed to generate assessment ID: %v", err)
	}
	if !strings.HasPrefix(asmID, "ASM-") {
		t.Errorf("Assessment ID should start with ASM-, got %s", asmID)
	}
	if len(strings.TrimPrefix(asmID, "ASM-")) != 10 {
		t.Errorf("Nanoid portion should be 10 characters")
	}

	prjID, err := NewProjectID()
	if err != nil {
		t.Fatalf("Failed to generate project ID: %v", err)
	}
	if !strings.HasPrefix(prjID, "PRJ-") {
		t.Errorf("Project ID should start with PRJ-, got %s", prjID)
	}
	if !ValidProjectID(prjID) {
		t.Errorf("Generated project ID %s should be a valid project ID", prjID)
	}

	evtID, err := NewEventID()
	if err != nil {
		t.Fatalf("Failed to generate event ID: %v", err)
	}
	if !strings.HasPrefix(evtID, "EVT-") {
		t.Errorf("Event ID should start with EVT-, got %s", evtID)
	}
}

func TestIDCollisionResistance(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id, err := NewAssessmentID()
		if err != nil {
			t.Fatalf("Failed to generate ID: %v", err)
		}
		if ids[id] {
			t.Fatalf("Collision detected after %d iterations: %s", i, id)
		}
		ids[id] = true
	}
}

func TestValidProjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"PRJ-abc_123", true},
		{"hr-screening", true},
		{"", false},
		{"../etc", false},
		{"a/b", false},
		{strings.Repeat("x", 65), false},
	}

	for _, tt := range tests {
		if got := ValidProjectID(tt.id); got != tt.want {
			t.Errorf("ValidProjectID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestBucketSeverity(t *testing.T) {
	order := []Bucket{BucketMinimalRisk, BucketLimitedRisk, BucketHighRisk, BucketProhibited}
	for i, b := range order {
		got, ok := b.Severity()
		if !ok || got != i {
			t.Errorf("%s.Severity() = %d, %v; want %d, true", b, got, ok, i)
		}
	}

	if _, ok := BucketNeedsClarification.Severity(); ok {
		t.Error("Needs clarification should have no severity")
	}
	if Bucket("Unknown").Valid() {
		t.Error("unknown bucket should not be valid")
	}
	for _, b := range Buckets {
		if !b.Valid() {
			t.Errorf("%s should be valid", b)
		}
	}
}

func TestConfidenceMin(t *testing.T) {
	tests := []struct {
		a, b, want Confidence
	}{
		{ConfidenceHigh, ConfidenceHigh, ConfidenceHigh},
		{ConfidenceHigh, ConfidenceMedium, ConfidenceMedium},
		{ConfidenceMedium, ConfidenceHigh, ConfidenceMedium},
		{ConfidenceMedium, ConfidenceLow, ConfidenceLow},
		{ConfidenceLow, ConfidenceHigh, ConfidenceLow},
	}

	for _, tt := range tests {
		if got := tt.a.Min(tt.b); got != tt.want {
			t.Errorf("%s.Min(%s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}

	if got := ConfidenceLow.Max(ConfidenceMedium); got != ConfidenceMedium {
		t.Errorf("Low.Max(Medium) = %s, want Medium", got)
	}
	if got := ConfidenceHigh.Max(ConfidenceLow); got != ConfidenceHigh {
		t.Errorf("High.Max(Low) = %s, want High", got)
	}
	if Confidence("Certain").Valid() {
		t.Error("unknown confidence reported valid")
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityP0.Rank() < PriorityP1.Rank() && PriorityP1.Rank() < PriorityP2.Rank()) {
		t.Error("priorities should rank P0 < P1 < P2")
	}
}

func TestAnswerMapText(t *testing.T) {
	answers := AnswerMap{
		"domain":   "hiring_hr",
		"padded":   "  finance ",
		"blank":    "   ",
		"number":   42,
		"list":     []any{"yes"},
		"nilValue": nil,
	}

	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"domain", "hiring_hr", true},
		{"padded", "finance", true},
		{"blank", "", false},
		{"number", "", false},
		{"list", "", false},
		{"nilValue", "", false},
		{"absent", "", false},
	}

	for _, tt := range tests {
		got, ok := answers.Text(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Text(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}

	if !answers.Has("number") || answers.Has("absent") {
		t.Error("Has should report key presence regardless of value type")
	}
}

func TestQuestionOptionLookup(t *testing.T) {
	q := Question{
		ID:   "biometric",
		Kind: KindSingleChoice,
		Options: []Option{
			{Value: "yes", Label: "Yes"},
			{Value: "no", Label: "No"},
		},
	}

	if !q.HasOption("yes") || q.HasOption("maybe") {
		t.Error("HasOption should match declared values only")
	}
	if got := q.OptionLabel("no"); got != "No" {
		t.Errorf("OptionLabel(no) = %q, want No", got)
	}
	if got := q.OptionLabel("maybe"); got != "maybe" {
		t.Errorf("OptionLabel should fall back to the raw value, got %q", got)
	}
}

func TestEstimateMarshaling(t *testing.T) {
	failed := Estimate{Error: "turnover not configured"}
	data, err := json.Marshal(failed)
	if err != nil {
		t.Fatalf("Failed to marshal failed estimate: %v", err)
	}
	if string(data) != `{"error":"turnover not configured"}` {
		t.Errorf("failed estimate JSON = %s", data)
	}

	ok := Estimate{Min: 75000, Max: 350000, Currency: "EUR", Tier: TierB, Assumptions: []string{"a"}}
	data, err = json.Marshal(ok)
	if err != nil {
		t.Fatalf("Failed to marshal estimate: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode estimate JSON: %v", err)
	}
	if decoded["tier"] != "B" || decoded["max"] != float64(350000) {
		t.Errorf("unexpected estimate JSON: %s", data)
	}
	if _, hasErr := decoded["error"]; hasErr {
		t.Error("successful estimate should not carry an error field")
	}
}

func TestAssessmentYAMLRoundTrip(t *testing.T) {
	fixed := 35000000.0
	a := Assessment{
		ID:        "ASM-test123456",
		ProjectID: "PRJ-test",
		Version:   2,
		Answers:   AnswerMap{"domain": "finance"},
		Classification: Classification{
			Bucket:     BucketHighRisk,
			Confidence: ConfidenceMedium,
		},
		EstimatorInputs: &EstimatorInputs{
			Currency: "EUR",
			TierParameters: TierTable{
				TierC: {MinPercent: 2, MaxPercent: 6, FixedMax: &fixed},
			},
		},
		Roadmap:   []Task{{ID: "gov_register", Order: 1, IsTop5: true}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := yaml.Marshal(a)
	if err != nil {
		t.Fatalf("Failed to marshal assessment: %v", err)
	}

	var back Assessment
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal assessment: %v", err)
	}

	if back.Classification.Bucket != BucketHighRisk {
		t.Errorf("Bucket mismatch: got %s", back.Classification.Bucket)
	}
	if got := back.EstimatorInputs.TierParameters[TierC].FixedMax; got == nil || *got != fixed {
		t.Errorf("FixedMax should survive YAML, got %v", got)
	}
	if !back.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v", back.CreatedAt)
	}
}

func TestValidation(t *testing.T) {
	fixed := 35000000.0
	validSettings := func() *Settings {
		return &Settings{
			Currency: "EUR",
			TierParameters: TierTable{
				TierA: {MinPercent: 0.5, MaxPercent: 3},
				TierC: {MinPercent: 2, MaxPercent: 6, FixedMax: &fixed},
			},
			DisclaimerText: "Educational information only.",
		}
	}

	tests := []struct {
		name     string
		validate func() error
		wantErr  bool
	}{
		{
			name: "valid single-choice question",
			validate: func() error {
				return ValidateQuestion(&Question{
					ID:      "biometric",
					Kind:    KindSingleChoice,
					Label:   "Does the system use biometrics?",
					Options: []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}},
				})
			},
		},
		{
			name: "valid free-text question",
			validate: func() error {
				return ValidateQuestion(&Question{ID: "useCase", Kind: KindFreeText, Label: "Describe your use case"})
			},
		},
		{
			name: "question without id",
			validate: func() error {
				return ValidateQuestion(&Question{Kind: KindFreeText, Label: "No id"})
			},
			wantErr: true,
		},
		{
			name: "unknown question kind",
			validate: func() error {
				return ValidateQuestion(&Question{ID: "x", Kind: "multi", Label: "Bad kind"})
			},
			wantErr: true,
		},
		{
			name: "single choice without options",
			validate: func() error {
				return ValidateQuestion(&Question{ID: "x", Kind: KindSingleChoice, Label: "Empty"})
			},
			wantErr: true,
		},
		{
			name: "duplicate option values",
			validate: func() error {
				return ValidateQuestion(&Question{
					ID:      "x",
					Kind:    KindSingleChoice,
					Label:   "Dup",
					Options: []Option{{Value: "yes", Label: "Yes"}, {Value: "yes", Label: "Also yes"}},
				})
			},
			wantErr: true,
		},
		{
			name: "free text with options",
			validate: func() error {
				return ValidateQuestion(&Question{
					ID:      "x",
					Kind:    KindFreeText,
					Label:   "Text",
					Options: []Option{{Value: "a", Label: "A"}},
				})
			},
			wantErr: true,
		},
		{
			name:     "valid settings",
			validate: func() error { return ValidateSettings(validSettings()) },
		},
		{
			name: "lowercase currency",
			validate: func() error {
				s := validSettings()
				s.Currency = "eur"
				return ValidateSettings(s)
			},
			wantErr: true,
		},
		{
			name: "max below min",
			validate: func() error {
				s := validSettings()
				s.TierParameters[TierB] = TierParameters{MinPercent: 5, MaxPercent: 1}
				return ValidateSettings(s)
			},
			wantErr: true,
		},
		{
			name: "unknown tier letter",
			validate: func() error {
				s := validSettings()
				s.TierParameters["D"] = TierParameters{MinPercent: 1, MaxPercent: 2}
				return ValidateSettings(s)
			},
			wantErr: true,
		},
		{
			name: "negative default turnover",
			validate: func() error {
				s := validSettings()
				turnover := -1.0
				s.DefaultTurnover = &turnover
				return ValidateSettings(s)
			},
			wantErr: true,
		},
		{
			name:     "valid version",
			validate: func() error { return ValidateVersion("1.0.0") },
		},
		{
			name:     "invalid version format",
			validate: func() error { return ValidateVersion("v1.0") },
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validation error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
