// ABOUTME: Tests for shared CLI rendering helpers
// ABOUTME: Covers rejection rendering, truncation, and relative timestamps

package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harper/rulekeeper/internal/models"
	"github.com/spf13/cobra"
)

func TestPrintRejection(t *testing.T) {
	cmd := &cobra.Command{}
	var output bytes.Buffer
	cmd.SetOut(&output)

	result := &models.ValidationResult{
		IsValid: false,
		Message: "Semantic overlap detected",
		Overlaps: []models.Overlap{
			{
				Segment:        "Payments must be encrypted.",
				MatchedSegment: "All payments are encrypted at rest.",
				MatchedRuleID:  "r1",
				MatchedTitle:   "Payment encryption",
				Similarity:     0.912,
			},
		},
	}

	printRejection(cmd, result)

	outputStr := output.String()
	for _, want := range []string{
		"✗ Semantic overlap detected",
		`"Payments must be encrypted."`,
		"similarity 0.912",
		"Payment encryption",
		"r1",
	} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("Output should contain %q, got:\n%s", want, outputStr)
		}
	}
}

func TestPrintRejectionWithAnalysis(t *testing.T) {
	cmd := &cobra.Command{}
	var output bytes.Buffer
	cmd.SetOut(&output)

	result := &models.ValidationResult{
		IsValid: false,
		Message: "Issues detected in rule validation",
		Analysis: &models.RuleAnalysis{
			DirectContradictions: []string{"conflicts with rule 2"},
			RedundantRules:       []string{"restates rule 1"},
			Summary:              "Overlapping payment policies",
		},
	}

	printRejection(cmd, result)

	outputStr := output.String()
	for _, want := range []string{
		"contradiction: conflicts with rule 2",
		"redundant: restates rule 1",
		"summary: Overlapping payment policies",
	} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("Output should contain %q, got:\n%s", want, outputStr)
		}
	}
}

func TestPrintResult_RejectionIndependentOfFormat(t *testing.T) {
	rejection := &models.ValidationResult{
		IsValid: false,
		Message: "Semantic overlap detected",
		Overlaps: []models.Overlap{
			{Segment: "x", MatchedSegment: "y", MatchedRuleID: "r1", Similarity: 0.9},
		},
	}
	accepted := &models.ValidationResult{IsValid: true, Message: "Rule is valid", RuleID: "r2"}

	originalFormat := format
	defer func() { format = originalFormat }()

	for _, f := range []string{"auto", "json"} {
		format = f

		cmd := &cobra.Command{}
		var output bytes.Buffer
		cmd.SetOut(&output)

		rejected, err := printResult(cmd, rejection)
		if err != nil {
			t.Fatalf("printResult() error = %v (format=%s)", err, f)
		}
		if !rejected {
			t.Errorf("rejected = false with format=%s, want true", f)
		}

		rejected, err = printResult(cmd, accepted)
		if err != nil {
			t.Fatalf("printResult() error = %v (format=%s)", err, f)
		}
		if rejected {
			t.Errorf("rejected = true for a valid result with format=%s", f)
		}
	}
}

func TestPrintResult_JSONOutput(t *testing.T) {
	originalFormat := format
	defer func() { format = originalFormat }()
	format = "json"

	cmd := &cobra.Command{}
	var output bytes.Buffer
	cmd.SetOut(&output)

	result := &models.ValidationResult{IsValid: false, Message: "Semantic overlap detected"}
	if _, err := printResult(cmd, result); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}

	if !strings.Contains(output.String(), `"is_valid": false`) {
		t.Errorf("JSON output missing verdict: %s", output.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.time); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}

	old := now.Add(-30 * 24 * time.Hour)
	if got := formatTime(old); got != old.Format("2006-01-02") {
		t.Errorf("formatTime(old) = %q, want date format", got)
	}
}
