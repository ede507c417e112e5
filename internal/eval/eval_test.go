package eval

import (
	"context"
	"math"
	"testing"

	"github.com/hirewise/recommender/internal/recommend"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecallAtK(t *testing.T) {
	relevant := []string{"Java 8 (New)", "Core Java (Advanced Level)"}

	tests := []struct {
		name    string
		results []string
		k       int
		want    float64
	}{
		{"all found", []string{"Java 8 (New)", "Core Java (Advanced Level)"}, 10, 1.0},
		{"half found", []string{"Java 8 (New)", "Python (New)"}, 10, 0.5},
		{"none found", []string{"Python (New)"}, 10, 0.0},
		{"hit beyond k ignored", []string{"Python (New)", "Java 8 (New)"}, 1, 0.0},
		{"case insensitive", []string{"java 8 (new)"}, 10, 0.5},
		{"empty results", nil, 10, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecallAtK(tt.results, relevant, tt.k); !almostEqual(got, tt.want) {
				t.Errorf("RecallAtK = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecallAtK_NoRelevant(t *testing.T) {
	if got := RecallAtK([]string{"anything"}, nil, 10); got != 0 {
		t.Errorf("expected 0 for empty relevant set, got %v", got)
	}
}

func TestAveragePrecisionAtK(t *testing.T) {
	relevant := []string{"A", "B"}

	// Hits at ranks 1 and 3: (1/1 + 2/3) / 2.
	got := AveragePrecisionAtK([]string{"A", "X", "B"}, relevant, 10)
	want := (1.0 + 2.0/3.0) / 2.0
	if !almostEqual(got, want) {
		t.Errorf("AveragePrecisionAtK = %v, want %v", got, want)
	}

	// Perfect ranking.
	if got := AveragePrecisionAtK([]string{"A", "B"}, relevant, 10); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0 for perfect ranking, got %v", got)
	}

	// Denominator is min(|relevant|, k).
	got = AveragePrecisionAtK([]string{"A"}, []string{"A", "B", "C"}, 1)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0 with k=1 denominator, got %v", got)
	}
}

type fixedPipeline struct {
	byQuery map[string][]string
}

func (p *fixedPipeline) Recommend(_ context.Context, query string) ([]recommend.Recommendation, error) {
	var recs []recommend.Recommendation
	for _, name := range p.byQuery[query] {
		recs = append(recs, recommend.Recommendation{Name: name})
	}
	return recs, nil
}

func TestEvaluate(t *testing.T) {
	pipeline := &fixedPipeline{byQuery: map[string][]string{
		"java":  {"Java 8 (New)", "Python (New)"},
		"sales": {"Sales SJT"},
	}}
	samples := []Sample{
		{Query: "java", RelevantNames: []string{"Java 8 (New)"}},
		{Query: "sales", RelevantNames: []string{"Sales SJT", "Sales Profile"}},
	}

	report, err := Evaluate(context.Background(), pipeline, samples, 10)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if report.Samples != 2 || report.K != 10 {
		t.Errorf("unexpected report shape: %+v", report)
	}
	// Recall: 1.0 and 0.5, mean 0.75.
	if !almostEqual(report.MeanRecallAtK, 0.75) {
		t.Errorf("MeanRecallAtK = %v, want 0.75", report.MeanRecallAtK)
	}
	// AP: 1.0 and (1/1)/2 = 0.5, mean 0.75.
	if !almostEqual(report.MAPAtK, 0.75) {
		t.Errorf("MAPAtK = %v, want 0.75", report.MAPAtK)
	}
}

func TestEvaluate_NoSamples(t *testing.T) {
	if _, err := Evaluate(context.Background(), &fixedPipeline{}, nil, 10); err == nil {
		t.Fatal("expected error for empty benchmark")
	}
}
