package refiner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hirewise/recommender/internal/llm"
)

// fakeLLM returns a canned response and records the last prompt.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ llm.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestIsProbableJD(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"short query", "java developers with collaboration skills", false},
		{"keyword responsibilities", "Responsibilities: build and ship backend services", true},
		{"keyword apply now", "Great role, APPLY NOW to join us", true},
		{"long text", strings.Repeat("word ", 51), true},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProbableJD(tt.input); got != tt.want {
				t.Errorf("IsProbableJD(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRefine_PlainQueryPassesThrough(t *testing.T) {
	fake := &fakeLLM{response: "should not be called"}
	r := New(fake)

	got, err := r.Refine(context.Background(), "  hiring Java developers, 40 minute assessment  ")
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if got != "hiring Java developers, 40 minute assessment" {
		t.Errorf("unexpected query: %q", got)
	}
	if fake.lastPrompt != "" {
		t.Error("plain query should not hit the LLM")
	}
}

func TestRefine_JDTextIsCondensed(t *testing.T) {
	fake := &fakeLLM{response: "  Hiring backend engineers with Java and teamwork skills.  "}
	r := New(fake)

	jd := "Job Description: we need a senior backend engineer. Responsibilities include building APIs."
	got, err := r.Refine(context.Background(), jd)
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if got != "Hiring backend engineers with Java and teamwork skills." {
		t.Errorf("unexpected query: %q", got)
	}
	if !strings.Contains(fake.lastPrompt, jd) {
		t.Error("prompt should include the job description text")
	}
}

func TestRefine_URLInputFetchesAndCondenses(t *testing.T) {
	block := strings.Repeat("We are hiring a data engineer with strong SQL and Python skills. ", 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + block + "</p></body></html>"))
	}))
	defer srv.Close()

	fake := &fakeLLM{response: "Data engineer assessment with SQL and Python."}
	r := New(fake, WithHTTPClient(srv.Client()))

	got, err := r.Refine(context.Background(), srv.URL+"/jobs/data-engineer")
	if err != nil {
		t.Fatalf("Refine returned error: %v", err)
	}
	if got != "Data engineer assessment with SQL and Python." {
		t.Errorf("unexpected query: %q", got)
	}
	if !strings.Contains(fake.lastPrompt, "data engineer") {
		t.Error("prompt should include the extracted page text")
	}
}

func TestRefine_URLWithNoContentFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>too short</p></body></html>"))
	}))
	defer srv.Close()

	r := New(&fakeLLM{}, WithHTTPClient(srv.Client()))

	if _, err := r.Refine(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for page with no usable content")
	}
}

func TestExtractTextBlocks(t *testing.T) {
	long := strings.Repeat("senior engineer role with cloud experience ", 4)
	page := `<html><body>
		<p>short</p>
		<p>` + long + `</p>
		<section>` + strings.Repeat("qualifications include five years of Go ", 4) + `</section>
	</body></html>`

	blocks := ExtractTextBlocks(page)
	if len(blocks) < 2 {
		t.Fatalf("expected at least 2 blocks, got %d", len(blocks))
	}
	for _, b := range blocks {
		if len(b) <= 100 {
			t.Errorf("block shorter than threshold: %q", b)
		}
	}
}

func TestExtractTextBlocks_CapsAtFive(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		sb.WriteString("<p>")
		sb.WriteString(strings.Repeat("block number ", 10))
		sb.WriteString(strings.Repeat("x", i+1)) // make each block unique
		sb.WriteString("</p>")
	}
	sb.WriteString("</body></html>")

	blocks := ExtractTextBlocks(sb.String())
	if len(blocks) > 5 {
		t.Errorf("expected at most 5 blocks, got %d", len(blocks))
	}
}
