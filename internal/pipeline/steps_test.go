package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandscan/brandscan/internal/classify"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
	"github.com/brandscan/brandscan/internal/renderer"
)

const stepTestPage = `<!DOCTYPE html>
<html>
<head><title>Acme</title></head>
<body>
<button style="background-color: #ff5000">Buy</button>
<p style="color: #333333">Simple and clean by design.</p>
</body>
</html>`

// TestFetchStep exercises the fetch step against a local server.
func TestFetchStep(t *testing.T) {
	t.Parallel()

	t.Run("attaches page signals", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(stepTestPage))
		}))
		defer server.Close()

		step := NewFetchStep(renderer.NewRenderer(renderer.WithHTTPClient(server.Client())))
		report := model.NewScanReport(server.URL)

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("Do returned error: %v", err)
		}
		if report.Raw == nil {
			t.Fatal("Raw signals not attached")
		}
		if len(report.Raw.Colors) == 0 {
			t.Error("no color candidates extracted")
		}
	})

	t.Run("fails on unreachable target", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		step := NewFetchStep(renderer.NewRenderer(renderer.WithHTTPClient(server.Client())))
		report := model.NewScanReport(server.URL)

		if err := step.Do(context.Background(), report); err == nil {
			t.Error("expected error for error status")
		}
	})
}

// TestClassifyStep covers classification with and without raw signals.
func TestClassifyStep(t *testing.T) {
	t.Parallel()

	t.Run("classifies raw signals", func(t *testing.T) {
		t.Parallel()

		step := NewClassifyStep(classify.NewEngine())
		report := model.NewScanReport("https://acme.example")
		report.Raw = &model.PageSignals{
			Colors: []model.ColorCandidate{
				{Hex: "#ff5000", Category: model.CategoryButton, Area: 8000, Visible: true},
			},
		}

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("Do returned error: %v", err)
		}
		if report.Signals == nil {
			t.Fatal("Signals not attached")
		}
		if report.Signals.Colors.Primary != "#ff5000" {
			t.Errorf("Primary = %q", report.Signals.Colors.Primary)
		}
	})

	t.Run("skips without raw signals", func(t *testing.T) {
		t.Parallel()

		step := NewClassifyStep(classify.NewEngine())
		report := model.NewScanReport("https://acme.example")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("Do returned error: %v", err)
		}
		if report.Signals != nil {
			t.Error("Signals set without raw input")
		}
	})
}

// TestToneStep covers tone analysis wiring.
func TestToneStep(t *testing.T) {
	t.Parallel()

	t.Run("attaches tone profile", func(t *testing.T) {
		t.Parallel()

		step := NewToneStep(nil)
		report := model.NewScanReport("https://acme.example")
		report.Raw = &model.PageSignals{
			Hero: model.HeroText{Headline: "Simple, minimal infrastructure"},
		}

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("Do returned error: %v", err)
		}
		if report.Tone == nil {
			t.Fatal("Tone not attached")
		}
	})

	t.Run("skips without raw signals", func(t *testing.T) {
		t.Parallel()

		step := NewToneStep(nil)
		report := model.NewScanReport("https://acme.example")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("Do returned error: %v", err)
		}
		if report.Tone != nil {
			t.Error("Tone set without raw input")
		}
	})
}

// TestPersistStep verifies reports reach the store and raw signals are
// shed by default.
func TestPersistStep(t *testing.T) {
	t.Parallel()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	step := NewPersistStep(db)
	report := model.NewScanReport("https://acme.example")
	report.Raw = &model.PageSignals{URL: report.URL}
	report.Signals = &model.DesignSignals{
		Colors: model.PaletteResult{Background: "#ffffff", Text: "#000000"},
	}

	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}

	stored, err := db.GetScanByID(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("GetScanByID failed: %v", err)
	}
	if stored == nil {
		t.Fatal("report not stored")
	}
	if stored.Raw != nil {
		t.Error("raw signals stored despite default drop")
	}
}

// TestDefaultPipeline verifies step composition under each option.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	r := renderer.NewRenderer()

	t.Run("minimal pipeline", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(r, nil, WithPipelineSkipTone(true))
		names := p.StepNames()
		expected := []string{"fetch", "classify"}
		if len(names) != len(expected) {
			t.Fatalf("steps = %v, expected %v", names, expected)
		}
	})

	t.Run("full pipeline", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		p := DefaultPipeline(r, nil, WithPipelineDB(db))
		names := p.StepNames()
		expected := []string{"fetch", "classify", "tone", "persist"}
		if len(names) != len(expected) {
			t.Fatalf("steps = %v, expected %v", names, expected)
		}
		for i := range expected {
			if names[i] != expected[i] {
				t.Errorf("step[%d] = %q, expected %q", i, names[i], expected[i])
			}
		}
	})
}
