package export

import (
	"strings"
	"testing"

	"github.com/san-kum/expmv/internal/krylov"
)

func sampleSteps() []krylov.Step {
	return []krylov.Step{
		{Time: 0.1, Tau: 0.1, Err: 1e-9, Norm: 0.95, BasisSize: 12},
		{Time: 0.3, Tau: 0.2, Err: 2e-9, Norm: 0.88, BasisSize: 12},
		{Time: 0.6, Tau: 0.3, Err: 3e-9, Norm: 0.79, BasisSize: 12},
	}
}

func TestStepSizeSVG(t *testing.T) {
	svg := StepSizeSVG(sampleSteps(), 640, 240)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `width="640" height="240"`) {
		t.Error("missing dimensions")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing path element")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
	// One M plus two L segments for three points.
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d", got)
	}
}

func TestSVGTooFewPoints(t *testing.T) {
	if svg := StepSizeSVG(sampleSteps()[:1], 640, 240); svg != "" {
		t.Error("expected empty output for a single point")
	}
	if svg := NormSVG(nil, 640, 240); svg != "" {
		t.Error("expected empty output for no points")
	}
}

func TestSVGConstantSeries(t *testing.T) {
	steps := []krylov.Step{
		{Time: 0.0, Norm: 1.0},
		{Time: 1.0, Norm: 1.0},
	}
	svg := NormSVG(steps, 320, 120)
	if svg == "" {
		t.Fatal("expected output for constant series")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("degenerate range produced NaN coordinates")
	}
}
