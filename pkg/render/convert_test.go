package render

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/matzehuels/xdsm/pkg/errors"
)

func TestToPNG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)

	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Setenv("PATH", "")
		if _, err := ToPNG(context.Background(), svg, 1); !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPNG() error = %v, want %s", err, errors.ErrCodeUnsupported)
		}
		return
	}

	png, err := ToPNG(context.Background(), svg, 0)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output is not a PNG: % x", png[:min(len(png), 8)])
	}
}
