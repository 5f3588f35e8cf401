package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestAskYesNoRepromptsOnInvalid(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("maybe\nYES\n"), &out)
	if !p.AskYesNo("Apply cut?") {
		t.Fatalf("expected true")
	}
	if !strings.Contains(out.String(), "Invalid response") {
		t.Fatalf("missing re-prompt message: %q", out.String())
	}
}

func TestAskYesNoShortForms(t *testing.T) {
	p := New(strings.NewReader("n\n"), &bytes.Buffer{})
	if p.AskYesNo("Apply cut?") {
		t.Fatalf("expected false for 'n'")
	}
}

func TestAskYesNoEOFDefaultsNo(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	if p.AskYesNo("Apply cut?") {
		t.Fatalf("expected false on EOF")
	}
}

func TestAskFloatRepromptsOnGarbage(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n3.5\n"), &out)
	if v := p.AskFloat("Cut value"); v != 3.5 {
		t.Fatalf("want 3.5 got %v", v)
	}
	if !strings.Contains(out.String(), "Invalid input") {
		t.Fatalf("missing re-prompt message: %q", out.String())
	}
}

func TestAskSelectionDropsOutOfRange(t *testing.T) {
	opts := []string{"hClusterChi", "hClusterPt", "hClusterECore", "hTotalCaloE", "hTotalMBD"}
	var out bytes.Buffer
	p := New(strings.NewReader("9 2\n"), &out)
	got := p.AskSelection("Which histograms?", opts)
	if len(got) != 1 || got[0] != "hClusterPt" {
		t.Fatalf("selection: %v", got)
	}
	if !strings.Contains(out.String(), "Invalid choice: 9") {
		t.Fatalf("missing invalid-choice message: %q", out.String())
	}
}

func TestAskSelectionRepromptsWhenNothingValid(t *testing.T) {
	opts := []string{"a", "b", "c"}
	var out bytes.Buffer
	p := New(strings.NewReader("0\n1 3\n"), &out)
	got := p.AskSelection("Which?", opts)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("selection: %v", got)
	}
	// Menu must have been printed twice.
	if strings.Count(out.String(), "1. a") != 2 {
		t.Fatalf("expected a second prompt round: %q", out.String())
	}
}

func TestAskSelectionDeduplicatesKeepingMenuOrder(t *testing.T) {
	opts := []string{"a", "b", "c"}
	p := New(strings.NewReader("3 1 3\n"), &bytes.Buffer{})
	got := p.AskSelection("Which?", opts)
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("selection: %v", got)
	}
}
