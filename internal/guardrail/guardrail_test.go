package guardrail

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestValidateResumeArtifacts(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "resume.pdf")
	tex := filepath.Join(dir, "resume.tex")

	t.Run("pdf missing reported before source", func(t *testing.T) {
		// Neither file exists; the PDF failure must win.
		res := ValidateResumeArtifacts(pdf, tex)
		if res.OK {
			t.Fatal("expected failure")
		}
		if !strings.Contains(res.Reason, "PDF") {
			t.Errorf("Reason = %q, want PDF-missing reason first", res.Reason)
		}
	})

	writeFile(t, pdf, "")

	t.Run("empty pdf", func(t *testing.T) {
		res := ValidateResumeArtifacts(pdf, tex)
		if res.OK || !strings.Contains(res.Reason, "empty") {
			t.Errorf("Reason = %q, want empty-PDF reason", res.Reason)
		}
	})

	writeFile(t, pdf, "%PDF-1.7 fake content")

	t.Run("source missing", func(t *testing.T) {
		res := ValidateResumeArtifacts(pdf, tex)
		if res.OK || !strings.Contains(res.Reason, "source") {
			t.Errorf("Reason = %q, want source-missing reason", res.Reason)
		}
	})

	t.Run("zero byte source is acceptable", func(t *testing.T) {
		writeFile(t, tex, "")
		res := ValidateResumeArtifacts(pdf, tex)
		if !res.OK {
			t.Errorf("expected OK, got %q", res.Reason)
		}
	})

	t.Run("placeholder in source blocks", func(t *testing.T) {
		writeFile(t, tex, "\\section{Experience}\n% TODO tighten wording\n")
		res := ValidateResumeArtifacts(pdf, tex)
		if res.OK {
			t.Fatal("expected placeholder failure")
		}
		if !strings.Contains(res.Reason, "TODO") {
			t.Errorf("Reason = %q, want placeholder token named", res.Reason)
		}
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		writeFile(t, tex, "Wrote a todo app in production.\n")
		res := ValidateResumeArtifacts(pdf, tex)
		if !res.OK {
			t.Errorf("lowercase todo should not block: %q", res.Reason)
		}
	})

	t.Run("clean artifacts pass", func(t *testing.T) {
		writeFile(t, tex, "\\documentclass{article}\\begin{document}done\\end{document}")
		res := ValidateResumeArtifacts(pdf, tex)
		if !res.OK {
			t.Errorf("expected OK, got %q", res.Reason)
		}
	})

	t.Run("directory is not a regular file", func(t *testing.T) {
		res := ValidateResumeArtifacts(dir, tex)
		if res.OK || !strings.Contains(res.Reason, "regular file") {
			t.Errorf("Reason = %q, want regular-file failure", res.Reason)
		}
	})
}

func TestValidateResumeArtifacts_ReasonUsesBasename(t *testing.T) {
	dir := t.TempDir()
	res := ValidateResumeArtifacts(filepath.Join(dir, "cv.pdf"), filepath.Join(dir, "cv.tex"))
	if strings.Contains(res.Reason, dir) {
		t.Errorf("reason leaks absolute path: %q", res.Reason)
	}
}

func TestResolveResumeRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"resumes/acme.pdf", "resumes/acme.pdf", false},
		{"[[resumes/acme.pdf]]", "resumes/acme.pdf", false},
		{"[[ resumes/acme.pdf ]]", "resumes/acme.pdf", false},
		{"  resumes/acme.pdf  ", "resumes/acme.pdf", false},
		{"[[]]", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveResumeRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveResumeRef(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSourcePath(t *testing.T) {
	tests := []struct {
		pdf  string
		want string
	}{
		{"resumes/acme.pdf", "resumes/acme.tex"},
		{"/abs/dir/cv.pdf", "/abs/dir/cv.tex"},
		{"noext", "noext.tex"},
	}
	for _, tt := range tests {
		if got := SourcePath(tt.pdf); got != tt.want {
			t.Errorf("SourcePath(%q) = %q, want %q", tt.pdf, got, tt.want)
		}
	}
}
