// Package guardrail gates entry into the resume_written milestone on the
// completeness of the resume artifacts: the rendered PDF and its LaTeX source
// must exist, the PDF must be non-empty, and the source must contain no
// unresolved draft markers.
package guardrail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// placeholderTokens block the transition when found anywhere in the LaTeX
// source, comments included. Matching is case-sensitive substring search;
// a draft marker anywhere means the resume is not finished.
var placeholderTokens = []string{
	"TODO",
	"FIXME",
	"PLACEHOLDER",
	"CHANGEME",
	"TBD",
	"XXX",
}

// Result is the verdict of an artifact validation. Reason carries only the
// first failing check.
type Result struct {
	OK     bool
	Reason string
}

// ValidateResumeArtifacts checks the resume PDF and its companion source in
// strict order, short-circuiting on the first failure:
//
//  1. PDF exists and is a regular file.
//  2. PDF is non-empty.
//  3. Source exists and is a regular file (zero bytes is acceptable).
//  4. Source contains no placeholder tokens.
func ValidateResumeArtifacts(pdfPath, sourcePath string) Result {
	pdfInfo, err := os.Stat(pdfPath)
	if err != nil || !pdfInfo.Mode().IsRegular() {
		return failed("resume PDF %s is missing or not a regular file", pdfPath)
	}
	if pdfInfo.Size() == 0 {
		return failed("resume PDF %s is empty", pdfPath)
	}

	srcInfo, err := os.Stat(sourcePath)
	if err != nil || !srcInfo.Mode().IsRegular() {
		return failed("resume source %s is missing or not a regular file", sourcePath)
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return failed("resume source %s is unreadable", sourcePath)
	}
	text := string(content)
	for _, token := range placeholderTokens {
		if strings.Contains(text, token) {
			return Result{Reason: fmt.Sprintf(
				"resume source %s contains unresolved placeholder %q",
				filepath.Base(sourcePath), token)}
		}
	}

	return Result{OK: true}
}

func failed(format, path string) Result {
	return Result{Reason: fmt.Sprintf(format, filepath.Base(path))}
}

// ResolveResumeRef normalizes the resume_path reference stored in tracker
// frontmatter. Both the bracketed link form [[path/to/resume.pdf]] and the
// bare relative path are accepted and resolve identically.
func ResolveResumeRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "[[") && strings.HasSuffix(ref, "]]") {
		ref = strings.TrimSpace(ref[2 : len(ref)-2])
	}
	if ref == "" {
		return "", fmt.Errorf("empty resume path reference")
	}
	return ref, nil
}

// SourcePath derives the companion LaTeX source for a resume PDF: the same
// path with the extension replaced.
func SourcePath(pdfPath string) string {
	ext := filepath.Ext(pdfPath)
	return strings.TrimSuffix(pdfPath, ext) + ".tex"
}
