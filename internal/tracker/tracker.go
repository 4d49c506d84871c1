// Package tracker reads and rewrites the per-job Markdown tracker files. A
// tracker is YAML frontmatter between a pair of --- lines followed by a
// free-form body. Status updates rewrite only the frontmatter status key; the
// body and every other frontmatter entry survive byte-for-byte.
package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-tracker/internal/status"
)

// Frontmatter keys this subsystem reads or writes.
const (
	KeyJobDBID     = "job_db_id"
	KeyStatus      = "status"
	KeyResumePath  = "resume_path"
	KeyURL         = "url"
	KeyCreatedDate = "created"
)

const delimiter = "---"

// ErrMalformed marks a tracker whose frontmatter block is absent or does not
// parse as a map. Distinct from file-not-found.
var ErrMalformed = errors.New("malformed tracker document")

// Document is a parsed tracker. The frontmatter is retained as a yaml.Node
// tree so re-serialization preserves key order, nesting, and comments; Body
// holds the raw bytes following the closing delimiter line, exactly as read.
type Document struct {
	meta *yaml.Node // mapping node
	Body string
}

// Parse splits raw tracker bytes into frontmatter and body.
func Parse(data []byte) (*Document, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(fm, &root); err != nil {
		return nil, fmt.Errorf("%w: frontmatter is not valid YAML: %v", ErrMalformed, err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: frontmatter is not a map", ErrMalformed)
	}

	return &Document{meta: root.Content[0], Body: body}, nil
}

// Load reads and parses the tracker at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// splitFrontmatter locates the delimiter pair. The body keeps everything
// after the closing delimiter's newline, untouched.
func splitFrontmatter(data []byte) (frontmatter []byte, body string, err error) {
	text := string(data)
	if !strings.HasPrefix(text, delimiter+"\n") {
		return nil, "", fmt.Errorf("%w: missing opening delimiter", ErrMalformed)
	}
	rest := text[len(delimiter)+1:]

	// Empty frontmatter block; Parse will reject it as a non-map.
	if strings.HasPrefix(rest, delimiter+"\n") {
		return nil, rest[len(delimiter)+1:], nil
	}

	if idx := strings.Index(rest, "\n"+delimiter+"\n"); idx >= 0 {
		return []byte(rest[:idx+1]), rest[idx+len(delimiter)+2:], nil
	}
	// Closing delimiter at end of file with no trailing newline.
	if strings.HasSuffix(rest, "\n"+delimiter) {
		return []byte(rest[:len(rest)-len(delimiter)]), "", nil
	}
	return nil, "", fmt.Errorf("%w: missing closing delimiter", ErrMalformed)
}

// Get returns the scalar value of a top-level frontmatter key.
func (d *Document) Get(key string) (string, bool) {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		k, v := d.meta.Content[i], d.meta.Content[i+1]
		if k.Value == key && v.Kind == yaml.ScalarNode {
			return v.Value, true
		}
	}
	return "", false
}

// Set replaces the scalar value of a top-level key, appending the key when it
// is absent. Only the targeted value node changes; all sibling nodes keep
// their original representation.
func (d *Document) Set(key, value string) {
	for i := 0; i+1 < len(d.meta.Content); i += 2 {
		if d.meta.Content[i].Value == key {
			v := d.meta.Content[i+1]
			v.SetString(value)
			return
		}
	}
	k := &yaml.Node{}
	k.SetString(key)
	v := &yaml.Node{}
	v.SetString(value)
	d.meta.Content = append(d.meta.Content, k, v)
}

// Marshal renders the document: delimiter, re-serialized frontmatter,
// delimiter, then the body bytes exactly as they were read.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.meta); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close frontmatter encoder: %w", err)
	}

	buf.WriteString(delimiter + "\n")
	buf.WriteString(d.Body)
	return buf.Bytes(), nil
}

// UpdateStatus rewrites only the status key of the tracker at path and writes
// the result atomically. On any failure the original file is left untouched.
func UpdateStatus(path string, s status.TrackerStatus) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	doc.Set(KeyStatus, string(s))

	out, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(path, out)
}

// Create writes a brand-new tracker at path. Refuses to overwrite: trackers
// are created once, at shortlist time.
func Create(path string, doc *Document) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("tracker already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}

	out, err := doc.Marshal()
	if err != nil {
		return err
	}
	return writeAtomic(path, out)
}

// NewDocument builds the initial tracker document for a shortlisted job.
func NewDocument(jobDBID int64, url string, initial status.TrackerStatus, resumePath, createdDate string) *Document {
	meta := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc := &Document{
		meta: meta,
		Body: "\n## Notes\n",
	}
	idKey := &yaml.Node{}
	idKey.SetString(KeyJobDBID)
	idVal := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", jobDBID)}
	meta.Content = append(meta.Content, idKey, idVal)
	doc.Set(KeyURL, url)
	doc.Set(KeyStatus, string(initial))
	if resumePath != "" {
		doc.Set(KeyResumePath, resumePath)
	}
	if createdDate != "" {
		doc.Set(KeyCreatedDate, createdDate)
	}
	return doc
}
