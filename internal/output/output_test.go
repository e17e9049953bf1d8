package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/byteowlz/postmd/internal/record"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Article", "My_Article"},
		{`What: is "this"? <a|b>`, "What_is_this_ab"},
		{"  tabs\tand\nnewlines  ", "tabs_and_newlines"},
		{"path/to\\file*", "pathtofile"},
		{strings.Repeat("长", 150), strings.Repeat("长", 100)},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		post *record.Post
		ext  string
		want string
	}{
		{"nil record", nil, "", "post_2024-01-15.md"},
		{"article title", &record.Post{Title: "My Article: Part 1", IsLongForm: true, DisplayName: "W"}, ".md", "My_Article_Part_1.md"},
		{"title ignored on posts", &record.Post{Title: "Ignored", DisplayName: "Alice Example"}, ".md", "Alice_Example_2024-01-15.md"},
		{"username fallback", &record.Post{Username: "alice"}, ".json", "alice_2024-01-15.json"},
		{"no author", &record.Post{}, ".txt", "post_2024-01-15.txt"},
		{"unsafe title falls back", &record.Post{Title: "???", IsLongForm: true, Username: "w"}, ".md", "w_2024-01-15.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.post, now, tt.ext); got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_Stream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(WriterOptions{Stdout: &buf, Separator: "---"})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	defer w.Close()

	for _, doc := range []string{"one", "two"} {
		path, err := w.Write("ignored.md", []byte(doc))
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if path != "" {
			t.Errorf("stream writes should not report a path, got %q", path)
		}
	}
	if got := buf.String(); got != "one\n---\ntwo" {
		t.Errorf("stream output = %q", got)
	}
}

func TestWriter_NullSeparator(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(WriterOptions{Stdout: &buf, Separator: "---", NullSeparator: true})
	if err != nil {
		t.Fatal(err)
	}
	w.Write("a", []byte("a"))
	w.Write("b", []byte("b"))
	if got := buf.String(); got != "a\x00b" {
		t.Errorf("output = %q", got)
	}
}

func TestWriter_File(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.md")
	w, err := NewWriter(WriterOptions{Target: target, Separator: "==="})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if w.IsDir() {
		t.Fatal("file target reported as directory")
	}
	if path, err := w.Write("x.md", []byte("first")); err != nil || path != target {
		t.Fatalf("Write = %q, %v", path, err)
	}
	if _, err := w.Write("y.md", []byte("second")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\n===\nsecond" {
		t.Errorf("file content = %q", data)
	}
}

func TestWriter_Directory(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(WriterOptions{Target: dir})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if !w.IsDir() {
		t.Fatal("existing directory not detected")
	}

	var paths []string
	for _, doc := range []string{"a", "b", "c"} {
		path, err := w.Write("Alice_2024-01-15.md", []byte(doc))
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		paths = append(paths, filepath.Base(path))
	}

	want := []string{"Alice_2024-01-15.md", "Alice_2024-01-15_2.md", "Alice_2024-01-15_3.md"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d = %q, want %q", i, paths[i], want[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, want[2]))
	if err != nil || string(data) != "c" {
		t.Errorf("third file = %q, %v", data, err)
	}
}

func TestWriter_CreatesDirectoryWithTrailingSeparator(t *testing.T) {
	target := filepath.Join(t.TempDir(), "posts") + string(os.PathSeparator)
	w, err := NewWriter(WriterOptions{Target: target})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if !w.IsDir() {
		t.Fatal("trailing separator should select directory mode")
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
