package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1,2,3", []int{1, 2, 3}, false},
		{" 4 , 5 ", []int{4, 5}, false},
		{"1,,2", []int{1, 2}, false},
		{"", nil, true},
		{"a", nil, true},
		{"1,b", nil, true},
		{"0", nil, true},
		{"-3", nil, true},
	}
	for _, tc := range tests {
		got, err := parseIDList(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseIDList(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIDList(%q): %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("parseIDList(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("parseIDList(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestUploadPathsDetectsFiles(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "resume.pdf")
	cover := filepath.Join(dir, "cover.docx")
	for _, p := range []string{resume, cover} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	paths, ok := uploadPaths([]string{resume, cover})
	if !ok {
		t.Fatal("two existing files must be treated as an upload batch")
	}
	if len(paths) != 2 || paths[0] != resume || paths[1] != cover {
		t.Errorf("paths = %v", paths)
	}

	if _, ok := uploadPaths([]string{"login"}); ok {
		t.Error("a subcommand name must not be treated as a file")
	}
	if _, ok := uploadPaths([]string{resume, "extra-flag"}); ok {
		t.Error("a batch with a non-file argument must fall through to dispatch")
	}
	if _, ok := uploadPaths([]string{dir}); ok {
		t.Error("a directory is not an uploadable file")
	}
	if _, ok := uploadPaths(nil); ok {
		t.Error("no arguments means no batch")
	}
}

func TestHelpTextListsCommands(t *testing.T) {
	help := helpText()
	for _, cmd := range []string{
		"interviewpro login",
		"interviewpro register",
		"interviewpro cv upload",
		"interviewpro roles",
		"interviewpro wallet",
		"interviewpro buy",
		"interviewpro interview",
		"interviewpro screening",
		"interviewpro persona",
	} {
		if !strings.Contains(help, cmd) {
			t.Errorf("help text missing %q", cmd)
		}
	}
}
