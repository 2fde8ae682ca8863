package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"simplegallery/internal/config"
	"simplegallery/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithEXIFReader(config.EXIFReaderJhead),
	)
	dir := t.TempDir()

	results := RunAll(cfg, dir)
	names := map[string]Result{}
	for _, r := range results {
		names[r.Name] = r
	}
	for _, want := range []string{"Gallery directory", "ImageMagick convert", "tar", "jhead"} {
		r, ok := names[want]
		if !ok {
			t.Fatalf("missing check %q in %+v", want, results)
		}
		if !r.Passed {
			t.Fatalf("check %q failed: %s", want, r.Detail)
		}
	}
	if _, ok := names["Web directory"]; ok {
		t.Fatal("web directory should not be checked before prepare")
	}
	if Failed(results) {
		t.Fatal("expected all checks to pass")
	}
}

func TestRunAllReportsMissingConvert(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.Convert = "clearly-not-present-convert"
	cfg.Tools.Tar = "clearly-not-present-tar"
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "_web"), 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(cfg, dir)
	if !Failed(results) {
		t.Fatalf("missing convert should fail the check, got %+v", results)
	}
	var sawWeb bool
	for _, r := range results {
		if r.Name == "Web directory" {
			sawWeb = true
		}
		if r.Name == "jhead" || r.Name == "exiftool" {
			t.Fatalf("exif tool checked while exif reader is disabled: %+v", r)
		}
	}
	if !sawWeb {
		t.Fatal("expected web directory check after prepare")
	}
	if missing := MissingRequiredTools(cfg); len(missing) != 1 || missing[0] != "ImageMagick convert" {
		t.Fatalf("optional tar should not be listed as missing, got %v", missing)
	}
}

func TestFailedIgnoresOptional(t *testing.T) {
	results := []Result{{Name: "tar", Optional: true}, {Name: "convert", Passed: true}}
	if Failed(results) {
		t.Fatal("optional failure should not fail the run")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil, t.TempDir()) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
