package gallery_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"simplegallery/internal/gallery"
	"simplegallery/internal/logging"
	"simplegallery/internal/metrics"
	"simplegallery/internal/services"
	"simplegallery/internal/sidecar"
	"simplegallery/internal/testsupport"
)

type toolCall struct {
	tool string
	dir  string
	args []string
}

// fakeTools imitates convert and tar: outputs are created when the source
// exists, otherwise the call fails like the real tool would.
type fakeTools struct {
	mu    sync.Mutex
	calls []toolCall
}

func (f *fakeTools) Run(_ context.Context, dir, binary string, args []string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, toolCall{tool: filepath.Base(binary), dir: dir, args: append([]string(nil), args...)})
	f.mu.Unlock()

	switch filepath.Base(binary) {
	case "convert":
		src, dst := args[2], args[len(args)-1]
		if _, err := os.Stat(src); err != nil {
			return []byte("convert: unable to open image " + src), errors.New("exit status 1")
		}
		return nil, os.WriteFile(dst, []byte("rendition"), 0o644)
	case "tar":
		return nil, os.WriteFile(filepath.Join(dir, args[1]), []byte("tgz"), 0o644)
	default:
		return nil, fmt.Errorf("unexpected tool %s", binary)
	}
}

func (f *fakeTools) count(tool string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.tool == tool {
			n++
		}
	}
	return n
}

func newPipeline(t *testing.T, tools *fakeTools, out *bytes.Buffer, opts ...gallery.Option) *gallery.Pipeline {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	opts = append([]gallery.Option{gallery.WithOutput(out), gallery.WithExecutor(tools)}, opts...)
	return gallery.New(cfg, logging.NewNop(), opts...)
}

func TestPrepareWritesSidecarForEveryImage(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "b.png", "a.jpg", "c.GIF", "notes.txt")
	var out bytes.Buffer
	p := newPipeline(t, &fakeTools{}, &out)

	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	records, err := sidecar.Load(dir)
	if err != nil {
		t.Fatalf("load sidecar: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, name := range []string{"a.jpg", "b.png", "c.GIF"} {
		if records[i].Filename != filepath.Join(dir, name) || records[i].Title != "" {
			t.Fatalf("record %d = %+v", i, records[i])
		}
	}

	layout := gallery.NewLayout(dir)
	for _, d := range []string{layout.Web, layout.Images, layout.Med, layout.Tmb} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", d, err)
		}
	}
	for _, asset := range []string{"colorbox.css", "colorbox.js", "images/controls.png", "images/loading.gif"} {
		if _, err := os.Stat(filepath.Join(layout.Web, asset)); err != nil {
			t.Fatalf("asset %s not staged: %v", asset, err)
		}
	}

	text := out.String()
	for _, line := range []string{
		"Creating file *sg.json* in " + dir,
		"  Modify this file to exclude images, add descriptions etc.",
		"Creating directory *_web*",
		"  Everything can re-generated, promise!",
		"...\n",
	} {
		if !strings.Contains(text, line) {
			t.Fatalf("expected %q in output:\n%s", line, text)
		}
	}
	if strings.Contains(text, "Warning:") {
		t.Fatalf("unexpected filename warning:\n%s", text)
	}
}

func TestPrepareIsIdempotent(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "one.jpg", "two.jpg")
	p := newPipeline(t, &fakeTools{}, &bytes.Buffer{})

	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("first prepare: %v", err)
	}
	first, err := os.ReadFile(sidecar.Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("second prepare: %v", err)
	}
	second, err := os.ReadFile(sidecar.Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("sidecar changed between runs:\n%s\n---\n%s", first, second)
	}
}

func TestPrepareEmptyDirectoryWritesEmptyArray(t *testing.T) {
	dir := testsupport.NewGalleryDir(t)
	p := newPipeline(t, &fakeTools{}, &bytes.Buffer{})

	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	data, err := os.ReadFile(sidecar.Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#\n[]\n" {
		t.Fatalf("unexpected sidecar %q", data)
	}
}

func TestPrepareWarnsAboutUnsafeNames(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "my photo.jpg", "ok.jpg")
	var out bytes.Buffer
	p := newPipeline(t, &fakeTools{}, &out)

	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !strings.Contains(out.String(), "Warning: Some of the files contain characters that could lead to problems with your web server.") {
		t.Fatalf("expected filename warning, got:\n%s", out.String())
	}
}

func TestPrepareWithArchive(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg", "b.jpg")
	tools := &fakeTools{}
	p := newPipeline(t, tools, &bytes.Buffer{})

	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir, Archive: true}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if tools.count("tar") != 1 {
		t.Fatalf("tar calls = %d, want 1", tools.count("tar"))
	}
	call := tools.calls[len(tools.calls)-1]
	want := []string{"-czf", filepath.Join("_web", "sg.tgz"), "a.jpg", "b.jpg"}
	if strings.Join(call.args, " ") != strings.Join(want, " ") || call.dir != dir {
		t.Fatalf("tar call = %+v", call)
	}
}

func TestProcessMissingSidecar(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	var out bytes.Buffer
	tools := &fakeTools{}
	p := newPipeline(t, tools, &out)

	err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir})
	if !errors.Is(err, sidecar.ErrMissing) || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected missing sidecar error, got %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Could not open "+sidecar.Path(dir)) ||
		!strings.Contains(text, "Are you sure you already ran simplegallery prepare?") {
		t.Fatalf("unexpected diagnostic:\n%s", text)
	}
	if _, err := os.Stat(gallery.NewLayout(dir).Index); !os.IsNotExist(err) {
		t.Fatalf("index.html should not exist, stat err = %v", err)
	}
	if len(tools.calls) != 0 {
		t.Fatalf("no tool should run, got %+v", tools.calls)
	}
}

func TestProcessInvalidSidecar(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	if err := os.WriteFile(sidecar.Path(dir), []byte("#\n[{\"filename\": \"a.jpg\""), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	p := newPipeline(t, &fakeTools{}, &out)

	err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir})
	if !errors.Is(err, sidecar.ErrMalformed) {
		t.Fatalf("expected malformed sidecar error, got %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "sg.json is not valid json.") ||
		!strings.Contains(text, "Try repairing the file or generate it from scratch using prepare.") {
		t.Fatalf("unexpected diagnostic:\n%s", text)
	}
	if _, err := os.Stat(gallery.NewLayout(dir).Index); !os.IsNotExist(err) {
		t.Fatalf("index.html should not exist, stat err = %v", err)
	}
}

func TestProcessListsEveryRecordDespiteFailures(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg", "b.jpg")
	records := []sidecar.Record{
		{Filename: filepath.Join(dir, "a.jpg"), Title: "First"},
		{Filename: filepath.Join(dir, "gone.jpg"), Title: "Missing"},
		{Filename: filepath.Join(dir, "b.jpg")},
	}
	if err := sidecar.Write(dir, records); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(sidecar.Path(dir))

	tools := &fakeTools{}
	var out bytes.Buffer
	p := newPipeline(t, tools, &out)
	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("process: %v", err)
	}

	if got := tools.count("convert"); got != 6 {
		t.Fatalf("convert calls = %d, want 6", got)
	}
	var thumbs int
	for _, c := range tools.calls {
		if c.tool == "convert" && c.args[0] == "-size" {
			thumbs++
		}
	}
	if thumbs != 3 {
		t.Fatalf("thumbnail attempts = %d, want 3", thumbs)
	}

	layout := gallery.NewLayout(dir)
	page, err := os.ReadFile(layout.Index)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, name := range []string{"a.jpg", "gone.jpg", "b.jpg"} {
		if !bytes.Contains(page, []byte(`src="tmb/`+name+`"`)) {
			t.Fatalf("index missing %s:\n%s", name, page)
		}
	}
	if !bytes.Contains(page, []byte("First")) {
		t.Fatal("expected caption in index")
	}
	if bytes.Contains(page, []byte("sg.tgz")) {
		t.Fatal("unexpected archive link")
	}
	if _, err := os.Stat(layout.ThumbnailPath("a.jpg")); err != nil {
		t.Fatalf("expected thumbnail: %v", err)
	}
	if !strings.Contains(out.String(), "Generating index file") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	after, _ := os.ReadFile(sidecar.Path(dir))
	if !bytes.Equal(before, after) {
		t.Fatal("process must not modify sg.json")
	}
}

func TestProcessArchiveLink(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	if err := sidecar.Write(dir, sidecar.FromPaths([]string{filepath.Join(dir, "a.jpg")})); err != nil {
		t.Fatal(err)
	}
	tools := &fakeTools{}
	var out bytes.Buffer
	p := newPipeline(t, tools, &out)

	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir, Archive: true}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if tools.count("tar") != 1 {
		t.Fatalf("tar calls = %d", tools.count("tar"))
	}
	if !strings.Contains(out.String(), "I found an archive. This will be part of the gallery") {
		t.Fatalf("expected archive notice:\n%s", out.String())
	}
	page, _ := os.ReadFile(gallery.NewLayout(dir).Index)
	if !bytes.Contains(page, []byte(`href="sg.tgz"`)) {
		t.Fatalf("expected archive link:\n%s", page)
	}
}

func TestProcessDetectsExistingArchive(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	if err := sidecar.Write(dir, nil); err != nil {
		t.Fatal(err)
	}
	layout := gallery.NewLayout(dir)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout.Archive, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	tools := &fakeTools{}
	p := newPipeline(t, tools, &bytes.Buffer{})

	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if tools.count("tar") != 0 {
		t.Fatal("tar should not run without --archive")
	}
	page, _ := os.ReadFile(layout.Index)
	if !bytes.Contains(page, []byte(`href="sg.tgz"`)) {
		t.Fatalf("expected archive link for existing archive:\n%s", page)
	}
}

func TestRunFailsFastWhenLocked(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	layout := gallery.NewLayout(dir)
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	holder := flock.New(layout.Lock)
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock: %v %v", ok, err)
	}
	defer holder.Unlock()

	p := newPipeline(t, &fakeTools{}, &bytes.Buffer{})
	err = p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir})
	if !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if _, err := os.Stat(sidecar.Path(dir)); !os.IsNotExist(err) {
		t.Fatal("sidecar should not be written while locked")
	}
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg")
	if err := sidecar.Write(dir, sidecar.FromPaths([]string{filepath.Join(dir, "a.jpg")})); err != nil {
		t.Fatal(err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithMetricsTextfile())
	p := gallery.New(cfg, logging.NewNop(),
		gallery.WithOutput(&bytes.Buffer{}),
		gallery.WithExecutor(&fakeTools{}),
		gallery.WithMetrics(metrics.New()),
	)

	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("process: %v", err)
	}
	data, err := os.ReadFile(cfg.Metrics.Textfile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, fragment := range []string{
		`simplegallery_tool_invocations_total{result="success",tool="convert"} 2`,
		`simplegallery_images_total{command="process"} 1`,
		`simplegallery_last_run_success{command="process"} 1`,
	} {
		if !strings.Contains(string(data), fragment) {
			t.Fatalf("expected %s in metrics:\n%s", fragment, data)
		}
	}
}

func TestRunRejectsMissingDirectory(t *testing.T) {
	p := newPipeline(t, &fakeTools{}, &bytes.Buffer{})
	err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	for _, name := range []string{"prepare", "process"} {
		cmd, err := gallery.ParseCommand(name)
		if err != nil || cmd.String() != name {
			t.Fatalf("ParseCommand(%q) = %v, %v", name, cmd, err)
		}
	}
	if _, err := gallery.ParseCommand("publish"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestInspect(t *testing.T) {
	dir := testsupport.NewGalleryDir(t, "a.jpg", "b.jpg")

	status, err := gallery.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if status.Prepared {
		t.Fatal("directory should not be prepared yet")
	}

	p := newPipeline(t, &fakeTools{}, &bytes.Buffer{})
	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatal(err)
	}
	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir}); err != nil {
		t.Fatal(err)
	}

	status, err = gallery.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !status.Prepared || !status.Index || status.Archive {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(status.Entries) != 2 || status.Rendered() != 2 || !status.Entries[0].Source {
		t.Fatalf("unexpected entries %+v", status.Entries)
	}
}

func TestRelativeDirectoryRoundTrip(t *testing.T) {
	parent := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(parent, "photos", "beach.jpg"), 16)
	testsupport.Chdir(t, parent)
	dir := "photos" + string(filepath.Separator)

	tools := &fakeTools{}
	p := newPipeline(t, tools, &bytes.Buffer{})
	if err := p.Run(context.Background(), gallery.CommandPrepare, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	records, err := sidecar.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Filename != filepath.Join("photos", "beach.jpg") {
		t.Fatalf("records = %+v", records)
	}

	if err := p.Run(context.Background(), gallery.CommandProcess, gallery.Options{Dir: dir}); err != nil {
		t.Fatalf("process: %v", err)
	}
	for _, c := range tools.calls {
		if c.tool == "convert" && c.args[2] != filepath.Join("photos", "beach.jpg") {
			t.Fatalf("convert source = %q", c.args[2])
		}
	}
	for _, rendition := range []string{"tmb", "med"} {
		if _, err := os.Stat(filepath.Join(parent, "photos", "_web", rendition, "beach.jpg")); err != nil {
			t.Fatalf("%s rendition missing: %v", rendition, err)
		}
	}

	status, err := gallery.Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(status.Entries) != 1 || !status.Entries[0].Source || status.Rendered() != 1 {
		t.Fatalf("unexpected entries %+v", status.Entries)
	}
}
