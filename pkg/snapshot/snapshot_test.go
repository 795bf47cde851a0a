package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vlite/pkg/dom/memdom"
	"github.com/vango-dev/vlite/pkg/runtime"
	"github.com/vango-dev/vlite/pkg/vdom"
)

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"home", true},
		{"page-1.v2_final", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a..b", false},
		{"a/b", false},
		{"white space", false},
	}
	for _, tt := range tests {
		if got := ValidKey(tt.key); got != tt.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func mounted(t *testing.T) *runtime.Runtime {
	t.Helper()
	doc := memdom.New()
	app := doc.CreateElement("div")
	doc.Body().AppendChild(app)
	rt := runtime.New(runtime.WithDocument(doc))
	item := func(p vdom.Props) *vdom.VNode { return vdom.Jsx("li", nil, p["label"]) }
	root := func(vdom.Props) *vdom.VNode {
		return vdom.Jsx("ul", vdom.Props{"class": "items"},
			vdom.Jsx(item, vdom.Props{"label": "a"}),
			vdom.Jsx(item, vdom.Props{"label": "b"}),
		)
	}
	if err := rt.Render(root, app); err != nil {
		t.Fatal(err)
	}
	return rt
}

func TestCapture(t *testing.T) {
	rt := mounted(t)
	s, err := Capture(rt, "list")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<ul class="items"><li>a</li><li>b</li></ul>`; s.HTML != want {
		t.Errorf("HTML = %q, want %q", s.HTML, want)
	}
	if s.Components != 3 {
		t.Errorf("Components = %d, want 3", s.Components)
	}
	if s.Root == "" {
		t.Error("Root should name the root component")
	}

	if _, err := Capture(rt, "../x"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Capture with bad key = %v, want ErrInvalidKey", err)
	}
	if _, err := Capture(runtime.New(), "x"); err == nil {
		t.Error("Capture of an unmounted runtime should fail")
	}
}

// storeContract exercises the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) = %v, want ErrNotFound", err)
	}

	for _, key := range []string{"b", "a"} {
		snap := &Snapshot{Key: key, Root: "App", HTML: "<p>" + key + "</p>", Components: 2, CreatedAt: created}
		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("Save(%s): %v", key, err)
		}
	}

	got, err := store.Load(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	want := &Snapshot{Key: "a", Root: "App", HTML: "<p>a</p>", Components: 2, CreatedAt: created}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("deleting a missing key = %v, want nil", err)
	}
	if _, err := store.Load(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
	if err := store.Save(ctx, &Snapshot{Key: "bad/key"}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Save(bad/key) = %v, want ErrInvalidKey", err)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir() + "/snaps")
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, store)
}

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	puts    []*s3.PutObjectInput
}

type fakeObject struct {
	body []byte
	meta map[string]string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string]fakeObject)} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = fakeObject{body: body, meta: in.Metadata}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.body)), Metadata: obj.meta}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := *in.Bucket + "/" + aws.ToString(in.Prefix)
	var names []string
	for name := range f.objects {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			names = append(names, name[len(*in.Bucket)+1:])
		}
	}
	sort.Strings(names)
	out := &s3.ListObjectsV2Output{}
	for _, n := range names {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(n)})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake, "bucket", "snaps/")
	storeContract(t, store)

	if len(fake.puts) == 0 {
		t.Fatal("no uploads recorded")
	}
	put := fake.puts[0]
	if got := aws.ToString(put.Key); got != "snaps/b.html" {
		t.Errorf("object key = %q, want snaps/b.html", got)
	}
	if got := aws.ToString(put.ContentType); got != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
}

func TestTake(t *testing.T) {
	rt := mounted(t)
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Take(context.Background(), store, rt, "home"); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(context.Background(), "home")
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML == "" || got.Components != 3 {
		t.Errorf("loaded = %+v", got)
	}
}
