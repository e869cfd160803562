package founder

import (
	"os"
	"reflect"
	"strings"
	"testing"
)

func sample() *Founders {
	return &Founders{Items: []*Founder{
		{ID: "a", Name: "Ada"},
		{ID: "b", Name: "Grace"},
		{ID: "c", Name: "Edsger"},
	}}
}

func TestFindByID(t *testing.T) {
	fs := sample()

	if f := fs.FindByID("b"); f == nil || f.Name != "Grace" {
		t.Fatalf("expected Grace, got %+v", f)
	}
	if f := fs.FindByID("missing"); f != nil {
		t.Fatalf("expected nil for a missing id, got %+v", f)
	}
}

func TestContains(t *testing.T) {
	fs := sample()

	if !fs.Contains("a") {
		t.Fatal("expected roster to contain a")
	}
	if fs.Contains("missing") {
		t.Fatal("did not expect roster to contain missing")
	}
}

func TestNames(t *testing.T) {
	got := sample().Names()
	want := []string{"Ada", "Grace", "Edsger"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestHasCoordinates(t *testing.T) {
	lat, lon := 52.52, 13.405

	cases := []struct {
		name string
		f    *Founder
		want bool
	}{
		{"both set", &Founder{Latitude: &lat, Longitude: &lon}, true},
		{"latitude only", &Founder{Latitude: &lat}, false},
		{"longitude only", &Founder{Longitude: &lon}, false},
		{"none", &Founder{}, false},
		{"nil founder", nil, false},
	}

	for _, tc := range cases {
		if got := tc.f.HasCoordinates(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDumpToTmpFile(t *testing.T) {
	fs := sample()

	path, err := fs.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}
	for _, name := range fs.Names() {
		if !strings.Contains(string(data), name) {
			t.Fatalf("dump is missing %q: %s", name, data)
		}
	}
}
