package nav

import "testing"

func TestIsActive(t *testing.T) {
	cases := []struct {
		item, current string
		want          bool
	}{
		{"/", "/", true},
		{"/", "/works", false},
		{"/works", "/works", true},
		{"/works", "/works/shoes", true},
		{"/works", "/workshop", false},
		{"/about", "/works", false},
	}
	for _, c := range cases {
		if got := IsActive(c.item, c.current); got != c.want {
			t.Errorf("IsActive(%q, %q) = %v, want %v", c.item, c.current, got, c.want)
		}
	}
}

func TestBuildMarksActive(t *testing.T) {
	items := Build("/works/shoes")
	if len(items) != len(Main) {
		t.Fatalf("expected %d items, got %d", len(Main), len(items))
	}
	for _, it := range items {
		want := it.Href == "/works"
		if it.Active != want {
			t.Errorf("%s active = %v, want %v", it.Href, it.Active, want)
		}
	}
	if items[2].Index != 2 {
		t.Errorf("index not carried: %+v", items[2])
	}

	home := Build("")
	if !home[0].Active {
		t.Errorf("home should be active on empty path")
	}
}

func TestBreadcrumbs(t *testing.T) {
	got := Breadcrumbs("/project/skin-routine")
	if len(got) != 3 {
		t.Fatalf("expected 3 crumbs, got %+v", got)
	}
	if got[1].Href != "/works" || got[1].LabelKey != "nav.works" {
		t.Errorf("project should sit under works: %+v", got[1])
	}
	if got[2].Label != "Skin routine" || !got[2].Active || got[2].Href != "/project/skin-routine" {
		t.Errorf("unexpected leaf crumb: %+v", got[2])
	}

	about := Breadcrumbs("/about")
	if len(about) != 2 || about[1].LabelKey != "nav.about" || !about[1].Active {
		t.Errorf("unexpected about crumbs: %+v", about)
	}

	if root := Breadcrumbs("/"); len(root) != 1 || !root[0].Active {
		t.Errorf("unexpected root crumbs: %+v", root)
	}
}
