package model

import "testing"

func TestUser_TagList(t *testing.T) {
	var nilUser *User
	if got := nilUser.TagList(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil tags for nil user, got %#v", got)
	}

	u := &User{}
	if got := u.TagList(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil tags, got %#v", got)
	}

	u.Tags = []string{"blog", "diario"}
	if got := u.TagList(); len(got) != 2 || got[0] != "blog" {
		t.Errorf("unexpected tags: %v", got)
	}
}
