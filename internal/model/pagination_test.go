package model

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int64
		hasNext    bool
		hasPrev    bool
	}{
		{"empty", 1, 20, 0, 1, false, false},
		{"single page exact", 1, 20, 20, 1, false, false},
		{"first of many", 1, 20, 45, 3, true, false},
		{"middle", 2, 20, 45, 3, true, true},
		{"last", 3, 20, 45, 3, false, true},
		{"past the end", 5, 20, 45, 3, false, true},
		{"limit one", 7, 1, 7, 7, false, true},
	}

	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.TotalPages != tc.totalPages {
			t.Fatalf("%s: totalPages = %d, want %d", tc.name, p.TotalPages, tc.totalPages)
		}
		if p.HasNext != tc.hasNext {
			t.Fatalf("%s: hasNext = %v, want %v", tc.name, p.HasNext, tc.hasNext)
		}
		if p.HasPrev != tc.hasPrev {
			t.Fatalf("%s: hasPrev = %v, want %v", tc.name, p.HasPrev, tc.hasPrev)
		}
		wantNext := int64(tc.page)*int64(tc.limit) < tc.total
		if p.HasNext != wantNext {
			t.Fatalf("%s: hasNext invariant violated", tc.name)
		}
	}
}

func TestClampPage(t *testing.T) {
	page, limit := ClampPage(0, 0, 20, 100)
	if page != 1 || limit != 20 {
		t.Fatalf("defaults: got page=%d limit=%d", page, limit)
	}

	page, limit = ClampPage(3, 500, 20, 100)
	if page != 3 || limit != 100 {
		t.Fatalf("clamp: got page=%d limit=%d", page, limit)
	}

	page, limit = ClampPage(-2, 50, 20, 100)
	if page != 1 || limit != 50 {
		t.Fatalf("negative page: got page=%d limit=%d", page, limit)
	}
}
