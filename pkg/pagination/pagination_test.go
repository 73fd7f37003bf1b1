package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeClampsInput(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative", -3, -1, 1, 20},
		{"capped", 2, 500, 2, 100},
		{"passthrough", 3, 25, 3, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.page, tc.limit)
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("Normalize(%d, %d) = %+v", tc.page, tc.limit, got)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Normalize(3, 20)
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?page=2&limit=50", nil)
	p := FromRequest(req)
	if p.Page != 2 || p.Limit != 50 {
		t.Fatalf("unexpected params %+v", p)
	}

	req = httptest.NewRequest("GET", "/products?page=abc&limit=", nil)
	p = FromRequest(req)
	if p.Page != 1 || p.Limit != 20 {
		t.Fatalf("expected defaults for garbage input, got %+v", p)
	}
}

func TestNewPageCeilDivision(t *testing.T) {
	data := []string{"a", "b"}
	page := NewPage(data, 5, Normalize(2, 2))
	if page.Count != 5 {
		t.Fatalf("expected count 5, got %d", page.Count)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Data))
	}
}

func TestNewPageEmpty(t *testing.T) {
	page := NewPage([]int(nil), 0, Normalize(1, 20))
	if page.Count != 0 || page.TotalPages != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
	if page.Data == nil {
		t.Fatal("expected non-nil data slice for empty page")
	}
}
