package task

import (
	"errors"
	"testing"
)

func TestPaginationValidate_Defaults(t *testing.T) {
	p := Pagination{}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if p.Page != 1 {
		t.Errorf("Page = %d, want 1", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", p.PageSize, DefaultPageSize)
	}
}

func TestPaginationValidate_Bounds(t *testing.T) {
	cases := []struct {
		name string
		p    Pagination
		ok   bool
	}{
		{"negative page", Pagination{Page: -1, PageSize: 10}, false},
		{"zero page defaults", Pagination{Page: 0, PageSize: 10}, true},
		{"negative size", Pagination{Page: 1, PageSize: -5}, false},
		{"max size", Pagination{Page: 1, PageSize: MaxPageSize}, true},
		{"over max size", Pagination{Page: 1, PageSize: MaxPageSize + 1}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
		})
	}
}
