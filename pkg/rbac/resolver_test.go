package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveUnionsSources(t *testing.T) {
	direct := []string{UserRead, ProfileRead}
	fromPlan := []string{ProfileRead, AnalyticsRead, ""}

	got := Resolve(direct, fromPlan)

	assert.Equal(t, []string{AnalyticsRead, ProfileRead, UserRead}, got.Names())
}

func TestResolveEmpty(t *testing.T) {
	got := Resolve()
	assert.Empty(t, got.Names())
	assert.False(t, Allowed(got, []string{UserRead}))
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		granted  []string
		required []string
		want     bool
	}{
		{"exact match", []string{UserRead}, []string{UserRead}, true},
		{"any of required", []string{UserUpdate}, []string{UserRead, UserUpdate}, true},
		{"missing", []string{ProfileRead}, []string{UserRead}, false},
		{"admin bypass", []string{Admin}, []string{TransactionRefund}, true},
		{"admin bypass without requirements", []string{Admin}, nil, true},
		{"no requirements no admin", []string{UserRead}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(Resolve(tt.granted), tt.required))
		})
	}
}

func TestWithAdminDoesNotMutateInput(t *testing.T) {
	required := make([]string, 1, 4)
	required[0] = UserRead

	got := WithAdmin(required)

	assert.Equal(t, []string{UserRead, Admin}, got)
	assert.Equal(t, []string{UserRead}, required)
	assert.Equal(t, "", required[:2][1], "backing array must stay untouched")

	again := WithAdmin([]string{Admin, UserRead})
	assert.Equal(t, []string{Admin, UserRead}, again)
}

func TestCatalogHasUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog {
		assert.False(t, seen[p.Name], "duplicate permission %s", p.Name)
		assert.NotEmpty(t, p.Description)
		seen[p.Name] = true
	}
	assert.Len(t, Catalog, 53)
}
