package model

import "testing"

func TestEntityKind_String(t *testing.T) {
	t.Parallel()

	if got := EntityKindOrganization.String(); got != "Organization" {
		t.Errorf("String() = %q, want %q", got, "Organization")
	}
	if got := EntityKindUnknown.String(); got != "unknown" {
		t.Errorf("String() = %q, want %q", got, "unknown")
	}
}

func TestEntityKind_IsValid(t *testing.T) {
	t.Parallel()

	valid := []EntityKind{
		EntityKindOrganization,
		EntityKindPerson,
		EntityKindService,
		EntityKindProduct,
		EntityKindLocalBusiness,
	}
	for _, k := range valid {
		if !k.IsValid() {
			t.Errorf("IsValid() = false for %q, want true", k)
		}
	}

	if EntityKindUnknown.IsValid() {
		t.Error("IsValid() = true for unknown, want false")
	}
	if EntityKind("Article").IsValid() {
		t.Error("IsValid() = true for Article, want false")
	}
}

func TestParseEntityKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  EntityKind
	}{
		{"Organization", EntityKindOrganization},
		{"Person", EntityKindPerson},
		{"Service", EntityKindService},
		{"Product", EntityKindProduct},
		{"LocalBusiness", EntityKindLocalBusiness},
		{"Article", EntityKindUnknown},
		{"organization", EntityKindUnknown},
		{"", EntityKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseEntityKind(tt.input); got != tt.want {
				t.Errorf("ParseEntityKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPriority_IsValid(t *testing.T) {
	t.Parallel()

	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		if !p.IsValid() {
			t.Errorf("IsValid() = false for %q, want true", p)
		}
	}
	if Priority("urgent").IsValid() {
		t.Error("IsValid() = true for urgent, want false")
	}
}
