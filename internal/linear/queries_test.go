package linear

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		identifier string
		want       IdentifierKind
	}{
		{"ENG-123", KindKey},
		{"a-b", KindKey},
		{"-", KindKey},
		{"9c1f0a2e-3b4d-4e5f-8a9b-0c1d2e3f4a5b", KindKey},
		{"9c1f0a2e3b4d", KindID},
		{"ENG123", KindID},
		{"", KindID},
	}

	for _, tt := range tests {
		if got := Classify(tt.identifier); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}

func TestBuildQuery_SharedFieldSet(t *testing.T) {
	key := BuildQuery(KindKey, "ENG-1")
	id := BuildQuery(KindID, "abc")

	if key.OperationName == id.OperationName {
		t.Fatalf("variants must be distinguishable, both %q", key.OperationName)
	}

	keyBody := key.Query[strings.Index(key.Query, "issue(id: $id)"):]
	idBody := id.Query[strings.Index(id.Query, "issue(id: $id)"):]
	if keyBody != idBody {
		t.Errorf("variants request different fields:\n%s\n---\n%s", keyBody, idBody)
	}

	for _, field := range []string{"identifier", "title", "description", "children", "comments"} {
		if !strings.Contains(key.Query, field) {
			t.Errorf("query missing field %q", field)
		}
	}
}

func TestIdentifierKindString(t *testing.T) {
	if KindKey.String() != "key" || KindID.String() != "id" {
		t.Errorf("String() = %q, %q", KindKey.String(), KindID.String())
	}
}
