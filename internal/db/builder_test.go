package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_RowSchema(t *testing.T) {
	idx := NewIndex("sheetdex:q1").
		Prefix("sheetdex:q1:row:").
		Text("__content").
		Numeric("row_index").
		VectorHNSW("vector", 1024, DistanceCosine, 16, 200).
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "sheetdex:q1" {
		t.Errorf("name = %q, want sheetdex:q1", idx.Name)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field[0] = %+v, want TEXT", idx.Fields[0])
	}
	if idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want NUMERIC", idx.Fields[1])
	}

	f := idx.Fields[2]
	if f.VectorDim != 1024 {
		t.Errorf("dim = %d, want 1024", f.VectorDim)
	}
	if f.VectorDistance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.VectorDistance)
	}
	if f.VectorM != 16 || f.VectorEFConstruct != 200 {
		t.Errorf("M/EF = %d/%d, want 16/200", f.VectorM, f.VectorEFConstruct)
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Numeric("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Numeric("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").VectorHNSW("v", 0, DistanceCosine, 0, 0).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Numeric("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate field",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Numeric("x").Text("x").Build()
			},
			wantErr: "duplicate field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("my-idx").
		Prefix("row:").
		Text("__content").
		VectorHNSW("vector", 512, DistanceCosine, 0, 0).
		MustBuild()

	want := "FT.CREATE my-idx ON HASH PREFIX row: SCHEMA __content TEXT vector VECTOR HNSW"
	if s := idx.String(); s != want {
		t.Errorf("got %q, want %q", s, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for s, want := range map[string]bool{
		"sheetdex:default": true,
		"q1-2024_v2":       true,
		"":                 false,
		"has space":        false,
		"dot.name":         false,
	} {
		if got := IsValidIdentifier(s); got != want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
