package services

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
)

func TestResourceFields_ColumnsExist(t *testing.T) {
	tests := []struct {
		name   string
		fields ResourceFields
		model  interface{}
	}{
		{"Branding", BrandingFields, &models.Branding{}},
		{"Course", CourseFields, &models.Course{}},
		{"Question", QuestionFields, &models.Question{}},
		{"Paper", PaperFields, &models.AssessmentPaper{}},
		{"Department", DepartmentFields, &models.Department{}},
		{"Programme", ProgrammeFields, &models.Programme{}},
		{"Session", SessionFields, &models.AcademicSession{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Parse(tt.model, &sync.Map{}, schema.NamingStrategy{})
			if err != nil {
				t.Fatalf("Failed to parse schema: %v", err)
			}
			for _, f := range tt.fields {
				if f.Column == "" {
					continue
				}
				if s.LookUpField(f.Column) == nil {
					t.Errorf("%s maps to unknown column %s", f.External, f.Column)
				}
			}
		})
	}
}

func TestResourceFields_ListOptions(t *testing.T) {
	tests := []struct {
		ordering  string
		wantBy    string
		wantOrder string
	}{
		{"-createdAt", "created_at", "desc"},
		{"status", "status", "asc"},
		{"header", "", ""},
		{"nope", "", ""},
		{"-status,id", "status", "desc"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ordering, func(t *testing.T) {
			opts := PaperFields.ListOptions(tt.ordering, 10, 5)
			if opts.SortBy != tt.wantBy || opts.SortOrder != tt.wantOrder {
				t.Errorf("ListOptions(%q) = %s %s, want %s %s", tt.ordering, opts.SortBy, opts.SortOrder, tt.wantBy, tt.wantOrder)
			}
			if opts.Limit != 10 || opts.Offset != 5 {
				t.Errorf("Expected limit/offset to pass through, got %d/%d", opts.Limit, opts.Offset)
			}
		})
	}
}

func TestMergeBody_IgnoresReadOnlyKeys(t *testing.T) {
	base := &models.Department{ID: 3, Name: "JKE", HeadOfDept: "Dr. Aminah"}
	merged, err := mergeBody(base, body(t, `{"id": 99, "name": "JKM"}`), DepartmentFields)
	if err != nil {
		t.Fatalf("mergeBody failed: %v", err)
	}
	if string(merged["id"]) != "3" {
		t.Errorf("Expected id to stay 3, got %s", merged["id"])
	}
	if string(merged["name"]) != `"JKM"` || string(merged["headOfDept"]) != `"Dr. Aminah"` {
		t.Errorf("Unexpected merge result %v", merged)
	}
}
