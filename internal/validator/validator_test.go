package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
)

func hasField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateQuestion(t *testing.T) {
	bv := NewBusinessValidator()
	bad := models.MediaType("video")
	longNumber := strings.Repeat("9", 11)

	tests := []struct {
		name  string
		req   QuestionRequest
		field string
	}{
		{"MissingText", QuestionRequest{}, "text"},
		{"UnknownType", QuestionRequest{Text: "x", Type: "quiz"}, "type"},
		{"UnknownMediaType", QuestionRequest{Text: "x", MediaType: &bad}, "mediaType"},
		{"NumberTooLong", QuestionRequest{Text: "x", Number: longNumber}, "number"},
		{"NestedPartMediaType", QuestionRequest{Text: "x", SubQuestions: []models.QuestionPart{
			{Text: "a"},
			{Text: "b", SubParts: []models.QuestionPart{{Text: "c", MediaType: "video"}}},
		}}, "subQuestions[1].subParts[0].mediaType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateQuestion(&tt.req)
			if !hasField(errs, tt.field) {
				t.Errorf("Expected an error on %s, got %+v", tt.field, errs)
			}
		})
	}

	t.Run("Valid", func(t *testing.T) {
		req := QuestionRequest{Text: "Define a latch.", Type: models.QuestionEssay}
		if errs := bv.ValidateQuestion(&req); errs != nil {
			t.Errorf("Expected no errors, got %+v", errs)
		}
	})
}

func TestValidatePaper_RequiresBlocks(t *testing.T) {
	bv := NewBusinessValidator()
	errs := bv.ValidatePaper(&PaperRequest{Status: "published"})
	for _, field := range []string{"header", "studentInfo", "footer", "status"} {
		if !hasField(errs, field) {
			t.Errorf("Expected an error on %s, got %+v", field, errs)
		}
	}
}

func TestValidateRegister_Messages(t *testing.T) {
	bv := NewBusinessValidator()
	errs := bv.ValidateRegister(&RegisterRequest{Username: "ab", Password: "123"})
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %+v", errs)
	}
	for _, e := range errs {
		if e.Rule != "min" || !strings.HasPrefix(e.Message, "must be at least") {
			t.Errorf("Unexpected error %+v", e)
		}
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		raw     string
		want    ID
		wantErr bool
	}{
		{`7`, 7, false},
		{`"12"`, 12, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`0`, 0, true},
		{`-3`, 0, true},
		{`"abc"`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.raw), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.raw, id, tt.want)
			}
		})
	}
}

func TestLinkedQuestionIDs(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        []uint
		wantDropped int
		provided    bool
	}{
		{"Absent", `{}`, nil, 0, false},
		{"IDs", `{"questionIds": [3, 1, 3]}`, []uint{3, 1}, 0, true},
		{"EmptyIDs", `{"questionIds": []}`, []uint{}, 0, true},
		{"NestedWins", `{"questionIds": [9], "questions": [{"id": 2}, {"id": "5"}]}`, []uint{2, 5}, 0, true},
		{"NestedDropsUnusable", `{"questions": [{"id": 4}, {"text": "x"}, 7, {"id": "bad"}]}`, []uint{4}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req PaperRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Invalid body: %v", err)
			}
			got, dropped, provided := req.LinkedQuestionIDs()
			if provided != tt.provided || dropped != tt.wantDropped {
				t.Fatalf("provided=%v dropped=%d, want provided=%v dropped=%d", provided, dropped, tt.provided, tt.wantDropped)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestFromDecodeError(t *testing.T) {
	var req QuestionRequest
	err := json.Unmarshal([]byte(`{"text": 5}`), &req)
	errs := FromDecodeError(err)
	if len(errs) != 1 || errs[0].Field != "text" || errs[0].Rule != "type" {
		t.Errorf("Unexpected decode errors %+v", errs)
	}

	err = json.Unmarshal([]byte(`{"courseId": "x"}`), &req)
	if errs := FromDecodeError(err); errs[0].Rule != "id" {
		t.Errorf("Expected id rule, got %+v", errs)
	}
}
