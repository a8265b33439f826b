package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
)

const courseJSON = `{
	"code": "DEE20023",
	"name": "Digital Electronics",
	"deptId": "JKE",
	"clos": {"CLO1": "Explain logic gates", "CLO2": "Build counters"},
	"mqfs": {"DK1": "Knowledge"},
	"mqfMappings": {"CLO1": ["DK1"], "CLO9": ["DK7"]},
	"topics": ["1.0 Number systems", "2.0 Logic gates"],
	"assessmentPolicies": [{"type": "Quiz", "weight": 10}],
	"jsuTemplate": [{"task": "Quiz 1", "clos": ["CLO1"], "totalMark": 20}]
}`

func TestCourseService_CreateAndRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Course()

	created, err := svc.Create(ctx, decode[CourseRequest](t, courseJSON), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Code != "DEE20023" || got.Name != "Digital Electronics" || got.DeptID != "JKE" {
		t.Errorf("Unexpected scalars: %+v", got)
	}
	// mappings to unknown CLO keys are stored verbatim
	wantMappings := map[string][]string{"CLO1": {"DK1"}, "CLO9": {"DK7"}}
	if !reflect.DeepEqual(got.MQFMappings.Data(), wantMappings) {
		t.Errorf("mqfMappings = %v, want %v", got.MQFMappings.Data(), wantMappings)
	}
	if len(got.Topics) != 2 || got.Topics[1] != "2.0 Logic gates" {
		t.Errorf("Unexpected topics: %v", got.Topics)
	}
	if !jsonEqual(t, got.AssessmentPolicies, `[{"type": "Quiz", "weight": 10}]`) {
		t.Errorf("assessmentPolicies not stored verbatim: %s", got.AssessmentPolicies)
	}

	if evs := env.publisher.GetPublishedEvents(); len(evs) != 1 || evs[0].Type != events.CourseCreated {
		t.Errorf("Expected one course.created event, got %+v", evs)
	}
}

func TestCourseService_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Course()

	if _, err := svc.Create(ctx, decode[CourseRequest](t, `{"code": "DEC10013", "name": "Circuits"}`), nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := svc.Create(ctx, decode[CourseRequest](t, `{"code": "DEC10013", "name": "Other"}`), nil)
	if e := fieldError(t, err, "code"); e.Message != "course with this code already exists" {
		t.Errorf("Unexpected message: %s", e.Message)
	}

	other, err := svc.Create(ctx, decode[CourseRequest](t, `{"code": "DEC20013", "name": "Other"}`), nil)
	if err != nil {
		t.Fatalf("Unique code rejected: %v", err)
	}
	t.Run("UpdateToTakenCode", func(t *testing.T) {
		_, err := svc.Update(ctx, other.ID, body(t, `{"code": "DEC10013"}`), true, nil)
		fieldError(t, err, "code")
	})
}

func TestCourseService_Defaults(t *testing.T) {
	env := newTestEnv(t)
	course, err := env.manager.Course().Create(context.Background(), decode[CourseRequest](t, `{"code": "X1", "name": "Bare"}`), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if course.CLOs.Data() == nil || course.Topics == nil || course.JSUTemplate == nil {
		t.Errorf("Expected empty collections, got %+v", course)
	}
	if string(course.AssessmentPolicies) != "[]" {
		t.Errorf("assessmentPolicies = %s, want []", course.AssessmentPolicies)
	}
}

func TestCourseService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Course()

	course, err := svc.Create(ctx, decode[CourseRequest](t, courseJSON), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("PatchKeepsOtherFields", func(t *testing.T) {
		got, err := svc.Update(ctx, course.ID, body(t, `{"name": "Digital Electronics II"}`), true, nil)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		if got.Name != "Digital Electronics II" || got.Code != "DEE20023" || len(got.CLOs.Data()) != 2 {
			t.Errorf("Unexpected course after patch: %+v", got)
		}
	})

	t.Run("PutRequiresRequiredFields", func(t *testing.T) {
		_, err := svc.Update(ctx, course.ID, body(t, `{"name": "Only a name"}`), false, nil)
		fieldError(t, err, "code")
	})

	t.Run("UnknownID", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, body(t, `{"name": "x"}`), true, nil)
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("Expected ErrCourseNotFound, got %v", err)
		}
	})
}

func TestCourseService_DeleteClearsReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course, err := env.manager.Course().Create(ctx, decode[CourseRequest](t, `{"code": "DEE1", "name": "Course"}`), nil)
	if err != nil {
		t.Fatalf("Create course failed: %v", err)
	}
	question, err := env.manager.Question().Create(ctx, decode[QuestionRequest](t,
		`{"courseId": `+itoa(course.ID)+`, "text": "Define a flip-flop."}`), nil)
	if err != nil {
		t.Fatalf("Create question failed: %v", err)
	}
	paper, err := env.manager.Paper().Create(ctx, decode[PaperRequest](t,
		`{"courseId": `+itoa(course.ID)+`, `+paperBlocks+`, "questionIds": [`+itoa(question.ID)+`]}`), nil)
	if err != nil {
		t.Fatalf("Create paper failed: %v", err)
	}

	if err := env.manager.Course().Delete(ctx, course.ID, nil); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	gotPaper, err := env.manager.Paper().GetByID(ctx, paper.ID)
	if err != nil {
		t.Fatalf("Paper not retrievable after course delete: %v", err)
	}
	if gotPaper.CourseID != nil {
		t.Errorf("Paper course = %v, want nil", *gotPaper.CourseID)
	}
	if len(gotPaper.QuestionIDs) != 1 {
		t.Errorf("Paper links changed: %v", gotPaper.QuestionIDs)
	}

	gotQuestion, err := env.manager.Question().GetByID(ctx, question.ID)
	if err != nil {
		t.Fatalf("Question not retrievable: %v", err)
	}
	if gotQuestion.CourseID != nil {
		t.Errorf("Question course = %v, want nil", *gotQuestion.CourseID)
	}

	if _, err := env.manager.Course().GetByID(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Expected ErrCourseNotFound, got %v", err)
	}
	if err := env.manager.Course().Delete(ctx, course.ID, nil); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Second delete: expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Course()

	for _, raw := range []string{
		`{"code": "B2", "name": "b", "deptId": "JKE"}`,
		`{"code": "A1", "name": "a", "deptId": "JKM"}`,
		`{"code": "C3", "name": "c", "deptId": "JKE"}`,
	} {
		if _, err := svc.Create(ctx, decode[CourseRequest](t, raw), nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	dept := "JKE"
	tests := []struct {
		name    string
		filters repositories.CourseFilters
		want    []string
	}{
		{"DefaultByCode", repositories.CourseFilters{}, []string{"A1", "B2", "C3"}},
		{"ByDept", repositories.CourseFilters{DeptID: &dept}, []string{"B2", "C3"}},
		{"OrderingDesc", repositories.CourseFilters{ListOptions: CourseFields.ListOptions("-code", 0, 0)}, []string{"C3", "B2", "A1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := svc.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			var codes []string
			for _, c := range courses {
				codes = append(codes, c.Code)
			}
			if !reflect.DeepEqual(codes, tt.want) {
				t.Errorf("codes = %v, want %v", codes, tt.want)
			}
		})
	}
}
