package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
)

const structuredQuestionJSON = `{
	"sectionTitle": "SECTION B: STRUCTURED",
	"number": "2",
	"text": "Answer all parts.",
	"answer": "See parts",
	"marks": 15,
	"taxonomy": "C3",
	"type": "structure",
	"topic": "3.0 Counters",
	"cloKeys": ["CLO2"],
	"mqfKeys": ["DK2", "DP1"],
	"subQuestions": [
		{"label": "a", "text": "Draw a 3-bit counter.", "marks": 5, "mediaType": "figure",
		 "subParts": [{"label": "i", "text": "Label each output.", "marks": 2}]},
		{"label": "b", "text": "Fill the state table.", "marks": 10,
		 "tableData": {"headers": ["Q2", "Q1", "Q0"], "rows": [["0", "0", "1"]]}}
	],
	"imageUrl": "/media/fig.png",
	"figureLabel": "Figure 1",
	"mediaType": "table-figure",
	"answerFigureLabel": "Answer 1",
	"tableData": {"headers": ["State", "Next"], "rows": [["S0", "S1"]], "label": "Table 1"},
	"construct": "Knowledge",
	"domain": "Cognitive"
}`

func TestQuestionService_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Question()

	created, err := svc.Create(ctx, decode[QuestionRequest](t, structuredQuestionJSON), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	want, _ := json.Marshal(created)
	have, _ := json.Marshal(got)
	if !jsonEqual(t, have, string(want)) {
		t.Errorf("Round trip mismatch\nwrote %s\nread  %s", want, have)
	}
	if got.SubQuestions[0].SubParts[0].Label != "i" {
		t.Errorf("Nested part lost: %+v", got.SubQuestions)
	}
	if got.TableData.Data().Label != "Table 1" {
		t.Errorf("Table data lost: %+v", got.TableData.Data())
	}
}

func TestQuestionService_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantMarks int
		wantType  models.QuestionType
	}{
		{"Omitted", `{"text": "What is a bit?"}`, 1, models.QuestionMCQ},
		{"ExplicitZeroMarks", `{"text": "Bonus reading", "marks": 0, "type": "essay"}`, 0, models.QuestionEssay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			q, err := env.manager.Question().Create(ctx, decode[QuestionRequest](t, tt.raw), nil)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			got, err := env.manager.Question().GetByID(ctx, q.ID)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			for _, have := range []*models.Question{q, got} {
				if have.Marks != tt.wantMarks {
					t.Errorf("marks = %d, want %d", have.Marks, tt.wantMarks)
				}
				if have.Type != tt.wantType {
					t.Errorf("type = %s, want %s", have.Type, tt.wantType)
				}
			}
			if got.CourseID != nil {
				t.Errorf("courseId = %v, want nil", *got.CourseID)
			}
		})
	}
}

func TestQuestionService_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.manager.Question()

	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"MissingText", `{"marks": 2}`, "text"},
		{"UnknownType", `{"text": "x", "type": "riddle"}`, "type"},
		{"UnknownMediaType", `{"text": "x", "mediaType": "video"}`, "mediaType"},
		{"UnknownCourse", `{"text": "x", "courseId": 404}`, "courseId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), decode[QuestionRequest](t, tt.raw), nil)
			fieldError(t, err, tt.field)
		})
	}
}

func TestQuestionService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Question()

	q, err := svc.Create(ctx, decode[QuestionRequest](t, structuredQuestionJSON), nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("Patch", func(t *testing.T) {
		got, err := svc.Update(ctx, q.ID, body(t, `{"marks": 20, "id": 999}`), true, nil)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		if got.ID != q.ID || got.Marks != 20 || got.Topic != "3.0 Counters" || len(got.SubQuestions) != 2 {
			t.Errorf("Unexpected question after patch: %+v", got)
		}
	})

	t.Run("PatchBadType", func(t *testing.T) {
		_, err := svc.Update(ctx, q.ID, body(t, `{"marks": "many"}`), true, nil)
		fieldError(t, err, "marks")
	})

	t.Run("Put", func(t *testing.T) {
		got, err := svc.Update(ctx, q.ID, body(t, `{"text": "Rewritten", "type": "essay"}`), false, nil)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if got.Text != "Rewritten" || got.Type != models.QuestionEssay {
			t.Errorf("Unexpected question after put: %+v", got)
		}
	})

	paper, err := env.manager.Paper().Create(ctx, decode[PaperRequest](t, `{`+paperBlocks+`, "questionIds": [`+itoa(q.ID)+`]}`), nil)
	if err != nil {
		t.Fatalf("Create paper failed: %v", err)
	}

	if err := svc.Delete(ctx, q.ID, nil); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
	got, err := env.manager.Paper().GetByID(ctx, paper.ID)
	if err != nil {
		t.Fatalf("Paper lookup failed: %v", err)
	}
	if len(got.QuestionIDs) != 0 || len(got.Questions) != 0 {
		t.Errorf("Expected paper links removed, got %v", got.QuestionIDs)
	}

	var types []string
	for _, ev := range env.publisher.GetPublishedEvents() {
		types = append(types, ev.Type)
	}
	if types[len(types)-1] != events.QuestionDeleted {
		t.Errorf("Expected question.deleted last, got %v", types)
	}
}

func TestQuestionService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Question()

	for _, raw := range []string{
		`{"text": "a", "type": "mcq", "topic": "Gates"}`,
		`{"text": "b", "type": "essay", "topic": "Gates"}`,
		`{"text": "c", "type": "mcq", "topic": "Counters"}`,
	} {
		if _, err := svc.Create(ctx, decode[QuestionRequest](t, raw), nil); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	mcq := models.QuestionMCQ
	gates := "Gates"
	tests := []struct {
		name    string
		filters repositories.QuestionFilters
		want    int
	}{
		{"All", repositories.QuestionFilters{}, 3},
		{"ByType", repositories.QuestionFilters{Type: &mcq}, 2},
		{"ByTopicAndType", repositories.QuestionFilters{Type: &mcq, Topic: &gates}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d questions, want %d", len(got), tt.want)
			}
		})
	}
}
