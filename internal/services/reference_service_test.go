package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
)

func TestBrandingService_ListSeedsDefaultOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Branding()

	for i := 0; i < 2; i++ {
		items, err := svc.List(ctx, repositories.ListOptions{})
		if err != nil {
			t.Fatalf("List #%d failed: %v", i+1, err)
		}
		if len(items) != 1 {
			t.Fatalf("List #%d returned %d rows, want 1", i+1, len(items))
		}
		if items[0].InstitutionName != models.DefaultInstitutionName || items[0].LogoURL != nil {
			t.Errorf("Unexpected default branding %+v", items[0])
		}
	}
}

func TestBrandingService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Branding()

	logo := "/media/logo.png"
	created, err := svc.Create(ctx, &BrandingRequest{InstitutionName: "Politeknik Kuching", LogoURL: &logo})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("ListDoesNotSeedWhenRowsExist", func(t *testing.T) {
		items, err := svc.List(ctx, repositories.ListOptions{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != created.ID {
			t.Errorf("Expected only the created row, got %d rows", len(items))
		}
	})

	t.Run("PatchLogoToNull", func(t *testing.T) {
		got, err := svc.Update(ctx, created.ID, body(t, `{"logoUrl": null}`), true)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		if got.LogoURL != nil || got.InstitutionName != "Politeknik Kuching" {
			t.Errorf("Unexpected branding %+v", got)
		}
	})

	t.Run("PutMissingName", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, body(t, `{"logoUrl": "/x.png"}`), false)
		fieldError(t, err, "institutionName")
	})

	t.Run("Delete", func(t *testing.T) {
		if err := svc.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrBrandingNotFound) {
			t.Errorf("Expected ErrBrandingNotFound, got %v", err)
		}
		if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrBrandingNotFound) {
			t.Errorf("Expected ErrBrandingNotFound on second delete, got %v", err)
		}
	})
}

func TestSessionService_ActivationArchivesOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Session()

	first, err := svc.Create(ctx, &SessionRequest{Name: "I 2024/2025", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := svc.Create(ctx, &SessionRequest{Name: "II 2024/2025"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(ctx, second.ID, body(t, `{"isActive": true}`), true); err != nil {
		t.Fatalf("Activate via update failed: %v", err)
	}

	got, err := svc.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive || !got.IsArchived {
		t.Errorf("First session should be inactive and archived, got %+v", got)
	}

	active, err := svc.Activate(ctx, first.ID)
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if !active.IsActive || active.IsArchived {
		t.Errorf("Activated session = %+v", active)
	}
	if _, err := svc.Activate(ctx, 999); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestProgrammeService_ListByFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.manager.Programme()

	for _, req := range []ProgrammeRequest{
		{DeptID: "JKE", Name: "Diploma Kejuruteraan Elektronik", Code: "DEP"},
		{DeptID: "JKE", Name: "Diploma Kejuruteraan Elektrik", Code: "DET"},
		{DeptID: "JKM", Name: "Diploma Kejuruteraan Mekanikal", Code: "DKM"},
	} {
		req := req
		if _, err := svc.Create(ctx, &req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	dept := "JKE"
	got, err := svc.ListByFilters(ctx, repositories.ProgrammeFilters{DeptID: &dept})
	if err != nil {
		t.Fatalf("ListByFilters failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 JKE programmes, got %d", len(got))
	}

	t.Run("MissingName", func(t *testing.T) {
		_, err := svc.Create(ctx, &ProgrammeRequest{Code: "X"})
		fieldError(t, err, "name")
	})
}

func TestDepartmentService_UpdateUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.manager.Department().Update(context.Background(), 1, body(t, `{"name": "JKE"}`), true)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("Expected ErrDepartmentNotFound, got %v", err)
	}
}
