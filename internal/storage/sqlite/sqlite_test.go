package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "ferramentas-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func findTool(tools []*models.Tool, id string) *models.Tool {
	for _, tool := range tools {
		if tool.ID == id {
			return tool
		}
	}
	return nil
}

func TestToolStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("AddTool generates ID and keeps tag order", func(t *testing.T) {
		tool := &models.Tool{Name: "Furadeira", AssetTags: []string{"P003", "P001", "P002"}}
		if err := store.AddTool(ctx, tool); err != nil {
			t.Fatalf("AddTool failed: %v", err)
		}
		if tool.ID == "" {
			t.Error("Expected tool ID to be generated")
		}
		if tool.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		tools, err := store.ListTools(ctx)
		if err != nil {
			t.Fatalf("ListTools failed: %v", err)
		}
		got := findTool(tools, tool.ID)
		if got == nil {
			t.Fatal("Expected tool in list")
		}
		want := []string{"P003", "P001", "P002"}
		if len(got.AssetTags) != len(want) {
			t.Fatalf("AssetTags = %v, want %v", got.AssetTags, want)
		}
		for i := range want {
			if got.AssetTags[i] != want[i] {
				t.Errorf("AssetTags[%d] = %s, want %s", i, got.AssetTags[i], want[i])
			}
		}
	})

	t.Run("tools may share a name", func(t *testing.T) {
		first := &models.Tool{Name: "Serra", AssetTags: []string{"S1"}}
		second := &models.Tool{Name: "Serra", AssetTags: []string{"S2"}}
		if err := store.AddTools(ctx, []*models.Tool{first, second}); err != nil {
			t.Fatalf("AddTools failed: %v", err)
		}
		if first.ID == second.ID {
			t.Error("Expected distinct IDs for tools sharing a name")
		}
	})

	t.Run("asset tag cannot be held by two tools", func(t *testing.T) {
		err := store.AddTool(ctx, &models.Tool{Name: "Martelo", AssetTags: []string{"P001"}})
		if !errors.Is(err, storage.ErrDuplicateTag) {
			t.Errorf("Expected ErrDuplicateTag, got %v", err)
		}
	})

	t.Run("AddTools is atomic", func(t *testing.T) {
		before, _ := store.ListTools(ctx)
		err := store.AddTools(ctx, []*models.Tool{
			{Name: "Lixadeira", AssetTags: []string{"L1"}},
			{Name: "Esmeril", AssetTags: []string{"S1"}}, // already held by Serra
		})
		if !errors.Is(err, storage.ErrDuplicateTag) {
			t.Fatalf("Expected ErrDuplicateTag, got %v", err)
		}
		after, _ := store.ListTools(ctx)
		if len(after) != len(before) {
			t.Errorf("Expected no tools added, had %d now %d", len(before), len(after))
		}
	})

	t.Run("RemoveAssetTag and RemoveTool", func(t *testing.T) {
		tool := &models.Tool{Name: "Trena", AssetTags: []string{"T1", "T2"}}
		if err := store.AddTool(ctx, tool); err != nil {
			t.Fatalf("AddTool failed: %v", err)
		}

		if err := store.RemoveAssetTag(ctx, tool.ID, "T1"); err != nil {
			t.Fatalf("RemoveAssetTag failed: %v", err)
		}
		tools, _ := store.ListTools(ctx)
		if got := findTool(tools, tool.ID); got == nil || got.Available() != 1 {
			t.Errorf("Expected 1 tag left, got %+v", got)
		}

		if err := store.RemoveAssetTag(ctx, tool.ID, "T1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for removed tag, got %v", err)
		}

		if err := store.RemoveTool(ctx, tool.ID); err != nil {
			t.Fatalf("RemoveTool failed: %v", err)
		}
		tools, _ = store.ListTools(ctx)
		if findTool(tools, tool.ID) != nil {
			t.Error("Expected tool to be removed")
		}
		if err := store.RemoveTool(ctx, tool.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateTool replaces tags", func(t *testing.T) {
		tool := &models.Tool{Name: "Alicate", AssetTags: []string{"A1"}}
		if err := store.AddTool(ctx, tool); err != nil {
			t.Fatalf("AddTool failed: %v", err)
		}
		tool.Description = "isolado"
		tool.AssetTags = []string{"A2", "A3"}
		if err := store.UpdateTool(ctx, tool); err != nil {
			t.Fatalf("UpdateTool failed: %v", err)
		}
		tools, _ := store.ListTools(ctx)
		got := findTool(tools, tool.ID)
		if got.Description != "isolado" || len(got.AssetTags) != 2 || got.AssetTags[0] != "A2" {
			t.Errorf("Unexpected tool after update: %+v", got)
		}
	})
}

func TestRequesterStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddRequester(ctx, &models.Requester{Name: "José Carlos"}); err != nil {
		t.Fatalf("AddRequester failed: %v", err)
	}

	t.Run("duplicate ignoring case is rejected", func(t *testing.T) {
		err := store.AddRequester(ctx, &models.Requester{Name: "JOSÉ CARLOS"})
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("list keeps original spelling", func(t *testing.T) {
		requesters, err := store.ListRequesters(ctx)
		if err != nil {
			t.Fatalf("ListRequesters failed: %v", err)
		}
		if len(requesters) != 1 || requesters[0].Name != "José Carlos" {
			t.Errorf("Unexpected requesters: %+v", requesters)
		}
	})
}

func TestProjectStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	projects := []*models.Project{{Name: "Obra Norte"}, {Name: "Manutenção"}}
	if err := store.AddProjects(ctx, projects); err != nil {
		t.Fatalf("AddProjects failed: %v", err)
	}

	err := store.AddProjects(ctx, []*models.Project{{Name: "Galpão"}, {Name: "obra norte"}})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}

	list, err := store.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 projects after rejected batch, got %d", len(list))
	}

	if err := store.RemoveProject(ctx, projects[0].ID); err != nil {
		t.Fatalf("RemoveProject failed: %v", err)
	}
	if err := store.RemoveProject(ctx, projects[0].ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMovementStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tool := &models.Tool{Name: "Furadeira", AssetTags: []string{"P001", "P002"}}
	if err := store.AddTool(ctx, tool); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	checkedOut := time.Date(2025, 10, 28, 8, 30, 0, 0, time.UTC)

	t.Run("RecordMovement removes the asset tag from stock", func(t *testing.T) {
		m := &models.Movement{
			Requester:         "Ana",
			Tool:              "Furadeira",
			AssetTag:          "P001",
			Kind:              models.MovementCheckout,
			CheckedOutAt:      checkedOut,
			ExpectedReturnAt:  time.Date(2025, 10, 28, 17, 0, 0, 0, time.UTC),
			SameDayReturn:     true,
			HasExpectedReturn: true,
		}
		if err := store.RecordMovement(ctx, m); err != nil {
			t.Fatalf("RecordMovement failed: %v", err)
		}

		got, err := store.GetMovement(ctx, m.ID)
		if err != nil {
			t.Fatalf("GetMovement failed: %v", err)
		}
		if !got.CheckedOutAt.Equal(checkedOut) {
			t.Errorf("CheckedOutAt = %v, want %v", got.CheckedOutAt, checkedOut)
		}
		if !got.SameDayReturn || !got.HasExpectedReturn || got.Returned() {
			t.Errorf("Unexpected flags: %+v", got)
		}

		tools, _ := store.ListTools(ctx)
		if findTool(tools, tool.ID).HasTag("P001") {
			t.Error("Expected P001 to leave stock")
		}
	})

	t.Run("unavailable tag rolls back the movement", func(t *testing.T) {
		before, _ := store.ListMovements(ctx)
		err := store.RecordMovement(ctx, &models.Movement{
			Requester: "Bruno", Tool: "Furadeira", AssetTag: "P001", Kind: models.MovementCheckout,
		})
		if !errors.Is(err, storage.ErrTagUnavailable) {
			t.Fatalf("Expected ErrTagUnavailable, got %v", err)
		}
		after, _ := store.ListMovements(ctx)
		if len(after) != len(before) {
			t.Errorf("Expected no movement written, had %d now %d", len(before), len(after))
		}
	})

	t.Run("RecordReturn restores the tag", func(t *testing.T) {
		movements, _ := store.ListMovements(ctx)
		returnedAt := checkedOut.Add(8 * time.Hour)

		m, err := store.RecordReturn(ctx, movements[0].ID, returnedAt)
		if err != nil {
			t.Fatalf("RecordReturn failed: %v", err)
		}
		if !m.ReturnedAt.Equal(returnedAt) {
			t.Errorf("ReturnedAt = %v, want %v", m.ReturnedAt, returnedAt)
		}

		tools, _ := store.ListTools(ctx)
		if !findTool(tools, tool.ID).HasTag("P001") {
			t.Error("Expected P001 back in stock")
		}

		if _, err := store.RecordReturn(ctx, m.ID, returnedAt); !errors.Is(err, storage.ErrNotReturnable) {
			t.Errorf("Expected ErrNotReturnable on second return, got %v", err)
		}
	})

	t.Run("RecordReturn recreates a deleted tool", func(t *testing.T) {
		m := &models.Movement{
			Requester: "Ana", Tool: "Furadeira", AssetTag: "P002",
			Kind: models.MovementCheckout, HasExpectedReturn: true,
		}
		if err := store.RecordMovement(ctx, m); err != nil {
			t.Fatalf("RecordMovement failed: %v", err)
		}
		if err := store.RemoveTool(ctx, tool.ID); err != nil {
			t.Fatalf("RemoveTool failed: %v", err)
		}

		if _, err := store.RecordReturn(ctx, m.ID, time.Now()); err != nil {
			t.Fatalf("RecordReturn failed: %v", err)
		}
		tools, _ := store.ListTools(ctx)
		if len(tools) != 1 || tools[0].Name != "Furadeira" || !tools[0].HasTag("P002") {
			t.Errorf("Expected recreated Furadeira holding P002, got %+v", tools)
		}
	})

	t.Run("GetMovement returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetMovement(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestAdminUserStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetAdminUserByUsername(ctx, "admin")
	if err != nil || user != nil {
		t.Fatalf("Expected nil user, got %+v, %v", user, err)
	}

	if err := store.CreateAdminUser(ctx, models.NewAdminUser("admin", "hash-1")); err != nil {
		t.Fatalf("CreateAdminUser failed: %v", err)
	}
	if err := store.UpdateAdminPassword(ctx, "admin", "hash-2"); err != nil {
		t.Fatalf("UpdateAdminPassword failed: %v", err)
	}

	user, err = store.GetAdminUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetAdminUserByUsername failed: %v", err)
	}
	if user.PasswordHash != "hash-2" {
		t.Errorf("PasswordHash = %s, want hash-2", user.PasswordHash)
	}
}
