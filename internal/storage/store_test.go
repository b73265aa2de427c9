package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"varejo-ai-web/internal/domain"
)

const (
	ownerA = "user-aaaa"
	ownerB = "user-bbbb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCampaign(t *testing.T, s *Store, owner string) domain.Campaign {
	t.Helper()
	store, err := s.CreateStore(context.Background(), domain.Store{
		OwnerUserID: owner,
		Name:        "Loja Teste",
		City:        "Recife",
		State:       "PE",
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	campaign, err := s.CreateCampaign(context.Background(), domain.Campaign{
		StoreID:     store.ID,
		ProductName: "Produto Teste",
		Audience:    "clientes do bairro",
		Objective:   "aumentar vendas",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return campaign
}

// TestStoreRoundTrip ensures stores read back with owner scoping applied.
func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateStore(context.Background(), domain.Store{
		OwnerUserID: ownerA,
		Name:        "Mercearia Azul",
		ToneOfVoice: "acolhedor",
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	got, err := s.GetStore(context.Background(), ownerA, created.ID)
	if err != nil {
		t.Fatalf("get store: %v", err)
	}
	if got.Name != "Mercearia Azul" || got.ToneOfVoice != "acolhedor" {
		t.Fatalf("unexpected store: %+v", got)
	}

	if _, err := s.GetStore(context.Background(), ownerB, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

// TestCampaignRoundTrip ensures campaigns without artifacts read back with
// nil artifact pointers.
func TestCampaignRoundTrip(t *testing.T) {
	s := newTestStore(t)
	campaign := seedCampaign(t, s, ownerA)

	got, err := s.GetCampaign(context.Background(), ownerA, campaign.ID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.Copy != nil || got.CopyGeneratedAt != nil || got.Reels != nil {
		t.Fatalf("expected no artifacts yet, got %+v", got)
	}
	if got.Audience != "clientes do bairro" {
		t.Fatalf("unexpected audience: %q", got.Audience)
	}

	if _, err := s.GetCampaign(context.Background(), ownerB, campaign.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

// TestUpdateCampaignCopyCAS exercises the compare-and-swap write: the second
// non-forced write must match zero rows.
func TestUpdateCampaignCopyCAS(t *testing.T) {
	s := newTestStore(t)
	campaign := seedCampaign(t, s, ownerA)

	artifact := domain.CampaignCopy{Caption: "c1", Text: "t1", CTA: "a1", Hashtags: "#x"}
	rows, err := s.UpdateCampaignCopy(context.Background(), ownerA, campaign.ID, artifact, false, time.Now())
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}

	loser := domain.CampaignCopy{Caption: "c2", Text: "t2", CTA: "a2", Hashtags: "#y"}
	rows, err = s.UpdateCampaignCopy(context.Background(), ownerA, campaign.ID, loser, false, time.Now())
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("non-forced overwrite must match 0 rows, got %d", rows)
	}

	got, err := s.GetCampaign(context.Background(), ownerA, campaign.ID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.Copy == nil || got.Copy.Caption != "c1" {
		t.Fatalf("expected first write to win, got %+v", got.Copy)
	}

	rows, err = s.UpdateCampaignCopy(context.Background(), ownerA, campaign.ID, loser, true, time.Now())
	if err != nil {
		t.Fatalf("forced update: %v", err)
	}
	if rows != 1 {
		t.Fatalf("forced overwrite must match 1 row, got %d", rows)
	}
}

// TestUpdateCampaignCopyOwnership ensures the owner scope is enforced on the
// write path, not just on reads.
func TestUpdateCampaignCopyOwnership(t *testing.T) {
	s := newTestStore(t)
	campaign := seedCampaign(t, s, ownerA)

	artifact := domain.CampaignCopy{Caption: "c", Text: "t", CTA: "a", Hashtags: "#x"}
	rows, err := s.UpdateCampaignCopy(context.Background(), ownerB, campaign.ID, artifact, true, time.Now())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rows != 0 {
		t.Fatalf("other owner must match 0 rows, got %d", rows)
	}
}

// TestUpdateCampaignReelsRoundTrip ensures the JSON-encoded shotlist and
// on-screen text survive the write/read cycle.
func TestUpdateCampaignReelsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	campaign := seedCampaign(t, s, ownerA)

	artifact := domain.ReelsScript{
		Hook:            "olha isso",
		DurationSeconds: 30,
		AudioSuggestion: "pop leve",
		OnScreenText:    []string{"Oferta", "Só hoje"},
		Shotlist: []domain.ShotlistItem{
			{Scene: 1, Camera: "close", Action: "mostrar", Dialogue: "fala 1"},
			{Scene: 2, Camera: "médio", Action: "apontar", Dialogue: "fala 2"},
			{Scene: 3, Camera: "close", Action: "convidar", Dialogue: "fala 3"},
		},
		Script:   "roteiro corrido",
		Caption:  "legenda",
		CTA:      "chama no zap",
		Hashtags: "#promo",
	}
	rows, err := s.UpdateCampaignReels(context.Background(), ownerA, campaign.ID, artifact, false, time.Now())
	if err != nil {
		t.Fatalf("update reels: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row affected, got %d", rows)
	}

	got, err := s.GetCampaign(context.Background(), ownerA, campaign.ID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if got.Reels == nil || got.ReelsGeneratedAt == nil {
		t.Fatal("expected persisted reels artifact")
	}
	if len(got.Reels.Shotlist) != 3 || got.Reels.Shotlist[2].Action != "convidar" {
		t.Fatalf("shotlist did not round-trip: %+v", got.Reels.Shotlist)
	}
	if len(got.Reels.OnScreenText) != 2 {
		t.Fatalf("on_screen_text did not round-trip: %v", got.Reels.OnScreenText)
	}
	// Copy artifact must stay untouched by the reels write.
	if got.Copy != nil {
		t.Fatalf("copy artifact must remain empty, got %+v", got.Copy)
	}
}

func planFixture(days []int) domain.WeeklyPlanAI {
	plan := domain.WeeklyPlanAI{StrategySummary: "estratégia da semana de teste"}
	for i, day := range days {
		contentType := "post"
		if i%2 == 1 {
			contentType = "reels"
		}
		plan.Items = append(plan.Items, domain.PlanItemAI{
			DayOfWeek:       day,
			ContentType:     contentType,
			Theme:           "tema",
			RecommendedTime: "19:30",
			Campaign: domain.CampaignSeed{
				ProductName: "Produto semeado",
				Audience:    "clientes",
				Objective:   "vender",
			},
			Brief: domain.Brief{Angle: "novidade", HookHint: "abra forte", CTAHint: "zap"},
		})
	}
	return plan
}

// TestReplacePlanAndFetch ensures the transactional write seeds campaigns and
// the bundle reads back complete.
func TestReplacePlanAndFetch(t *testing.T) {
	s := newTestStore(t)
	store, err := s.CreateStore(context.Background(), domain.Store{OwnerUserID: ownerA, Name: "Loja Plano"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := s.ReplacePlan(context.Background(), store, "2026-08-31", planFixture([]int{1, 3, 5, 6})); err != nil {
		t.Fatalf("replace plan: %v", err)
	}

	bundle, err := s.FetchPlan(context.Background(), ownerA, store.ID, "2026-08-31")
	if err != nil {
		t.Fatalf("fetch plan: %v", err)
	}
	if bundle == nil {
		t.Fatal("expected stored plan")
	}
	if len(bundle.Items) != 4 || len(bundle.Campaigns) != 4 {
		t.Fatalf("expected 4 items and 4 campaigns, got %d/%d", len(bundle.Items), len(bundle.Campaigns))
	}
	if bundle.Items[0].DayOfWeek != 1 || bundle.Items[3].DayOfWeek != 6 {
		t.Fatalf("items must be ordered by day: %+v", bundle.Items)
	}
	if bundle.Plan.Status != domain.PlanStatusGenerated {
		t.Fatalf("unexpected status: %s", bundle.Plan.Status)
	}
	if bundle.Items[0].Brief.HookHint != "abra forte" {
		t.Fatalf("brief did not round-trip: %+v", bundle.Items[0].Brief)
	}
}

// TestReplacePlanReplacesItems ensures a second write for the same week swaps
// the items instead of appending.
func TestReplacePlanReplacesItems(t *testing.T) {
	s := newTestStore(t)
	store, err := s.CreateStore(context.Background(), domain.Store{OwnerUserID: ownerA, Name: "Loja Plano"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if err := s.ReplacePlan(context.Background(), store, "2026-08-31", planFixture([]int{1, 2, 3, 4})); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := s.ReplacePlan(context.Background(), store, "2026-08-31", planFixture([]int{4, 5, 6, 7})); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	bundle, err := s.FetchPlan(context.Background(), ownerA, store.ID, "2026-08-31")
	if err != nil {
		t.Fatalf("fetch plan: %v", err)
	}
	if len(bundle.Items) != 4 {
		t.Fatalf("expected 4 items after replace, got %d", len(bundle.Items))
	}
	if bundle.Items[0].DayOfWeek != 4 {
		t.Fatalf("expected replaced items, got first day %d", bundle.Items[0].DayOfWeek)
	}
}

// TestFetchPlanScopes ensures plans are invisible across owners and absent
// weeks return nil without error.
func TestFetchPlanScopes(t *testing.T) {
	s := newTestStore(t)
	store, err := s.CreateStore(context.Background(), domain.Store{OwnerUserID: ownerA, Name: "Loja Plano"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := s.ReplacePlan(context.Background(), store, "2026-08-31", planFixture([]int{1, 2, 3, 4})); err != nil {
		t.Fatalf("replace plan: %v", err)
	}

	if bundle, err := s.FetchPlan(context.Background(), ownerB, store.ID, "2026-08-31"); err != nil || bundle != nil {
		t.Fatalf("other owner must see no plan, got %+v / %v", bundle, err)
	}
	if bundle, err := s.FetchPlan(context.Background(), ownerA, store.ID, "2026-09-07"); err != nil || bundle != nil {
		t.Fatalf("other week must be absent, got %+v / %v", bundle, err)
	}
}
