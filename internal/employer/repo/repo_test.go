package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/entity"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/repo"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/database/databasetest"
)

func seeded(t *testing.T) *sqlx.DB {
	t.Helper()
	db := databasetest.Open(t)
	databasetest.Exec(t, db,
		`INSERT INTO city VALUES (1, 1000, 500, 2000, 'Lowtown', 1000, 0.3)`,
		`INSERT INTO city VALUES (2, 1500, 700, 2500, 'Hightown', 2000, 0.5)`,
		`INSERT INTO city VALUES (3, 3000, 900, 2800, 'Nulltown', 10, NULL)`,
		`INSERT INTO location VALUES ('10002', 1, 50), ('10001', 1, 100), ('10003', 1, NULL)`,
		`INSERT INTO location VALUES ('20001', 2, 300)`,
		`INSERT INTO users (user_id, email) VALUES (7, 'hr@acme.test'), (8, 'ops@acme.test')`,
	)
	return db
}

// ── LocationRepo ───────────────────────────────────────────────────────────

func TestSumStudentPopulation(t *testing.T) {
	r := repo.NewLocationRepo(seeded(t))
	ctx := context.Background()

	sum, err := r.SumStudentPopulation(ctx, 1)
	if err != nil {
		t.Fatalf("SumStudentPopulation: %v", err)
	}
	if !sum.Valid || sum.Int64 != 150 {
		t.Errorf("sum = %+v, want 150", sum)
	}

	sum, err = r.SumStudentPopulation(ctx, 3)
	if err != nil {
		t.Fatalf("SumStudentPopulation: %v", err)
	}
	if sum.Valid {
		t.Errorf("city without zips: sum = %d, want invalid", sum.Int64)
	}
}

func TestStudentPopulationByCityName(t *testing.T) {
	r := repo.NewLocationRepo(seeded(t))

	got, err := r.StudentPopulationByCityName(context.Background(), "Lowtown")
	if err != nil {
		t.Fatalf("StudentPopulationByCityName: %v", err)
	}
	want := []string{"10001", "10002", "10003"}
	if len(got) != len(want) {
		t.Fatalf("got %d zips, want %d: %+v", len(got), len(want), got)
	}
	for i, z := range got {
		if z.Zip != want[i] {
			t.Errorf("zips[%d] = %s, want %s", i, z.Zip, want[i])
		}
	}
	if got[0].StudentPopulation == nil || *got[0].StudentPopulation != 100 {
		t.Errorf("10001 population = %v, want 100", got[0].StudentPopulation)
	}
	if got[2].StudentPopulation != nil {
		t.Errorf("10003 population = %d, want nil", *got[2].StudentPopulation)
	}

	got, err = r.StudentPopulationByCityName(context.Background(), "Nulltown")
	if err != nil || len(got) != 0 {
		t.Errorf("Nulltown = (%+v, %v), want empty", got, err)
	}
}

func TestListZips(t *testing.T) {
	r := repo.NewLocationRepo(seeded(t))

	got, err := r.ListZips(context.Background())
	if err != nil {
		t.Fatalf("ListZips: %v", err)
	}
	if len(got) != 4 || got[0] != "10001" || got[3] != "20001" {
		t.Errorf("zips = %v", got)
	}
}

func TestWageHybridByCityName(t *testing.T) {
	r := repo.NewLocationRepo(seeded(t))
	ctx := context.Background()

	wh, err := r.WageHybridByCityName(ctx, "Hightown")
	if err != nil {
		t.Fatalf("WageHybridByCityName: %v", err)
	}
	if wh.City != "Hightown" || wh.AverageWage != 2500 || wh.ProportionHybridWorkers == nil || *wh.ProportionHybridWorkers != 0.5 {
		t.Errorf("wage hybrid = %+v", wh)
	}

	wh, err = r.WageHybridByCityName(ctx, "Nulltown")
	if err != nil || wh.ProportionHybridWorkers != nil {
		t.Errorf("Nulltown = (%+v, %v), want nil proportion", wh, err)
	}

	if _, err := r.WageHybridByCityName(ctx, "Atlantis"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

// ── PostingRepo ────────────────────────────────────────────────────────────

func TestPosting_CreateUpdateDelete(t *testing.T) {
	db := seeded(t)
	r := repo.NewPostingRepo(db)
	ctx := context.Background()
	loc := int64(10001)

	for _, p := range []entity.JobPosting{
		{Title: "Intern", Bio: "Summer co-op", Compensation: 0, LocationID: &loc, UserID: 7},
		{Title: "Analyst", Bio: "Fall co-op", Compensation: 21.5, UserID: 7},
		{Title: "Other", Bio: "Not ours", Compensation: 18, UserID: 8},
	} {
		if err := r.Create(ctx, &p); err != nil {
			t.Fatalf("Create %s: %v", p.Title, err)
		}
	}

	got, err := r.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Intern" || got[1].Title != "Analyst" {
		t.Fatalf("postings = %+v, want [Intern Analyst]", got)
	}
	if got[0].LocationID == nil || *got[0].LocationID != 10001 || got[1].LocationID != nil {
		t.Errorf("location ids = %v, %v", got[0].LocationID, got[1].LocationID)
	}

	summaries, err := r.ListSummariesByUser(ctx, 7)
	if err != nil || len(summaries) != 2 || summaries[1].Compensation != 21.5 {
		t.Errorf("summaries = (%+v, %v)", summaries, err)
	}

	n, err := r.Update(ctx, got[1].ID, []entity.Change{{Column: "title", Value: "Senior Analyst"}, {Column: "compensation", Value: 30.0}})
	if err != nil || n != 1 {
		t.Fatalf("Update = (%d, %v), want 1 row", n, err)
	}
	after, _ := r.ListByUser(ctx, 7)
	if after[1].Title != "Senior Analyst" || after[1].Compensation != 30 || after[1].Bio != "Fall co-op" {
		t.Errorf("after update = %+v", after[1])
	}

	if n, err := r.Update(ctx, 9999, []entity.Change{{Column: "bio", Value: "x"}}); err != nil || n != 0 {
		t.Errorf("Update missing = (%d, %v), want 0 rows", n, err)
	}

	n, err = r.Delete(ctx, got[0].ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = (%d, %v), want 1 row", n, err)
	}
	if n, _ := r.Delete(ctx, got[0].ID); n != 0 {
		t.Errorf("second Delete affected %d rows, want 0", n)
	}
	left, _ := r.ListByUser(ctx, 7)
	if len(left) != 1 {
		t.Errorf("postings left = %d, want 1", len(left))
	}
}
