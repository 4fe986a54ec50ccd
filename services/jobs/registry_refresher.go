package jobs

import (
	"context"
	"log"
	"time"

	"lexsync_app_go/services"

	"github.com/robfig/cron/v3"
)

// StartScheduler schedules the nightly registry refresh for every case
// whose bootstrap latch is set. Runs at midnight Bogota time.
func StartScheduler(engine *services.CaseSyncEngine, store *services.MCDStore, cronExpr string) *cron.Cron {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cronExpr, func() {
		log.Println("[CRON] Running nightly registry refresh...")
		RefreshAllBootstrappedCases(context.Background(), engine, store)
	})
	if err != nil {
		log.Fatalf("[CRON] Failed to schedule registry refresh: %v", err)
	}

	c.Start()
	log.Println("[CRON] Scheduler started.")
	return c
}

// RefreshAllBootstrappedCases iterates every linked case and pulls new
// actuaciones. Failures are logged per case and never abort the run.
func RefreshAllBootstrappedCases(ctx context.Context, engine *services.CaseSyncEngine, store *services.MCDStore) {
	docs, err := store.ListBootstrapped()
	if err != nil {
		log.Printf("[JOB] Error fetching bootstrapped cases: %v", err)
		return
	}

	log.Printf("[JOB] Found %d linked cases to refresh", len(docs))

	for _, doc := range docs {
		if ctx.Err() != nil {
			log.Printf("[JOB] Refresh run cancelled: %v", ctx.Err())
			return
		}

		imported, err := engine.RefreshActuaciones(ctx, doc.UserID, doc.CaseID)
		if err != nil {
			log.Printf("[JOB] Error refreshing case %s (radicado %s): %v", doc.CaseID, doc.RadicadoCPNU, err)
		} else if imported > 0 {
			log.Printf("[JOB] Imported %d new actuaciones for case %s", imported, doc.CaseID)
		}

		time.Sleep(1 * time.Second) // Be polite
	}
}
