package main

import (
	"context"
	"log"
	"time"

	"givehub/internal/datastore"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const CRONJOB_TIME_GRANT_EXPIRY = "@every 1h"

type GrantExpiryJob struct {
	Db *bun.DB
}

func NewGrantExpiryJob(db *bun.DB) *GrantExpiryJob {
	return &GrantExpiryJob{Db: db}
}

func (j *GrantExpiryJob) Start(cronRunner *cron.Cron) {
	_, err := cronRunner.AddFunc(CRONJOB_TIME_GRANT_EXPIRY, j.runScheduledTask)
	log.Println("Grant expiry cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", CRONJOB_TIME_GRANT_EXPIRY, err)
	j.runScheduledTask()
}

func (j *GrantExpiryJob) runScheduledTask() {
	ctx := context.Background()
	deactivated, err := datastore.DeactivateExpiredGrants(ctx, j.Db)
	if err != nil {
		log.Println(err)
		return
	}

	if deactivated > 0 {
		log.Println("Deactivated expired grants:", deactivated)
	}
}
