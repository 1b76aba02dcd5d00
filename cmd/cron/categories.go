package main

import (
	"context"
	"log"
	"time"

	"givehub/internal/datastore"
	"givehub/internal/pkg/caching"
	"givehub/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const CRONJOB_TIME_TOP_CATEGORIES = "@every 5m"

// TopCategoriesJob precomputes the popularity-fallback categories so a feed
// run with no personal signals never pays for the GROUP BY.
type TopCategoriesJob struct {
	Db    *bun.DB
	Cache caching.Cache
}

func NewTopCategoriesJob(db *bun.DB, cache caching.Cache) *TopCategoriesJob {
	return &TopCategoriesJob{Db: db, Cache: cache}
}

func (j *TopCategoriesJob) Start(cronRunner *cron.Cron) {
	_, err := cronRunner.AddFunc(CRONJOB_TIME_TOP_CATEGORIES, j.runScheduledTask)
	log.Println("Top categories cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", CRONJOB_TIME_TOP_CATEGORIES, err)
	j.runScheduledTask()
}

func (j *TopCategoriesJob) runScheduledTask() {
	ctx := context.Background()

	counts, err := datastore.GetTopCategories(ctx, j.Db, services.FEED_FALLBACK_CATEGORIES)
	if err != nil {
		log.Println(err)
		return
	}

	err = j.Cache.Set(ctx, services.DBKeyTopCategories(), counts, services.CACHE_TTL_15_MINS)
	if err != nil {
		log.Println(err)
	}
}
