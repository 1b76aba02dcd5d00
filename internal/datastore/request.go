package datastore

import (
	"context"
	"time"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableDonationRequest(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.DonationRequest)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DonationRequest)(nil)).Index("index_donation_request_category").IfNotExists().Column("category").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.DonationRequest)(nil)).Index("index_donation_request_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateDonationRequest(ctx context.Context, db *bun.DB, request *models.DonationRequest) error {
	_, err := db.NewInsert().Model(request).Exec(ctx)
	return err
}

func GetDonationRequest(ctx context.Context, db bun.IDB, id int64) (*models.DonationRequest, error) {
	var request models.DonationRequest
	err := db.NewSelect().Model(&request).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func openRequests(q *bun.SelectQuery, now time.Time) *bun.SelectQuery {
	return q.
		Where("status = ?", models.RequestStatusOpen).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("expires_at IS NULL").WhereOr("expires_at > ?", now)
		})
}

func GetOpenRequests(ctx context.Context, db *bun.DB, limit, offset int) ([]models.DonationRequest, error) {
	var requests []models.DonationRequest
	q := db.NewSelect().Model(&requests)
	err := openRequests(q, time.Now()).
		OrderExpr("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// popularityOrder ranks by baseline relevance, supporter count, urgency and
// recency, in that tie-break order. The trailing id keeps rows that tie on
// every criterion in one stable order across reads.
func popularityOrder(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		OrderExpr("baseline_score DESC").
		OrderExpr("supporter_count DESC").
		OrderExpr("CASE urgency WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END DESC").
		OrderExpr("created_at DESC").
		OrderExpr("id DESC")
}

// GetGuestFeedRequests serves the non-personalized feed.
func GetGuestFeedRequests(ctx context.Context, db *bun.DB, limit int) ([]models.DonationRequest, error) {
	var requests []models.DonationRequest
	q := db.NewSelect().Model(&requests)
	err := popularityOrder(openRequests(q, time.Now())).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// GetCandidateRequests pulls the scoring pool for one user: open, unexpired,
// not already favorited, matching the signal categories or favorited by
// similar users.
func GetCandidateRequests(ctx context.Context, db *bun.DB, userID int64, categories []string, similarIDs []int64, limit int) ([]models.DonationRequest, error) {
	if len(categories) == 0 && len(similarIDs) == 0 {
		return nil, nil
	}

	var requests []models.DonationRequest
	q := db.NewSelect().Model(&requests)
	q = openRequests(q, time.Now()).
		Where("organizer_id != ?", userID).
		Where("id NOT IN (SELECT request_id FROM favorite WHERE user_id = ?)", userID).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			if len(categories) > 0 {
				q = q.WhereOr("category IN (?)", bun.In(categories))
			}
			if len(similarIDs) > 0 {
				q = q.WhereOr("id IN (?)", bun.In(similarIDs))
			}
			return q
		})

	err := q.OrderExpr("id ASC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// GetPopularByCategories serves the fallback feed, guest ordering restricted
// to the given categories.
func GetPopularByCategories(ctx context.Context, db *bun.DB, categories []string, limit int) ([]models.DonationRequest, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var requests []models.DonationRequest
	q := db.NewSelect().Model(&requests).Where("category IN (?)", bun.In(categories))
	err := popularityOrder(openRequests(q, time.Now())).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// GetTopCategories returns the categories carrying the most open requests.
func GetTopCategories(ctx context.Context, db *bun.DB, limit int) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	q := db.NewSelect().
		ColumnExpr("category").
		ColumnExpr("COUNT(*) AS count").
		TableExpr("donation_request").
		Where("status = ?", models.RequestStatusOpen)
	err := q.GroupExpr("category").
		OrderExpr("count DESC").
		Limit(limit).
		Scan(ctx, &counts)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// ApplyDonation bumps progress counters and flips the request to completed
// once the money target is reached.
func ApplyDonation(ctx context.Context, db bun.IDB, requestID int64, amount int64) error {
	_, err := db.NewUpdate().Model((*models.DonationRequest)(nil)).
		Set("current_amount = current_amount + ?", amount).
		Set("supporter_count = supporter_count + 1").
		Set("status = CASE WHEN target_amount > 0 AND current_amount + ? >= target_amount THEN ? ELSE status END", amount, models.RequestStatusCompleted).
		Where("id = ?", requestID).
		Exec(ctx)
	return err
}

// AddBaselineScore nudges the persisted relevance counter; delta is negative
// for interactions like SKIP.
func AddBaselineScore(ctx context.Context, db bun.IDB, requestID int64, delta float64) error {
	_, err := db.NewUpdate().Model((*models.DonationRequest)(nil)).
		Set("baseline_score = baseline_score + ?", delta).
		Where("id = ?", requestID).
		Exec(ctx)
	return err
}
