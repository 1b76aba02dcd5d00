package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDuplicateInteraction = errors.New("interaction already recorded")
var ErrRequestClosed = errors.New("donation request closed")
var ErrPointsLock = errors.New("points ledger locked")

const (
	CONFIG_SERVER_MODE       = "SERVER_MODE"
	CONFIG_FEED_LIMIT        = "FEED_LIMIT"
	CONFIG_BROWSE_LIMIT      = "BROWSE_LIMIT"
	CONFIG_GRANT_EXPIRY_DAYS = "GRANT_EXPIRY_DAYS"
	CONFIG_BASELINE_NUDGE    = "BASELINE_NUDGE"
	CONFIG_FEED_RATE_PER_MIN = "FEED_RATE_PER_MIN"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	FEED_DEFAULT_LIMIT       = 10
	FEED_CANDIDATE_LIMIT     = 50
	FEED_SIMILAR_USER_LIMIT  = 20
	FEED_FALLBACK_CATEGORIES = 3
	FEED_CACHE_TTL           = 10 * time.Second
	FEED_RATE_LIMIT_PER_MIN  = 30

	BROWSE_DEFAULT_LIMIT = 20
	BROWSE_MAX_LIMIT     = 100

	// relevance counter nudge applied on donations and volunteer
	// applications; interactions use their own weight table
	BASELINE_DONATION_NUDGE = 2.0

	FEATURE_GRANT_EXPIRY_DAYS = 30

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
)

func LockKeyUserPoints(userID int64) string {
	return fmt.Sprintf("lock:user-points:%d", userID)
}

func LockKeyUserRedeem(userID int64) string {
	return fmt.Sprintf("lock:user-redeem:%d", userID)
}

// db
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyUserPoints(userID int64) string {
	return fmt.Sprintf("user_points:%d", userID)
}

func DBKeyActiveRewards() string {
	return "rewards:active"
}

func DBKeyUserGrants(userID int64) string {
	return fmt.Sprintf("user:grants:%d", userID)
}

func DBKeyRequest(requestID int64) string {
	return fmt.Sprintf("request:%d", requestID)
}

func DBKeyTopCategories() string {
	return "categories:top"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func FeedKeyUser(userID int64) string {
	return fmt.Sprintf("feed:user:%d", userID)
}

func FeedKeyGuest() string {
	return "feed:guest"
}

func LimitKeyFeed(userID int64) string {
	return fmt.Sprintf("limit:feed:%d", userID)
}

func NotifyChannelFeed() string {
	return "notify:feed"
}
