package handler

import (
	"givehub/internal/interfaces"
	"givehub/internal/models"
	"givehub/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupFeed struct {
	container *do.Injector
}

// Feed serves recommendations. Guests get the popularity ranking; an
// authenticated session gets the personalized one, rate limited per user.
func (gr *groupFeed) Feed(c echo.Context) error {
	ctx := c.Request().Context()

	serviceFeed, err := do.Invoke[*services.ServiceFeed](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if _, ok := ctx.Value(ctxKeyAuthUser).(*models.UserFromAuth); !ok {
		items, err := serviceFeed.Feed(ctx, nil)
		if err != nil {
			return httpx.RestAbort(c, nil, err)
		}
		return httpx.RestAbort(c, items, nil)
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limiter, err := do.Invoke[interfaces.Limiter](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ratePerMin, err := serviceConfig.GetIntConfig(ctx, services.CONFIG_FEED_RATE_PER_MIN, services.FEED_RATE_LIMIT_PER_MIN)
	if err != nil {
		ratePerMin = services.FEED_RATE_LIMIT_PER_MIN
	}

	if err := limiter.Allow(ctx, services.LimitKeyFeed(user.ID), redis_rate.PerMinute(ratePerMin)); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	items, err := serviceFeed.Feed(ctx, user)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, items, nil)
}
