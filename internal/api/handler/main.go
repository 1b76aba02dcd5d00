package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"

	"givehub/internal/services"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "💛")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		routesAPIv1User := routesAPIv1.Group("/user")
		{
			u := groupUser{cfg.Container}
			routesAPIv1User.GET("/me", u.Me)
			routesAPIv1User.PUT("/me/interests", u.UpdateInterests)
			routesAPIv1User.PUT("/me/location", u.UpdateLocation)

			p := groupPoints{cfg.Container}
			routesAPIv1User.GET("/points", p.Summary)
			routesAPIv1User.GET("/points/history", p.History)

			w := groupReward{cfg.Container}
			routesAPIv1User.GET("/grants", w.Grants)
		}

		w := groupReward{cfg.Container}
		routesAPIv1.GET("/rewards", w.List)
		routesAPIv1.POST("/rewards/:id/redeem", w.Redeem)

		q := groupRequest{cfg.Container}
		routesAPIv1.GET("/requests", q.List)
		routesAPIv1.GET("/requests/:id", q.Show)
		routesAPIv1.POST("/requests", q.Create)
		routesAPIv1.POST("/requests/:id/donate", q.Donate)
		routesAPIv1.POST("/requests/:id/volunteer", q.Volunteer)
		routesAPIv1.POST("/requests/:id/favorite", q.Favorite)
		routesAPIv1.DELETE("/requests/:id/favorite", q.Unfavorite)
		routesAPIv1.POST("/requests/:id/interactions/:kind", q.RecordInteraction)

		f := groupFeed{cfg.Container}
		routesAPIv1.GET("/feed", f.Feed)

		n := groupNotification{cfg.Container}
		routesAPIv1.GET("/notifications/stream", n.Stream)
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
