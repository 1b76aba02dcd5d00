package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"givehub/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
	"github.com/vmihailenco/msgpack/v5"
)

type groupNotification struct {
	container *do.Injector
}

// Stream holds an SSE connection open and relays feed notifications pushed
// for the authenticated user until the client disconnects.
func (gr *groupNotification) Stream(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	_, ch, cancel := serviceNotification.Subscribe(user.ID)
	defer cancel()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-ch:
			if !ok {
				return nil
			}

			var notification services.FeedNotification
			if err := msgpack.Unmarshal(payload, &notification); err != nil {
				continue
			}

			data, err := json.Marshal(notification)
			if err != nil {
				continue
			}

			if _, err := fmt.Fprintf(w, "event: feed\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
