package fetch

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"scrapeycat/internal/telemetry"
)

// instrument wires request/response debug reporting into a resty
// client, the Go analogue of vcassist-backend's
// internal/components/telemetry.InstrumentResty.
func instrument(client *resty.Client, tel telemetry.API) {
	i := instrumentCtx{tel: tel}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type instrumentCtx struct {
	tel telemetry.API
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtxValue struct {
	id    string
	start time.Time
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := uuid.NewString()
	req.SetContext(context.WithValue(req.Context(), reqCtxKey, reqCtxValue{id: id, start: time.Now()}))
	i.tel.ReportDebug("fetch.request", id, req.Method, req.URL)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	v, _ := res.Request.Context().Value(reqCtxKey).(reqCtxValue)
	i.tel.ReportDebug("fetch.response", v.id, time.Since(v.start).String(), res.Status())
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	v, _ := req.Context().Value(reqCtxKey).(reqCtxValue)
	i.tel.ReportBroken("fetch.request", v.id, req.URL, err)
}
