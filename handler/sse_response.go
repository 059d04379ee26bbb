package handler

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// StreamContext is a Context bound to an open DataStar SSE stream.
type StreamContext interface {
	Context
	SendComponent(component templ.Component, opts ...TemplOption) error
	SendSignals(signals map[string]any) error
	Redirect(url string) error
}

// SSEHandler runs for the lifetime of the stream. Return to close it.
type SSEHandler func(stream StreamContext) error

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendComponent(component templ.Component, opts ...TemplOption) error {
	return c.sse.PatchElementTempl(component, opts...)
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return c.sse.PatchSignals(data)
}

func (c *streamContext) Redirect(url string) error {
	return c.sse.Redirect(url)
}

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return NewHTTPError(http.StatusBadRequest, "errors.sse_required")
	}
	base := NewContext(w, r)
	sse := base.SSE()
	if sse == nil {
		return ErrSSENotInitialized
	}
	return s.handler(&streamContext{Context: base, sse: sse})
}

// SSE keeps the response open and hands a StreamContext to h.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		for {
//			select {
//			case <-stream.Done():
//				return nil
//			case ev := <-events:
//				if err := stream.SendComponent(views.Status(ev)); err != nil {
//					return err
//				}
//			}
//		}
//	})
func SSE(h SSEHandler) Response {
	return sseResponse{handler: h}
}
