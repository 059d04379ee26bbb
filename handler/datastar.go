package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	// DataStarAcceptHeader marks a DataStar fetch.
	DataStarAcceptHeader = "text/event-stream"
	// DataStarQueryParam carries signals on GET requests.
	DataStarQueryParam = "datastar"
)

const (
	PatchOuter   = datastar.ElementPatchModeOuter
	PatchInner   = datastar.ElementPatchModeInner
	PatchReplace = datastar.ElementPatchModeReplace
	PatchRemove  = datastar.ElementPatchModeRemove
	PatchAppend  = datastar.ElementPatchModeAppend
	PatchPrepend = datastar.ElementPatchModePrepend
)

// IsDataStar reports whether r was issued by the DataStar client.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	if r.URL.Query().Has(DataStarQueryParam) {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}

type signalsResponse struct {
	signals map[string]any
}

func (s signalsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	data, err := json.Marshal(s.signals)
	if err != nil {
		return err
	}
	if !IsDataStar(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, err = w.Write(data)
		return err
	}
	return datastar.NewSSE(w, r).PatchSignals(data)
}

// Signals patches frontend signals. Non-DataStar clients receive the same
// values as a JSON object.
//
//	return handler.Signals(map[string]any{"busy": false})
func Signals(signals map[string]any) Response {
	return signalsResponse{signals: signals}
}
