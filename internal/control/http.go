package control

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// maxBody bounds the argument of a POST.
const maxBody = 1 << 12

// NewRouter returns the HTTP API of c:
//
//	GET  /api/status  current Status as JSON
//	POST /api/{op}    Apply op with the request body as argument
func NewRouter(c *Controller) *mux.Router {
	h := &handler{ctl: c}
	r := mux.NewRouter()
	r.HandleFunc("/api/status", h.status).Methods(http.MethodGet)
	r.HandleFunc("/api/{op}", h.apply).Methods(http.MethodPost)
	return r
}

type handler struct {
	ctl *Controller
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctl.Status())
}

func (h *handler) apply(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd := Command{
		Op:  mux.Vars(r)["op"],
		Arg: strings.TrimRight(string(body), "\r\n"),
	}
	if err := h.ctl.Apply(r.Context(), cmd); err != nil {
		glog.Warningf("http: %s: %v", cmd, err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	writeJSON(w, http.StatusOK, h.ctl.Status())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownOp):
		return http.StatusNotFound
	case IsUserError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("http: encoding response: %v", err)
	}
}
