package transport

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"burger/pkg/app"
	"burger/pkg/domain/model"
	"burger/pkg/navigation"
)

var errBadRequest = errors.New("bad request")

type Handler struct {
	app *app.App
}

func Router(a *app.App) http.Handler {
	h := &Handler{app: a}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/catalog", h.catalog).Methods(http.MethodGet)

	s.HandleFunc("/builder", h.builder).Methods(http.MethodGet)
	s.HandleFunc("/builder", h.clearBuilder).Methods(http.MethodDelete)
	s.HandleFunc("/builder/frame", h.setFrame).Methods(http.MethodPut)
	s.HandleFunc("/builder/entries", h.addEntry).Methods(http.MethodPost)
	s.HandleFunc("/builder/entries/move", h.moveEntry).Methods(http.MethodPost)
	s.HandleFunc("/builder/entries/{instanceID}", h.removeEntry).Methods(http.MethodDelete)

	s.HandleFunc("/orders", h.checkout).Methods(http.MethodPost)
	s.HandleFunc("/orders/modal", h.modal).Methods(http.MethodGet)
	s.HandleFunc("/orders/modal", h.closeModal).Methods(http.MethodDelete)
	s.HandleFunc("/orders/history", h.history).Methods(http.MethodGet)
	s.HandleFunc("/orders/{number:[0-9]+}", h.order).Methods(http.MethodGet)

	s.HandleFunc("/feed", h.feed).Methods(http.MethodGet)
	s.HandleFunc("/feed/refresh", h.refreshFeed).Methods(http.MethodPost)

	s.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	s.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	s.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	s.HandleFunc("/auth/user", h.user).Methods(http.MethodGet)
	s.HandleFunc("/auth/user", h.updateUser).Methods(http.MethodPatch)

	s.HandleFunc("/navigation", h.screen).Methods(http.MethodGet)
	s.HandleFunc("/navigation", h.navigate).Methods(http.MethodPost)
	s.HandleFunc("/navigation/close", h.closeOverlay).Methods(http.MethodPost)
	s.HandleFunc("/navigation/back", h.back).Methods(http.MethodPost)

	return logMiddleware(metricsMiddleware(a.Metrics, r))
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Catalog.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.app.Catalog.Parts())
}

type assemblyResponse struct {
	Frame   *model.Part   `json:"frame"`
	Entries []model.Entry `json:"entries"`
	Count   int           `json:"count"`
	Price   int64         `json:"price"`
}

func (h *Handler) assembly() assemblyResponse {
	assembly := h.app.Builder.Assembly()
	return assemblyResponse{
		Frame:   assembly.Frame,
		Entries: assembly.Entries,
		Count:   assembly.Count(),
		Price:   assembly.Price(),
	}
}

func (h *Handler) builder(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.assembly())
}

func (h *Handler) clearBuilder(w http.ResponseWriter, _ *http.Request) {
	h.app.Builder.Clear()
	writeJSON(w, http.StatusOK, h.assembly())
}

type partRequest struct {
	PartID string `json:"partId"`
}

func (h *Handler) setFrame(w http.ResponseWriter, r *http.Request) {
	var req partRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.PartID == "" {
		h.app.Builder.SetFrame(nil)
		writeJSON(w, http.StatusOK, h.assembly())
		return
	}

	part, err := h.app.Catalog.Find(req.PartID)
	if err != nil {
		writeError(w, err)
		return
	}
	if part.Category != model.FrameCategory {
		writeError(w, errors.Wrapf(errBadRequest, "part %s is not a bun", part.ID))
		return
	}
	h.app.Builder.SetFrame(&part)
	writeJSON(w, http.StatusOK, h.assembly())
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	var req partRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	entry, appended, err := h.app.Builder.AddByID(req.PartID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !appended {
		writeJSON(w, http.StatusOK, h.assembly())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request) {
	instanceID, err := uuid.Parse(mux.Vars(r)["instanceID"])
	if err != nil {
		writeError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	h.app.Builder.RemoveEntry(instanceID)
	writeJSON(w, http.StatusOK, h.assembly())
}

type moveRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
}

func (h *Handler) moveEntry(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	direction, ok := model.ParseDirection(req.Direction)
	if !ok {
		writeError(w, errors.Wrapf(errBadRequest, "unknown direction %q", req.Direction))
		return
	}
	h.app.Builder.MoveEntry(req.Index, direction)
	writeJSON(w, http.StatusOK, h.assembly())
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.app.Orders.Checkout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type modalResponse struct {
	Order         *model.Order `json:"order"`
	Submitting    bool         `json:"submitting"`
	LoadingNumber bool         `json:"loadingNumber"`
	Error         string       `json:"error,omitempty"`
}

func (h *Handler) modal(w http.ResponseWriter, _ *http.Request) {
	state := h.app.Orders.Snapshot()
	resp := modalResponse{
		Order:         state.Modal,
		Submitting:    state.Submitting,
		LoadingNumber: state.LoadingNumber,
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) closeModal(w http.ResponseWriter, _ *http.Request) {
	h.app.Orders.CloseModal()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if !h.app.Session.IsAuthenticated() {
		writeError(w, model.ErrUnauthorized)
		return
	}
	orders, err := h.app.Orders.FetchHistory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) order(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}
	order, err := h.app.Lookup.Lookup(r.Context(), number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type feedResponse struct {
	Orders     []model.Order `json:"orders"`
	Total      int           `json:"total"`
	TotalToday int           `json:"totalToday"`
	Ready      []int         `json:"ready"`
	InProgress []int         `json:"inProgress"`
}

func newFeedResponse(snapshot model.FeedSnapshot) feedResponse {
	return feedResponse{
		Orders:     snapshot.Orders,
		Total:      snapshot.Total,
		TotalToday: snapshot.TotalToday,
		Ready:      snapshot.Ready(),
		InProgress: snapshot.InProgress(),
	}
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.app.Feed.Snapshot()
	if !ok {
		var err error
		if snapshot, err = h.app.Feed.Refresh(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newFeedResponse(snapshot))
}

func (h *Handler) refreshFeed(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.app.Feed.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFeedResponse(snapshot))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req model.Registration
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.app.Session.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req model.Credentials
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.app.Session.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Session.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) user(w http.ResponseWriter, _ *http.Request) {
	user, ok := h.app.Session.User()
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdate
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.app.Session.UpdateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type screenResponse struct {
	Screen   navigation.Screen    `json:"screen"`
	Location *navigation.Location `json:"location,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func (h *Handler) writeScreen(w http.ResponseWriter, screen navigation.Screen, err error) {
	resp := screenResponse{Screen: screen}
	if location, ok := h.app.Navigator.Location(); ok {
		resp.Location = &location
	}
	if err != nil {
		log.WithError(err).Warn("view failed to load")
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) screen(w http.ResponseWriter, _ *http.Request) {
	screen, _ := h.app.Navigator.Screen()
	h.writeScreen(w, screen, nil)
}

type navigateRequest struct {
	Path    string `json:"path"`
	Overlay bool   `json:"overlay"`
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Path == "" {
		writeError(w, errors.Wrap(errBadRequest, "empty path"))
		return
	}

	var (
		screen navigation.Screen
		err    error
	)
	if req.Overlay {
		screen, err = h.app.Navigator.OpenOverlay(r.Context(), req.Path)
	} else {
		screen, err = h.app.Navigator.Open(r.Context(), req.Path)
	}
	h.writeScreen(w, screen, err)
}

type closeRequest struct {
	Trigger string `json:"trigger"`
}

func (h *Handler) closeOverlay(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	trigger, ok := navigation.ParseCloseTrigger(req.Trigger)
	if !ok {
		writeError(w, errors.Wrapf(errBadRequest, "unknown trigger %q", req.Trigger))
		return
	}
	screen, err := h.app.Navigator.Close(r.Context(), trigger)
	h.writeScreen(w, screen, err)
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	screen, err := h.app.Navigator.Back(r.Context())
	h.writeScreen(w, screen, err)
}
