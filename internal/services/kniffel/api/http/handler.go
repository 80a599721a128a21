// Package httpapi serves the kniffel JSON API and its websocket watch stream.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/kniffel/internal/platform/errors"
	"github.com/louisbranch/kniffel/internal/platform/i18n"
	"github.com/louisbranch/kniffel/internal/platform/timeouts"
	"github.com/louisbranch/kniffel/internal/services/kniffel/service"
	"github.com/louisbranch/kniffel/internal/services/kniffel/storage"
	"github.com/louisbranch/kniffel/internal/services/kniffel/view"
	"golang.org/x/net/websocket"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

const maxBodyBytes = 16 * 1024

// GameService is the slice of the game service the HTTP API drives.
type GameService interface {
	CreateGame(ctx context.Context, names []string) (storage.GameRecord, error)
	GetGame(ctx context.Context, gameID string) (storage.GameRecord, error)
	ListGames(ctx context.Context, req service.ListGamesRequest) (storage.GamePage, error)
	Reroll(ctx context.Context, gameID string, keep []int) (storage.GameRecord, error)
	Book(ctx context.Context, gameID string, tag string) (storage.GameRecord, error)
	Watch(gameID string) (<-chan storage.GameRecord, func())
}

type createGameRequest struct {
	PlayerNames []string `json:"player_names"`
}

type rollRequest struct {
	DiceToKeep []int `json:"dice_to_keep"`
}

type bookRequest struct {
	BookingType string `json:"booking_type"`
}

// NewHandler builds the API routes on top of svc.
func NewHandler(svc GameService) http.Handler {
	h := &handler{svc: svc}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("POST /api/v1/game", h.createGame)
	mux.HandleFunc("GET /api/v1/game/{id}", h.getGame)
	mux.HandleFunc("POST /api/v1/game/{id}/roll", h.roll)
	mux.HandleFunc("POST /api/v1/game/{id}/book", h.book)
	mux.HandleFunc("GET /api/v1/games", h.listGames)
	mux.HandleFunc("GET /api/v1/game/{id}/watch", h.watch)
	return mux
}

type handler struct {
	svc GameService
}

func (h *handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
	defer cancel()

	record, err := h.svc.CreateGame(ctx, req.PlayerNames)
	writeRecord(w, r, record, err, http.StatusCreated)
}

func (h *handler) getGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
	defer cancel()

	record, err := h.svc.GetGame(ctx, r.PathValue("id"))
	writeRecord(w, r, record, err, http.StatusOK)
}

func (h *handler) roll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
	defer cancel()

	record, err := h.svc.Reroll(ctx, r.PathValue("id"), req.DiceToKeep)
	writeRecord(w, r, record, err, http.StatusOK)
}

func (h *handler) book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
	defer cancel()

	record, err := h.svc.Book(ctx, r.PathValue("id"), req.BookingType)
	writeRecord(w, r, record, err, http.StatusOK)
}

func (h *handler) listGames(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := service.ListGamesRequest{
		PageToken: query.Get("page_token"),
		Filter:    query.Get("filter"),
	}
	if raw := strings.TrimSpace(query.Get("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			writeStatus(w, status.New(codes.InvalidArgument, "page_size must be a non-negative integer"))
			return
		}
		req.PageSize = size
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Request)
	defer cancel()

	page, err := h.svc.ListGames(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := view.Page{Games: make([]view.Game, 0, len(page.Games)), NextPageToken: page.NextPageToken}
	for _, record := range page.Games {
		v, err := view.FromRecord(record)
		if err != nil {
			writeError(w, r, err)
			return
		}
		out.Games = append(out.Games, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// watch streams one game view per stored change until the client hangs up.
// The first frame is the current state.
func (h *handler) watch(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	updates, cancel := h.svc.Watch(gameID)

	current, err := h.svc.GetGame(r.Context(), gameID)
	if err != nil {
		cancel()
		writeError(w, r, err)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		defer cancel()
		defer func() {
			_ = conn.Close()
		}()

		closed := make(chan struct{})
		go func() {
			_, _ = io.Copy(io.Discard, conn)
			close(closed)
		}()

		encoder := json.NewEncoder(conn)
		sent := int64(0)
		send := func(record storage.GameRecord) bool {
			if record.Version <= sent {
				return true
			}
			v, err := view.FromRecord(record)
			if err != nil {
				log.Printf("kniffel: watch %s: render game: %v", gameID, err)
				return false
			}
			if err := encoder.Encode(v); err != nil {
				log.Printf("kniffel: watch %s: write frame: %v", gameID, err)
				return false
			}
			sent = record.Version
			return true
		}

		if !send(current) {
			return
		}
		for {
			select {
			case <-closed:
				return
			case record, ok := <-updates:
				if !ok || !send(record) {
					return
				}
			}
		}
	}).ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		writeStatus(w, status.New(codes.InvalidArgument, "request body must be a JSON object"))
		return false
	}
	return true
}

func writeRecord(w http.ResponseWriter, r *http.Request, record storage.GameRecord, err error, okStatus int) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := view.FromRecord(record)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, okStatus, v)
}

// writeError renders err as a google.rpc.Status document localized for r.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsCode(err, apperrors.CodeUnknown) {
		log.Printf("kniffel: %s %s: %v", r.Method, r.URL.Path, err)
	}
	st, _ := status.FromError(apperrors.HandleError(err, i18n.ResolveLocale(r)))
	writeStatus(w, st)
}

func writeStatus(w http.ResponseWriter, st *status.Status) {
	body, err := protojson.Marshal(st.Proto())
	if err != nil {
		http.Error(w, st.Message(), httpStatus(st.Code()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(st.Code()))
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("kniffel: encode response: %v", err)
	}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition, codes.Aborted, codes.AlreadyExists:
		return http.StatusConflict
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
