package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/virtualdeck/pass-play-be/internal/auth"
	"github.com/virtualdeck/pass-play-be/internal/catalog"
	"github.com/virtualdeck/pass-play-be/internal/db"
	"github.com/virtualdeck/pass-play-be/internal/game"
	"github.com/virtualdeck/pass-play-be/internal/store"
)

// Handlers contains all the API handlers
type Handlers struct {
	store    store.Store
	database *db.Database
	hub      *Hub
	library  *catalog.Library
	tokens   *auth.TokenIssuer
	log      zerolog.Logger
}

// NewHandlers creates a new instance of Handlers. database and library may
// be nil; the affected endpoints then report unavailability.
func NewHandlers(store store.Store, database *db.Database, hub *Hub, library *catalog.Library, tokens *auth.TokenIssuer, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:    store,
		database: database,
		hub:      hub,
		library:  library,
		tokens:   tokens,
		log:      log,
	}
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Session endpoints
	r.HandleFunc("/api/session/new", h.NewSession).Methods("POST")
	r.HandleFunc("/api/session/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/api/session/{id}/deal", h.Deal).Methods("POST")
	r.HandleFunc("/api/session/{id}/next", h.NextTurn).Methods("POST")
	r.HandleFunc("/api/session/{id}/prev", h.PreviousTurn).Methods("POST")
	r.HandleFunc("/api/session/{id}/reset", h.ResetGame).Methods("POST")
	r.HandleFunc("/api/session/{id}/draw", h.Draw).Methods("POST")
	r.HandleFunc("/api/session/{id}/play", h.PlayCard).Methods("POST")
	r.HandleFunc("/api/session/{id}/reclaim", h.Reclaim).Methods("POST")
	r.HandleFunc("/api/session/{id}/authenticate", h.Authenticate).Methods("POST")
	r.HandleFunc("/api/session/{id}/hand", h.GetHand).Methods("GET")
	r.HandleFunc("/api/session/{id}/results", h.RecordResult).Methods("POST")
	r.HandleFunc("/api/session/{id}/results", h.GetResults).Methods("GET")

	// Catalog endpoints
	r.HandleFunc("/api/games", h.ListGames).Methods("GET")
	r.HandleFunc("/api/games/search", h.SearchGames).Methods("GET")
	r.HandleFunc("/api/games/{id}", h.GetGameDefinition).Methods("GET")

	// Preferences endpoints
	r.HandleFunc("/api/preferences", h.GetPreferences).Methods("GET")
	r.HandleFunc("/api/preferences", h.PutPreferences).Methods("PUT")

	// WebSocket endpoint
	r.HandleFunc("/ws", h.hub.WebSocketHandler)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// sessionError maps game package errors to HTTP statuses.
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNoPlayers),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrCardNotInHand):
		errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrUnknownPlayer):
		errorResponse(w, http.StatusNotFound, err.Error())
	default:
		errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, err := h.store.GetSession(id)
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// afterMutation persists and broadcasts the session's new state.
func (h *Handlers) afterMutation(sess *game.Session) {
	if err := h.store.SaveSession(sess); err != nil {
		h.log.Error().Err(err).Str("session", sess.ID.String()).Msg("saving session")
	}
	if h.hub != nil {
		h.hub.BroadcastSessionUpdate(sess)
	}
}

type newSessionPlayer struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Color  string `json:"color,omitempty"`
}

// NewSession creates a new pass-and-play session.
func (h *Handlers) NewSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Players     []newSessionPlayer `json:"players"`
		DeckPreset  string             `json:"deckPreset,omitempty"`
		GameID      string             `json:"gameId,omitempty"`
		DeckConfig  *game.DeckConfig   `json:"deckConfig,omitempty"`
		FreedomMode bool               `json:"freedomMode"`
		RequireAuth bool               `json:"requireAuth"`
		Passcode    string             `json:"passcode,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	players := make([]*game.Player, 0, len(req.Players))
	for i, p := range req.Players {
		if p.Name == "" {
			errorResponse(w, http.StatusBadRequest, "Player name is required")
			return
		}
		color := game.PlayerColor(p.Color)
		if color == "" {
			color = game.PlayerColors[i%len(game.PlayerColors)]
		}
		players = append(players, game.NewPlayer(p.Name, p.Avatar, color))
	}

	// Deck configuration precedence: explicit config, then catalog game,
	// then named preset, then a standard deck.
	deckConfig := game.DeckConfig{NumberOfDecks: 1}
	switch {
	case req.DeckConfig != nil:
		deckConfig = *req.DeckConfig
	case req.GameID != "":
		if h.library == nil {
			errorResponse(w, http.StatusServiceUnavailable, "Game catalog not available")
			return
		}
		def, ok := h.library.ByID(req.GameID)
		if !ok {
			errorResponse(w, http.StatusNotFound, "Unknown game")
			return
		}
		deckConfig = def.DeckRequirements.DeckConfig()
	case req.DeckPreset != "":
		cfg, ok := game.ConfigForPreset(req.DeckPreset)
		if !ok {
			errorResponse(w, http.StatusBadRequest, "Unknown deck preset")
			return
		}
		deckConfig = cfg
	}

	opts := game.SessionOptions{
		FreedomMode: req.FreedomMode,
		RequireAuth: req.RequireAuth,
	}
	if req.RequireAuth {
		authenticator, err := auth.NewPasscode(req.Passcode)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid passcode")
			return
		}
		opts.Authenticator = authenticator
	}

	sess, err := game.NewSession(players, deckConfig, opts)
	if err != nil {
		sessionError(w, err)
		return
	}

	if err := h.store.SaveSession(sess); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	response(w, http.StatusCreated, sess.StateFor(uuid.Nil))
}

// GetSession returns the session state sanitized for the requesting player.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	viewerID := uuid.Nil
	if parsed, err := uuid.Parse(r.URL.Query().Get("playerId")); err == nil {
		viewerID = parsed
	}

	response(w, http.StatusOK, sess.StateFor(viewerID))
}

// Deal deals a fresh round to every player.
func (h *Handlers) Deal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		CardsPerPlayer int `json:"cardsPerPlayer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.DealCards(req.CardsPerPlayer)
	h.afterMutation(sess)

	response(w, http.StatusOK, sess.StateFor(uuid.Nil))
}

// NextTurn advances to the next player.
func (h *Handlers) NextTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.NextTurn(); err != nil {
		sessionError(w, err)
		return
	}
	h.afterMutation(sess)

	response(w, http.StatusOK, sess.StateFor(uuid.Nil))
}

// PreviousTurn steps back to the previous player.
func (h *Handlers) PreviousTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.PreviousTurn(); err != nil {
		sessionError(w, err)
		return
	}
	h.afterMutation(sess)

	response(w, http.StatusOK, sess.StateFor(uuid.Nil))
}

// ResetGame returns the session to its pre-deal state.
func (h *Handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.ResetGame()
	h.afterMutation(sess)

	response(w, http.StatusOK, sess.StateFor(uuid.Nil))
}

// Draw moves the top deck card into a player's hand.
func (h *Handlers) Draw(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	card, drew, err := sess.DrawToHand(playerID)
	if err != nil {
		sessionError(w, err)
		return
	}
	h.afterMutation(sess)

	resp := map[string]interface{}{
		"drew":  drew,
		"state": sess.StateFor(playerID),
	}
	if drew {
		resp["card"] = card
	}
	response(w, http.StatusOK, resp)
}

// PlayCard plays a card from a player's hand onto the discard pile.
func (h *Handlers) PlayCard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		CardID   string `json:"cardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := sess.PlayCard(playerID, cardID)
	if err != nil {
		sessionError(w, err)
		return
	}
	h.afterMutation(sess)

	response(w, http.StatusOK, map[string]interface{}{
		"card":  card,
		"state": sess.StateFor(playerID),
	})
}

// Reclaim folds the discard pile back into the deck.
func (h *Handlers) Reclaim(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Shuffle bool `json:"shuffle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess.ReclaimDiscards(req.Shuffle)
	h.afterMutation(sess)

	response(w, http.StatusOK, sess.StateFor(uuid.Nil))
}

// Authenticate runs the privacy gate for a player and, on success, issues a
// short-lived token scoped to that player's hand.
func (h *Handlers) Authenticate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Passcode string `json:"passcode,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if req.Passcode != "" {
		ctx = auth.WithCode(ctx, req.Passcode)
	}

	granted, err := sess.AuthenticatePlayer(ctx)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Authentication error")
		return
	}
	if !granted {
		errorResponse(w, http.StatusForbidden, "Authentication failed")
		return
	}

	resp := map[string]interface{}{"granted": true}
	if h.tokens != nil && req.PlayerID != "" {
		token, err := h.tokens.Issue(sess.ID.String(), req.PlayerID)
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}
		resp["token"] = token
	}
	response(w, http.StatusOK, resp)
}

// GetHand returns a player's full hand. When the session requires
// authentication the caller must present a token from Authenticate.
func (h *Handlers) GetHand(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	playerIDRaw := r.URL.Query().Get("playerId")
	playerID, err := uuid.Parse(playerIDRaw)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	if sess.RequireAuth() {
		token := r.URL.Query().Get("token")
		if h.tokens == nil || h.tokens.Verify(token, sess.ID.String(), playerIDRaw) != nil {
			errorResponse(w, http.StatusForbidden, "Authentication required")
			return
		}
	}

	hand, err := sess.HandOf(playerID)
	if err != nil {
		sessionError(w, err)
		return
	}

	response(w, http.StatusOK, map[string]interface{}{
		"playerId": playerIDRaw,
		"hand":     hand,
	})
}

// RecordResult stores a player's final score for a finished round.
func (h *Handlers) RecordResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.database == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Result storage not available")
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Score    int    `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	var name string
	for _, p := range sess.StateFor(uuid.Nil).Players {
		if p.ID == playerID {
			name = p.Name
			break
		}
	}
	if name == "" {
		sessionError(w, game.ErrUnknownPlayer)
		return
	}

	if err := h.database.SaveGameResult(sess.ID.String(), req.PlayerID, name, req.Score); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save result")
		return
	}
	response(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// GetResults returns the recorded scores for a session.
func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.database == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Result storage not available")
		return
	}

	results, err := h.database.ResultsForSession(sess.ID.String())
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error retrieving results")
		return
	}
	response(w, http.StatusOK, results)
}

// ListGames returns the game catalog, optionally filtered by category.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Game catalog not available")
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		response(w, http.StatusOK, h.library.InCategory(catalog.Category(category)))
		return
	}
	response(w, http.StatusOK, h.library.All())
}

// SearchGames searches the catalog by name or alias.
func (h *Handlers) SearchGames(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Game catalog not available")
		return
	}
	response(w, http.StatusOK, h.library.Search(r.URL.Query().Get("q")))
}

// GetGameDefinition returns a single catalog entry.
func (h *Handlers) GetGameDefinition(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Game catalog not available")
		return
	}

	def, ok := h.library.ByID(mux.Vars(r)["id"])
	if !ok {
		errorResponse(w, http.StatusNotFound, "Game not found")
		return
	}
	response(w, http.StatusOK, def)
}

// GetPreferences returns the stored user preferences.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	if h.database == nil {
		response(w, http.StatusOK, db.DefaultPreferences())
		return
	}

	prefs, err := h.database.Preferences()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error reading preferences")
		return
	}
	response(w, http.StatusOK, prefs)
}

// PutPreferences stores the user preferences.
func (h *Handlers) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs db.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if prefs.Volume < 0 || prefs.Volume > 1 {
		errorResponse(w, http.StatusBadRequest, "Volume must be between 0 and 1")
		return
	}

	if h.database == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Preferences storage not available")
		return
	}
	if err := h.database.SavePreferences(prefs); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	response(w, http.StatusOK, prefs)
}
