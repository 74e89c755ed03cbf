// Package uvotetest provides an in-process stand-in for the UVote REST
// backend. It mimics the real API's paths, Spanish field names and error
// wording closely enough to exercise the client end to end without a
// network.
package uvotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"uvote-cli/internal/domain"
)

const tokenTTL = 30 * time.Minute

// User is an account known to the fake backend
type User struct {
	Profile  domain.User
	Password string
	Verified bool
	Code     string
}

// Server is the fake backend. All state is in memory and guarded by one
// mutex; handlers enforce the same rules the real service does.
type Server struct {
	mu      sync.Mutex
	secret  []byte
	users   map[string]*User // keyed by email
	polls   map[int64]*domain.Poll
	options map[int64]*domain.Option
	votes   map[int64]map[int64]int64 // pollID -> userID -> optionID
	nextID  int64

	httpSrv *httptest.Server

	// LoginCalls counts credential exchanges, for tests asserting that
	// client-side gates short-circuit before the network.
	LoginCalls int
	VoteCalls  int
}

// NewServer starts the fake backend on a random local port
func NewServer() *Server {
	s := &Server{
		secret:  []byte("uvote-test-secret"),
		users:   make(map[string]*User),
		polls:   make(map[int64]*domain.Poll),
		options: make(map[int64]*domain.Option),
		votes:   make(map[int64]map[int64]int64),
	}

	r := chi.NewRouter()
	r.Post("/auth/login", s.handleLogin)
	r.Get("/auth/status", s.handleAuthStatus)
	r.Post("/auth/verify-code", s.handleVerifyCode)
	r.Post("/auth/resend-code", s.handleResendCode)
	r.Post("/usuarios", s.handleRegister)
	r.Get("/usuarios/nombre/{nombre}", s.handleGetUserByUsername)
	r.Put("/usuarios/id/{id}", s.handleUpdateUser)
	r.Get("/encuestas", s.handleListPolls)
	r.Post("/encuestas", s.handleCreatePoll)
	r.Get("/encuestas/{id}", s.handleGetPoll)
	r.Get("/encuestas/creador/{id}", s.handleListPollsByCreator)
	r.Post("/encuestas/{id}/cerrar", s.handleClosePoll)
	r.Get("/encuestas/{id}/opciones", s.handleListOptions)
	r.Post("/encuestas/{id}/opciones", s.handleCreateOption)
	r.Delete("/opciones/{id}", s.handleDeleteOption)
	r.Post("/encuestas/{id}/votos", s.handleVote)
	r.Get("/encuestas/{id}/resultados", s.handleResults)

	s.httpSrv = httptest.NewServer(r)
	return s
}

// URL is the base URL clients should point at
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Close shuts the fake backend down
func (s *Server) Close() {
	s.httpSrv.Close()
}

// AddUser registers an account directly in the store and returns its
// profile. The verification code is fixed to "123456".
func (s *Server) AddUser(username, email, password string, verified bool) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	u := &User{
		Profile: domain.User{
			ID:        s.nextID,
			Username:  username,
			Email:     email,
			CreatedAt: &now,
		},
		Password: password,
		Verified: verified,
		Code:     "123456",
	}
	s.users[email] = u
	return u.Profile
}

// AddPoll inserts a poll owned by the given user
func (s *Server) AddPoll(creatorID int64, name string, startAt, endAt *time.Time, closed bool) domain.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	p := &domain.Poll{
		ID:        s.nextID,
		CreatorID: creatorID,
		Name:      name,
		CreatedAt: &now,
		StartAt:   startAt,
		EndAt:     endAt,
		Closed:    closed,
	}
	s.polls[p.ID] = p
	return *p
}

// AddOption inserts an option into a poll
func (s *Server) AddOption(pollID int64, name string, order *int) domain.Option {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	o := &domain.Option{
		ID:     s.nextID,
		PollID: pollID,
		Name:   name,
		Order:  order,
	}
	s.options[o.ID] = o
	return *o
}

// TokenFor mints a valid bearer token for an email
func (s *Server) TokenFor(email string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// authenticate resolves the bearer token to a user, if any
func (s *Server) authenticate(r *http.Request) (*User, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	parsed, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, false
	}

	email, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	return u, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"correo"`
		Password string `json:"contrasena"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	s.LoginCalls++
	u, ok := s.users[req.Email]
	s.mu.Unlock()

	if !ok || u.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if !u.Verified {
		writeError(w, http.StatusForbidden, "Cuenta no verificada. Verifica tu correo para iniciar sesión.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   s.TokenFor(u.Profile.Email),
		"usuario": u.Profile,
	})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("correo")

	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "El correo no existe")
		return
	}

	if u.Verified {
		writeJSON(w, http.StatusOK, map[string]interface{}{"nextStep": "LOGIN"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nextStep":          "VERIFY",
		"resendAvailableIn": 45,
	})
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"correo"`
		Code  string `json:"codigo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[req.Email]
	if !ok {
		writeError(w, http.StatusNotFound, "El correo no existe")
		return
	}
	if req.Code != u.Code {
		writeError(w, http.StatusBadRequest, "Código inválido. Revisa e inténtalo de nuevo.")
		return
	}

	u.Verified = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "Correo verificado"})
}

func (s *Server) handleResendCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"correo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	_, ok := s.users[req.Email]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "El correo no existe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Código reenviado"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"nombreUsuario"`
		Email    string `json:"correo"`
		Password string `json:"contrasena"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "Ya existe una cuenta con ese correo")
		return
	}
	s.mu.Unlock()

	profile := s.AddUser(req.Username, req.Email, req.Password, false)
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "nombre")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Profile.Username == username {
			writeJSON(w, http.StatusOK, u.Profile)
			return
		}
	}
	writeError(w, http.StatusNotFound, "El usuario no existe")
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, ok := pathID(r)
	if !ok || caller.Profile.ID != id {
		writeError(w, http.StatusForbidden, "No puedes editar otro perfil")
		return
	}

	var req struct {
		Username string `json:"nombreUsuario"`
		Bio      string `json:"descripcion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	if req.Username != "" {
		caller.Profile.Username = req.Username
	}
	if req.Bio != "" {
		caller.Profile.Bio = req.Bio
	}
	profile := caller.Profile
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	polls := make([]domain.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		polls = append(polls, *p)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, polls)
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	var req struct {
		Name        string     `json:"nombre"`
		Description string     `json:"descripcion"`
		ImageURL    string     `json:"imagenUrl"`
		StartAt     *time.Time `json:"fechaInicio"`
		EndAt       *time.Time `json:"fechaCierre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}

	poll := s.AddPoll(caller.Profile.ID, req.Name, req.StartAt, req.EndAt, false)

	s.mu.Lock()
	s.polls[poll.ID].Description = req.Description
	s.polls[poll.ID].ImageURL = req.ImageURL
	poll = *s.polls[poll.ID]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, poll)
}

func (s *Server) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	s.mu.Lock()
	p, exists := s.polls[id]
	var poll domain.Poll
	if exists {
		poll = *p
	}
	s.mu.Unlock()

	if !exists {
		writeError(w, http.StatusNotFound, "La encuesta no existe")
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (s *Server) handleListPollsByCreator(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	s.mu.Lock()
	polls := make([]domain.Poll, 0)
	for _, p := range s.polls {
		if p.CreatorID == id {
			polls = append(polls, *p)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, polls)
}

func (s *Server) handleClosePoll(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, _ := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.polls[id]
	if !exists {
		writeError(w, http.StatusNotFound, "La encuesta no existe")
		return
	}
	if p.CreatorID != caller.Profile.ID {
		writeError(w, http.StatusForbidden, "Solo el creador puede cerrar la encuesta")
		return
	}

	now := time.Now().UTC()
	p.Closed = true
	p.EndAt = &now
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)

	s.mu.Lock()
	options := make([]domain.Option, 0)
	for _, o := range s.options {
		if o.PollID == id {
			options = append(options, *o)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, options)
}

func (s *Server) handleCreateOption(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, _ := pathID(r)

	s.mu.Lock()
	p, exists := s.polls[id]
	if !exists {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "La encuesta no existe")
		return
	}
	if p.CreatorID != caller.Profile.ID {
		s.mu.Unlock()
		writeError(w, http.StatusForbidden, "Solo el creador puede agregar opciones")
		return
	}
	s.mu.Unlock()

	var req struct {
		Name        string `json:"nombre"`
		Description string `json:"descripcion"`
		ImageURL    string `json:"imagenUrl"`
		Order       *int   `json:"orden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "El nombre es requerido")
		return
	}

	option := s.AddOption(id, req.Name, req.Order)

	s.mu.Lock()
	s.options[option.ID].Description = req.Description
	s.options[option.ID].ImageURL = req.ImageURL
	option = *s.options[option.ID]
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, option)
}

func (s *Server) handleDeleteOption(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, _ := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.options[id]
	if !exists {
		writeError(w, http.StatusNotFound, "La opción no existe")
		return
	}
	if p, ok := s.polls[o.PollID]; !ok || p.CreatorID != caller.Profile.ID {
		writeError(w, http.StatusForbidden, "Solo el creador puede eliminar opciones")
		return
	}

	delete(s.options, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.VoteCalls++
	s.mu.Unlock()

	caller, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, _ := pathID(r)

	var req struct {
		OptionID int64 `json:"opcionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.polls[id]
	if !exists {
		writeError(w, http.StatusBadRequest, "La encuesta no existe")
		return
	}
	if p.Closed {
		writeError(w, http.StatusBadRequest, "La encuesta ya está cerrada")
		return
	}

	o, exists := s.options[req.OptionID]
	if !exists {
		writeError(w, http.StatusBadRequest, "La opción no existe")
		return
	}
	if o.PollID != id {
		writeError(w, http.StatusBadRequest, "La opción no pertenece a esta encuesta")
		return
	}

	if s.votes[id] == nil {
		s.votes[id] = make(map[int64]int64)
	}
	if _, voted := s.votes[id][caller.Profile.ID]; voted {
		writeError(w, http.StatusBadRequest, "Ya has votado en esta encuesta")
		return
	}
	s.votes[id][caller.Profile.ID] = req.OptionID

	s.nextID++
	now := time.Now().UTC()
	writeJSON(w, http.StatusCreated, domain.VoteAck{
		ID:        s.nextID,
		UserID:    caller.Profile.ID,
		PollID:    id,
		OptionID:  req.OptionID,
		CreatedAt: &now,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
		return
	}

	id, _ := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.polls[id]; !exists {
		writeError(w, http.StatusNotFound, "La encuesta no existe")
		return
	}

	counts := make(map[int64]int64)
	for _, optionID := range s.votes[id] {
		counts[optionID]++
	}

	rows := make([]domain.ResultRow, 0)
	for _, o := range s.options {
		if o.PollID != id {
			continue
		}
		rows = append(rows, domain.ResultRow{
			OptionID:   o.ID,
			OptionName: o.Name,
			Votes:      counts[o.ID],
		})
	}

	writeJSON(w, http.StatusOK, rows)
}
