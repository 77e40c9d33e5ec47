package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"medibill/m/domain"
	"medibill/m/internal/store"
)

type ctxKey string

const (
	ctxUserID     ctxKey = "userID"
	ctxUsername   ctxKey = "username"
	ctxRole       ctxKey = "role"
	ctxHospitalID ctxKey = "hospitalID"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db     *sqlx.DB
	ledger store.LedgerStore
	secret string
}

// New constructs a Handler.
func New(db *sqlx.DB, ledger store.LedgerStore, secret string) *Handler {
	return &Handler{db: db, ledger: ledger, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/billing", func(r chi.Router) {
			r.Get("/outstanding", h.outstandingLedgers)
			r.Get("/statement", h.statement)
			r.Post("/payments", h.receivePayment)
			r.Delete("/sales/{id}", h.deleteSale)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	HospitalID int64  `json:"hospital_id"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID int64, username, role string, hospitalID int64) (string, error) {
	claims := authClaims{
		UserID:     userID,
		Username:   username,
		Role:       role,
		HospitalID: hospitalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		if claims.HospitalID <= 0 {
			respondError(w, http.StatusForbidden, "user is not linked to a hospital")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		ctx = context.WithValue(ctx, ctxHospitalID, claims.HospitalID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role := r.Context().Value(ctxRole)
	if role == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	current := role.(string)
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

func hospitalIDFromContext(r *http.Request) int64 {
	if val := r.Context().Value(ctxHospitalID); val != nil {
		if id, ok := val.(int64); ok {
			return id
		}
	}
	return 0
}

func usernameFromContext(r *http.Request) string {
	if val := r.Context().Value(ctxUsername); val != nil {
		if name, ok := val.(string); ok {
			return name
		}
	}
	return ""
}

// Auth Handlers

type registerRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	HospitalID       int64  `json:"hospital_id,omitempty"`
	HospitalName     string `json:"hospital_name,omitempty"`
	HospitalAddress  string `json:"hospital_address,omitempty"`
	HospitalLocation string `json:"hospital_location,omitempty"`
}

type authResponse struct {
	Token    string           `json:"token"`
	User     domain.User      `json:"user"`
	Hospital *domain.Hospital `json:"hospital,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "username, email, password and role are required")
		return
	}

	if req.Role != "admin" && req.Role != "cashier" {
		respondError(w, http.StatusBadRequest, "role must be admin or cashier")
		return
	}

	if req.Role == "admin" && strings.TrimSpace(req.HospitalName) == "" {
		respondError(w, http.StatusBadRequest, "hospital_name is required for admins")
		return
	}
	if req.Role == "cashier" && req.HospitalID <= 0 {
		respondError(w, http.StatusBadRequest, "hospital_id is required for cashiers")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to start registration")
		return
	}

	if req.Role == "cashier" {
		var exists bool
		if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM hospitals WHERE id = $1)`, req.HospitalID); err != nil || !exists {
			_ = tx.Rollback()
			respondError(w, http.StatusBadRequest, "invalid hospital_id for cashier")
			return
		}
	}

	var (
		userID           int64
		assignedHospital int64
	)
	var hospitalIDValue *int64
	if req.Role == "cashier" {
		hospitalIDValue = &req.HospitalID
	}

	err = tx.QueryRowx(`INSERT INTO users (username, email, password, role, hospital_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		req.Username, strings.ToLower(req.Email), hashed, req.Role, hospitalIDValue).Scan(&userID)
	if err != nil {
		_ = tx.Rollback()
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			respondError(w, http.StatusConflict, "email already exists")
		} else {
			respondError(w, http.StatusInternalServerError, "db error: "+err.Error())
		}
		return
	}

	var hospital *domain.Hospital
	if req.Role == "admin" {
		var (
			hospitalID int64
			createdAt  string
		)
		err = tx.QueryRowx(`INSERT INTO hospitals (name, address, location, owner_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
			req.HospitalName, req.HospitalAddress, req.HospitalLocation, userID).Scan(&hospitalID, &createdAt)
		if err != nil {
			_ = tx.Rollback()
			respondError(w, http.StatusInternalServerError, "unable to create hospital for admin")
			return
		}
		if _, err := tx.Exec(`UPDATE users SET hospital_id = $1 WHERE id = $2`, hospitalID, userID); err != nil {
			_ = tx.Rollback()
			respondError(w, http.StatusInternalServerError, "unable to link admin to hospital")
			return
		}
		assignedHospital = hospitalID
		hospital = &domain.Hospital{
			ID:        hospitalID,
			Name:      req.HospitalName,
			Address:   req.HospitalAddress,
			Location:  req.HospitalLocation,
			OwnerID:   &userID,
			CreatedAt: createdAt,
		}
	} else {
		assignedHospital = req.HospitalID
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to complete registration")
		return
	}

	token, err := h.generateToken(userID, req.Username, req.Role, assignedHospital)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{
		Token:    token,
		User:     domain.User{ID: userID, Username: req.Username, Email: strings.ToLower(req.Email), Role: req.Role, HospitalID: &assignedHospital},
		Hospital: hospital,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	err := h.db.Get(&user, `SELECT id, username, email, password, role, hospital_id FROM users WHERE email = $1`, strings.ToLower(req.Email))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if user.HospitalID == nil || *user.HospitalID == 0 {
		respondError(w, http.StatusForbidden, "user is not linked to a hospital")
		return
	}

	token, err := h.generateToken(user.ID, user.Username, user.Role, *user.HospitalID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	uid := r.Context().Value(ctxUserID).(int64)
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if _, err := h.db.Exec(`UPDATE users SET password = $1 WHERE id = $2`, hashed, uid); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
