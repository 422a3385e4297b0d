package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"sweet-shop/api"
	"sweet-shop/models"
	"sweet-shop/utils"
)

// UserController handles registration and login
type UserController struct {
	DB     *DB
	Logger zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(db *DB, logger zerolog.Logger) *UserController {
	return &UserController{DB: db, Logger: logger}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if _, err := mail.ParseAddress(req.Email); err != nil {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if req.Name == "" {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if len(req.Password) < models.MinPasswordLength {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters long", models.MinPasswordLength))
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.Logger.Error().Err(err).Msg("hashing password")
		WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user, err := uc.DB.CreateUser(req.Email, req.Name, string(hashedPassword))
	if errors.Is(err, ErrUserExists) {
		WriteError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		uc.Logger.Error().Err(err).Msg("signing token")
		WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	uc.Logger.Info().Str("email", user.Email).Bool("admin", user.IsAdmin).Msg("user registered")
	WriteJSON(w, http.StatusCreated, api.AuthResponse{
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, hash, err := uc.DB.FindUser(strings.TrimSpace(creds.Email))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Compare the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	WriteJSON(w, http.StatusOK, api.AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}
