package handlers

import (
	"net/http"
	"time"

	"museumbot/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Auth issues admin tokens for the dashboard. Admins authenticate with
// a museum name plus the shared admin password; the issued token is
// scoped to that museum.
type Auth struct {
	Museums      services.MuseumCatalog
	PasswordHash string
	JWTSecret    string
}

type loginRequest struct {
	Museum   string `json:"museum"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (a Auth) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if a.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)) != nil {
		RespondError(c, http.StatusUnauthorized, "invalid museum or password", nil)
		return
	}

	museum, err := a.Museums.FindByName(req.Museum)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid museum or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"museum": museum.Name,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(a.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  signed,
		"museum": museum.Name,
	})
}
