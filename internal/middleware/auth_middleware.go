package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-gaji/internal/shared/apperror"
	"go-gaji/internal/shared/contextutil"
	"go-gaji/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware memvalidasi bearer token dan menaruh identitas aktor di context.
// Penerbitan token ada di sistem lain; engine ini hanya membaca klaimnya.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			msg := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				msg = "Token expired"
			}
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, msg, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		employeeID, _ := claims["employee_id"].(string)

		c.Set("user_id_validated", userID)
		c.Set("role", role)
		c.Set("employee_id", employeeID)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
