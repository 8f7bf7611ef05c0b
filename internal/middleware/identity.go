package middleware

import (
	"net/http"

	"Finledger/internal/pkg"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware extrai a identidade do usuário do cabeçalho X-User-Id,
// preenchido pelo gateway que autentica as chamadas. Requisições sem o
// cabeçalho ou com ULID malformado são rejeitadas.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "UNAUTHORIZED",
				"message": "Cabeçalho X-User-Id ausente",
			})
			c.Abort()
			return
		}

		if _, err := pkg.ParseULID(userID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "UNAUTHORIZED",
				"message": "Identificador de usuário inválido",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
