package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"handmade-backend/apperrors"
)

// CookieName adalah nama cookie pembawa token sesi admin.
const CookieName = "access_token"

const contextAdminIDKey = "admin_id"

// TokenVerifier memvalidasi token dan mengembalikan id admin.
type TokenVerifier interface {
	VerifyToken(token string) (primitive.ObjectID, error)
}

// TokenFromRequest mengambil token dari cookie access_token atau
// header Authorization: Bearer. Kosong bila tidak ada keduanya.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAdmin menolak permintaan tanpa token admin yang sah dan
// menaruh id admin pada context Gin untuk handler berikutnya.
func RequireAdmin(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": apperrors.ErrNotAuthenticated.Message,
				"code":  apperrors.ErrNotAuthenticated.Code,
			})
			return
		}

		adminID, err := verifier.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
				"error": err.Error(),
				"code":  apperrors.CodeOf(err),
			})
			return
		}

		c.Set(contextAdminIDKey, adminID)
		c.Next()
	}
}

// RejectAuthenticated memblokir login/register ulang selama token yang
// disodorkan masih sah; token kedaluwarsa atau rusak dianggap anonim
// dan alur diteruskan.
func RejectAuthenticated(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if _, err := verifier.VerifyToken(token); err == nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": apperrors.ErrAlreadyAuthenticated.Message,
					"code":  apperrors.ErrAlreadyAuthenticated.Code,
				})
				return
			}
		}
		c.Next()
	}
}

// AdminID mengambil id admin yang dipasang RequireAdmin.
func AdminID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(contextAdminIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
