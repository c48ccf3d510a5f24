package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// StoreMiddleware resolves the :storeId route parameter and enforces that the
// authenticated caller is a member of the store. Runs after JWTMiddleware.
type StoreMiddleware struct {
	stores *service.StoreService
}

// NewStoreMiddleware constructs a StoreMiddleware.
func NewStoreMiddleware(stores *service.StoreService) *StoreMiddleware {
	return &StoreMiddleware{stores: stores}
}

// Handle returns a Gin middleware that puts the resolved store and the
// caller's membership on the context.
func (m *StoreMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.Param("storeId")
		userID := c.GetString("user_id")

		store, err := m.stores.Get(c.Request.Context(), storeID)
		if err != nil {
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		member, err := m.stores.Member(c.Request.Context(), storeID, userID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				utils.Error(c, 403, "FORBIDDEN", "Not a member of this store")
			} else {
				utils.RespondError(c, err)
			}
			c.Abort()
			return
		}

		c.Set("store", store)
		c.Set("member_role", string(member.Role))
		c.Next()
	}
}
