package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"dmchat/internal/domain"
	"dmchat/internal/service"
)

// @Summary      Get user
// @Description  Public profile of a user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  domain.UserSummary
// @Failure      404  {object}  map[string]string
// @Router       /users/{userID} [get]
func handleGetUser(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userSvc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.UserSummary{ID: user.ID, Name: user.Name, ProfilePic: user.ProfilePic})
	}
}
