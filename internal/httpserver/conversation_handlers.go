package httpserver

import (
	"net/http"

	"dmchat/internal/service"
)

// @Summary      List conversation partners
// @Description  Every user except the caller, ordered by name
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      500  {object}  map[string]string
// @Router       /conversations [get]
func handleListPartners(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if currentUser == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		users, err := msgSvc.Partners(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}
