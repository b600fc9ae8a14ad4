package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dmchat/internal/service"
)

type messageEditRequest struct {
	Text string `json:"text"`
}

type reactRequest struct {
	Emoji string `json:"emoji"`
}

// @Summary      Get conversation
// @Description  Full message history with another user, oldest first, as the caller may see it
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Other user ID"
// @Success      200  {array}   domain.ViewMessage
// @Failure      500  {object}  map[string]string
// @Router       /messages/{id} [get]
func handleGetConversation(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		msgs, err := msgSvc.Conversation(r.Context(), currentUser.ID, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

// @Summary      Send message
// @Description  Send text, an uploaded attachment or an inline base64 file to another user
// @Tags         messages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id     path  string              true  "Receiver user ID"
// @Param        input  body  service.SendInput   true  "Message"
// @Success      201  {object}  domain.ViewMessage
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [post]
func handleSendMessage(msgSvc *service.MessageService, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req service.SendInput
		if err := decodeJSON(w, r, maxBody, &req); err != nil {
			writeError(w, r, err)
			return
		}

		msg, err := msgSvc.Send(r.Context(), currentUser.ID, chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// @Summary      Edit message
// @Tags         messages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id     path  string              true  "Message ID"
// @Param        input  body  messageEditRequest  true  "New text"
// @Success      200  {object}  domain.ViewMessage
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [put]
func handleEditMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req messageEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		msg, err := msgSvc.Edit(r.Context(), currentUser.ID, chi.URLParam(r, "id"), req.Text)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// @Summary      Delete message
// @Description  Hide a message for the caller; once both sides delete it, it is gone for good
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Message ID"
// @Success      200  {object}  domain.ViewMessage
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [delete]
func handleDeleteMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		msg, err := msgSvc.Delete(r.Context(), currentUser.ID, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// @Summary      React to message
// @Description  Add, replace or (with the same emoji) remove the caller's reaction
// @Tags         messages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id     path  string        true  "Message ID"
// @Param        input  body  reactRequest  true  "Emoji"
// @Success      200  {object}  domain.ViewMessage
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id}/react [post]
func handleReact(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req reactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		msg, err := msgSvc.React(r.Context(), currentUser.ID, chi.URLParam(r, "id"), req.Emoji)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

// @Summary      Search conversation
// @Description  Case-insensitive substring search over the caller's visible messages with another user
// @Tags         messages
// @Security     BearerAuth
// @Produce      json
// @Param        id     path   string  true  "Other user ID"
// @Param        query  query  string  true  "Search text"
// @Success      200  {array}   domain.ViewMessage
// @Failure      400  {object}  map[string]string
// @Router       /messages/{id}/search [get]
func handleSearch(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		msgs, err := msgSvc.Search(r.Context(), currentUser.ID, chi.URLParam(r, "id"), r.URL.Query().Get("query"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}
