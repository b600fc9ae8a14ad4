package httpserver

import (
	"net/http"

	"dmchat/internal/service"
)

type audioUploadRequest struct {
	AudioData  string `json:"audio_data"`
	ReceiverID string `json:"receiver_id"`
}

// @Summary      Send voice message
// @Description  Upload a base64 recording and send it to receiver_id as an audio message
// @Tags         messages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input  body  audioUploadRequest  true  "Recording"
// @Success      201  {object}  domain.ViewMessage
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /audio/upload [post]
func handleUploadAudio(msgSvc *service.MessageService, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req audioUploadRequest
		if err := decodeJSON(w, r, maxBody, &req); err != nil {
			writeError(w, r, err)
			return
		}

		msg, err := msgSvc.SendVoice(r.Context(), currentUser.ID, req.ReceiverID, req.AudioData)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}
