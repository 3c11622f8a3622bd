package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClientWithBase("test-token", server.URL), server
}

func okResponse(result any) []byte {
	payload, _ := json.Marshal(map[string]any{"ok": true, "result": result})
	return payload
}

func TestSendMessage_BuildsPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck,gosec // test server
		w.Write(okResponse(true))                //nolint:errcheck,gosec // test server
	})

	err := client.SendMessage(context.Background(), 123, "salom")

	require.NoError(t, err)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, float64(123), gotBody["chat_id"])
	assert.Equal(t, "salom", gotBody["text"])
}

func TestSendMessageWithOptions_IncludesMarkup(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck,gosec // test server
		w.Write(okResponse(true))                //nolint:errcheck,gosec // test server
	})

	markup := InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: "go", CallbackData: "check_sub"}}},
	}

	err := client.SendMessageWithOptions(context.Background(), 123, "salom", &SendOptions{ReplyMarkup: markup})

	require.NoError(t, err)
	assert.Contains(t, gotBody, "reply_markup")
}

func TestAPIError_SurfacesDescription(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"chat not found"}`)) //nolint:errcheck,gosec // test server
	})

	err := client.SendMessage(context.Background(), 123, "salom")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Contains(t, err.Error(), "400")
}

func TestIsMember_StatusMapping(t *testing.T) {
	cases := []struct {
		status string
		member bool
	}{
		{MemberStatusCreator, true},
		{MemberStatusAdministrator, true},
		{MemberStatusMember, true},
		{MemberStatusRestricted, true},
		{MemberStatusLeft, false},
		{MemberStatusKicked, false},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write(okResponse(ChatMember{Status: tc.status})) //nolint:errcheck,gosec // test server
			})

			member, err := client.IsMember(context.Background(), "@kanal", 7)

			require.NoError(t, err)
			assert.Equal(t, tc.member, member)
		})
	}
}

func TestIsMember_APIErrorIsAnError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":502,"description":"oracle down"}`)) //nolint:errcheck,gosec // test server
	})

	_, err := client.IsMember(context.Background(), "@kanal", 7)

	assert.Error(t, err, "callers must be able to fail closed on oracle errors")
}

func TestSendPhoto_UploadsMultipart(t *testing.T) {
	var gotContentType string
	var gotChatID, gotCaption string
	var gotPhoto []byte

	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")

		file, _, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()

		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		gotPhoto = buf[:n]

		w.Write(okResponse(true)) //nolint:errcheck,gosec // test server
	})

	err := client.SendPhoto(context.Background(), 123, []byte("jpegbytes"), "AI natija: cat")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data"))
	assert.Equal(t, "123", gotChatID)
	assert.Equal(t, "AI natija: cat", gotCaption)
	assert.Equal(t, []byte("jpegbytes"), gotPhoto)
}

func TestUpdate_DecodesWebhookPayload(t *testing.T) {
	raw := `{
		"update_id": 99,
		"message": {
			"message_id": 1,
			"from": {"id": 7, "is_bot": false, "first_name": "A"},
			"chat": {"id": 7, "type": "private"},
			"text": "a red fox"
		}
	}`

	var update Update
	require.NoError(t, json.Unmarshal([]byte(raw), &update))

	assert.Equal(t, int64(99), update.UpdateID)
	require.NotNil(t, update.Message)
	assert.Equal(t, int64(7), update.Message.From.ID)
	assert.Equal(t, "a red fox", update.Message.Text)
	assert.Nil(t, update.CallbackQuery)
}
