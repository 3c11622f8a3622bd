package webhook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"codeberg.org/aigram/server/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBot struct {
	mu      sync.Mutex
	updates []*telegram.Update
	done    chan struct{}
}

func newRecordingBot() *recordingBot {
	return &recordingBot{done: make(chan struct{}, 8)}
}

func (r *recordingBot) HandleUpdate(_ context.Context, update *telegram.Update) {
	r.mu.Lock()
	r.updates = append(r.updates, update)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *recordingBot) waitForUpdate(t *testing.T) *telegram.Update {
	t.Helper()

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("update was never dispatched")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates[len(r.updates)-1]
}

func (r *recordingBot) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

type stubGuard struct {
	seen      bool
	seenErr   error
	blockChat bool
}

func (s *stubGuard) AlreadySeen(context.Context, int64) (bool, error) { return s.seen, s.seenErr }
func (s *stubGuard) AllowChat(context.Context, int64) (bool, error)  { return !s.blockChat, nil }

func newTestRouter(secret string, guard Guard, bot UpdateHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/telegram/webhook", Handler(secret, guard, bot))
	return router
}

func postUpdate(router *gin.Engine, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validUpdate = `{"update_id":12,"message":{"message_id":1,"from":{"id":7},"chat":{"id":7,"type":"private"},"text":"a red fox"}}`

func TestHandler_DispatchesValidUpdate(t *testing.T) {
	bot := newRecordingBot()
	router := newTestRouter("s3cret", &stubGuard{}, bot)

	w := postUpdate(router, "s3cret", validUpdate)

	require.Equal(t, http.StatusOK, w.Code)

	update := bot.waitForUpdate(t)
	assert.Equal(t, int64(12), update.UpdateID)
	require.NotNil(t, update.Message)
	assert.Equal(t, "a red fox", update.Message.Text)
}

func TestHandler_RejectsWrongSecret(t *testing.T) {
	bot := newRecordingBot()
	router := newTestRouter("s3cret", &stubGuard{}, bot)

	w := postUpdate(router, "wrong", validUpdate)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postUpdate(router, "", validUpdate)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Zero(t, bot.count())
}

func TestHandler_RejectsMalformedBody(t *testing.T) {
	bot := newRecordingBot()
	router := newTestRouter("s3cret", &stubGuard{}, bot)

	w := postUpdate(router, "s3cret", `{"update_id":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, bot.count())
}

func TestHandler_SkipsDuplicateUpdate(t *testing.T) {
	bot := newRecordingBot()
	router := newTestRouter("s3cret", &stubGuard{seen: true}, bot)

	w := postUpdate(router, "s3cret", validUpdate)

	// re-deliveries are acknowledged without reprocessing
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, bot.count())
}

func TestHandler_ProcessesWhenDedupUnavailable(t *testing.T) {
	bot := newRecordingBot()
	guard := &stubGuard{seenErr: errors.New("redis down")}
	router := newTestRouter("s3cret", guard, bot)

	w := postUpdate(router, "s3cret", validUpdate)

	require.Equal(t, http.StatusOK, w.Code)
	bot.waitForUpdate(t)
}

func TestHandler_ThrottlesFloodingChat(t *testing.T) {
	bot := newRecordingBot()
	router := newTestRouter("s3cret", &stubGuard{blockChat: true}, bot)

	w := postUpdate(router, "s3cret", validUpdate)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, bot.count())
}
