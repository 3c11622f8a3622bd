package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultAPIBase = "https://api.telegram.org"

// shared HTTP client for Bot API calls
// reuses connection pool and timeout configuration
var telegramHTTPClient = &http.Client{
	Timeout: 60 * time.Second, // total request timeout
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for outgoing Bot API calls (the API allows roughly
// 30 messages/second across all chats)
var sendRateLimiter = rate.NewLimiter(30, 5)

// HTTP client for the Telegram Bot API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// creates a Bot API client for the given token
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultAPIBase,
		token:      token,
		httpClient: telegramHTTPClient,
		limiter:    sendRateLimiter,
	}
}

// creates a client pointed at a custom API base, used by tests
func NewClientWithBase(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// envelope every Bot API response arrives in
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

// performs a JSON method call and decodes the result into out (may be nil)
func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	return decodeAPIResponse(resp, method, out)
}

func decodeAPIResponse(resp *http.Response, method string, out any) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response (status %d): %w", method, resp.StatusCode, err)
	}

	if !envelope.OK {
		return fmt.Errorf("%s failed with code %d: %s", method, envelope.ErrorCode, envelope.Description)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}

// sends a plain text message to a chat
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.SendMessageWithOptions(ctx, chatID, text, nil)
}

// sends a text message with optional reply markup
func (c *Client) SendMessageWithOptions(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}

	if opts != nil && opts.ReplyMarkup != nil {
		payload["reply_markup"] = opts.ReplyMarkup
	}

	return c.call(ctx, "sendMessage", payload, nil)
}

// uploads photo bytes to a chat with a caption
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	part, err := writer.CreateFormFile("photo", "image.jpg")
	if err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	return decodeAPIResponse(resp, "sendPhoto", nil)
}

// shows a chat action indicator such as "upload_photo"
func (c *Client) SendChatAction(ctx context.Context, chatID int64, action string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"action":  action,
	}

	return c.call(ctx, "sendChatAction", payload, nil)
}

// answers a callback query with a short notification text
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	payload := map[string]any{
		"callback_query_id": callbackID,
		"text":              text,
	}

	return c.call(ctx, "answerCallbackQuery", payload, nil)
}

// reports whether the user currently belongs to the channel
//
// only "left" and "kicked" count as non-membership; any transport or API
// failure is returned as an error so callers can fail closed
func (c *Client) IsMember(ctx context.Context, channel string, userID int64) (bool, error) {
	payload := map[string]any{
		"chat_id": channel,
		"user_id": userID,
	}

	var member ChatMember
	if err := c.call(ctx, "getChatMember", payload, &member); err != nil {
		return false, err
	}

	switch member.Status {
	case MemberStatusLeft, MemberStatusKicked:
		return false, nil
	default:
		return true, nil
	}
}

// registers the webhook endpoint with Telegram
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	payload := map[string]any{
		"url":          url,
		"secret_token": secret,
	}

	return c.call(ctx, "setWebhook", payload, nil)
}
