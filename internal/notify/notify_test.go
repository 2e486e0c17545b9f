package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

var stamp = time.Date(2024, 7, 1, 9, 50, 0, 0, time.UTC)

func sampleEvent() model.Event {
	return model.Event{
		ID:               "evt-1",
		Title:            "팀 회의",
		Date:             "2024-07-01",
		StartTime:        "10:00",
		EndTime:          "11:00",
		Location:         "회의실 A",
		Category:         "업무",
		NotificationTime: 10,
	}
}

func fastClient() *HTTPClient {
	c := NewHTTPClient(time.Second, 2)
	c.retryDelay = time.Millisecond
	return c
}

func TestGetFormatter(t *testing.T) {
	tests := []struct {
		webhookType string
		expected    string
	}{
		{model.WebhookTypeDiscord, "*notify.DiscordFormatter"},
		{model.WebhookTypeSlack, "*notify.SlackFormatter"},
		{model.WebhookTypeGeneric, "*notify.GenericFormatter"},
		{"teams", "*notify.GenericFormatter"},
		{"", "*notify.GenericFormatter"},
	}
	for _, tt := range tests {
		t.Run(tt.webhookType, func(t *testing.T) {
			f := GetFormatter(tt.webhookType)
			assert.Equal(t, tt.expected, fmt.Sprintf("%T", f))
			assert.Equal(t, "application/json", f.ContentType())
		})
	}
}

func TestEventNotification(t *testing.T) {
	n := EventNotification(sampleEvent(), stamp)
	assert.Equal(t, model.NotifyEvent, n.Type)
	assert.Equal(t, "evt-1", n.EventID)
	assert.Equal(t, "팀 회의", n.Title)
	assert.Equal(t, "10분 후 팀 회의 일정이 시작됩니다.", n.Message)
	assert.Equal(t, "10:00 - 11:00", n.Fields["시간"])
	assert.Equal(t, "회의실 A", n.Fields["위치"])

	e := sampleEvent()
	e.Location = ""
	_, ok := EventNotification(e, stamp).Fields["위치"]
	assert.False(t, ok, "empty fields are omitted")
}

func TestDiscordFormatter(t *testing.T) {
	payload, err := (&DiscordFormatter{}).Format(EventNotification(sampleEvent(), stamp))
	require.NoError(t, err)

	var got discordPayload
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	assert.Equal(t, "팀 회의", embed.Title)
	assert.Equal(t, model.ColorWarning, embed.Color)
	assert.Equal(t, "2024-07-01T09:50:00Z", embed.Timestamp)
	require.NotEmpty(t, embed.Fields)
	assert.Equal(t, "날짜", embed.Fields[0].Name, "fields are sorted by name")
	assert.Equal(t, "eventcal | 일정 알림", embed.Footer.Text)

	personal := sampleEvent()
	personal.Category = "개인"
	payload, err = (&DiscordFormatter{}).Format(EventNotification(personal, stamp))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, model.ColorGreen, got.Embeds[0].Color)

	long := sampleEvent()
	long.Title = strings.Repeat("가", 300)
	payload, err = (&DiscordFormatter{}).Format(EventNotification(long, stamp))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, discordTitleMax, len([]rune(got.Embeds[0].Title)))
	assert.True(t, strings.HasSuffix(got.Embeds[0].Title, "…"))
}

func TestSlackFormatter(t *testing.T) {
	n := model.NewNotification(model.NotifyTest, "t", "a <b> & c", stamp)
	payload, err := (&SlackFormatter{}).Format(n)
	require.NoError(t, err)

	var got slackPayload
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "a &lt;b&gt; &amp; c", got.Blocks[1].Text.Text)
	assert.Equal(t, "#3498DB", got.Attachments[0].Color)
	last := got.Blocks[len(got.Blocks)-1]
	assert.Equal(t, "context", last.Type)
	assert.Equal(t, "eventcal | 테스트 알림 | 2024-07-01 09:50", last.Elements[0].Text)
}

func TestGenericFormatter(t *testing.T) {
	n := EventNotification(sampleEvent(), stamp)

	t.Run("default", func(t *testing.T) {
		payload, err := NewGenericFormatter("").Format(n)
		require.NoError(t, err)
		var got genericPayload
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, "event", got.Type)
		assert.Equal(t, "일정 알림", got.Label)
		assert.Equal(t, "evt-1", got.EventID)
		assert.Equal(t, n.Message, got.Message)
	})

	t.Run("template", func(t *testing.T) {
		payload, err := NewGenericFormatter(`{"text":"{{.Title}}: {{.Message}}"}`).Format(n)
		require.NoError(t, err)
		assert.Equal(t, `{"text":"팀 회의: 10분 후 팀 회의 일정이 시작됩니다."}`, string(payload))
	})

	t.Run("bad_template", func(t *testing.T) {
		_, err := NewGenericFormatter(`{{.Title`).Format(n)
		assert.Error(t, err)
	})
}

func TestHTTPClient_Send(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var body []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		res := fastClient().Send(context.Background(), srv.URL, "application/json", []byte(`{"a":1}`))
		require.NoError(t, res.Error)
		assert.Equal(t, http.StatusNoContent, res.StatusCode)
		assert.Equal(t, 1, res.Attempts)
		assert.JSONEq(t, `{"a":1}`, string(body))
	})

	t.Run("retries_server_errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		res := fastClient().Send(context.Background(), srv.URL, "application/json", nil)
		require.NoError(t, res.Error)
		assert.Equal(t, 3, res.Attempts)
	})

	t.Run("gives_up_as_recoverable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		res := fastClient().Send(context.Background(), srv.URL, "application/json", nil)
		require.Error(t, res.Error)
		assert.True(t, errors.IsRecoverableError(res.Error))
		assert.Equal(t, 3, res.Attempts)
		assert.Contains(t, res.Error.Error(), "rate limited (HTTP 429) (attempt 2/2)")

		var re *errors.RecoverableError
		require.ErrorAs(t, res.Error, &re)
		assert.Equal(t, 2, re.RetryCount)
		assert.False(t, re.CanRetry)
	})

	t.Run("no_retries_configured", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewHTTPClient(time.Second, 0)
		res := c.Send(context.Background(), srv.URL, "application/json", nil)
		require.Error(t, res.Error)
		assert.True(t, errors.IsRecoverableError(res.Error))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("client_error_not_retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "bad payload", http.StatusBadRequest)
		}))
		defer srv.Close()

		res := fastClient().Send(context.Background(), srv.URL, "application/json", nil)
		require.Error(t, res.Error)
		assert.Contains(t, res.Error.Error(), "HTTP 400")
		assert.True(t, errors.IsUserCategory(res.Error))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("canceled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := fastClient().Send(ctx, "http://127.0.0.1:1", "application/json", nil)
		assert.ErrorIs(t, res.Error, context.Canceled)
	})
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient(0, -1)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
	assert.Equal(t, DefaultMaxRetries, c.maxRetries)
}

func setupDispatcher(t *testing.T) (*Dispatcher, *storage.WebhookRepo) {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := storage.NewWebhookRepo(db)
	d := NewDispatcher(repo, fastClient())
	d.now = func() time.Time { return stamp }
	return d, repo
}

func TestDispatcher_Send(t *testing.T) {
	d, repo := setupDispatcher(t)

	assert.Nil(t, d.Send(context.Background(), EventNotification(sampleEvent(), stamp)))

	var hits int32
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer bad.Close()

	require.NoError(t, repo.Create(model.NewWebhook("good", model.WebhookTypeDiscord, ok.URL, stamp)))
	require.NoError(t, repo.Create(model.NewWebhook("bad", model.WebhookTypeGeneric, bad.URL, stamp)))
	off := model.NewWebhook("off", model.WebhookTypeSlack, ok.URL, stamp)
	off.Enabled = false
	require.NoError(t, repo.Create(off))

	results := d.Send(context.Background(), EventNotification(sampleEvent(), stamp))
	require.Len(t, results, 2)
	byName := map[string]DispatchResult{}
	for _, r := range results {
		byName[r.WebhookName] = r
	}
	assert.True(t, byName["good"].Success)
	assert.False(t, byName["bad"].Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	w, err := repo.Get("bad")
	require.NoError(t, err)
	assert.Contains(t, w.LastError, "HTTP 403")
}

func TestDispatcher_Test(t *testing.T) {
	d, repo := setupDispatcher(t)

	var got genericPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	wh := model.NewWebhook("hook", model.WebhookTypeGeneric, srv.URL, stamp)
	wh.Enabled = false
	require.NoError(t, repo.Create(wh))

	res := d.Test(context.Background(), "hook")
	require.NoError(t, res.Error)
	assert.Equal(t, "test", got.Type)
	assert.Equal(t, "hook", got.Fields["webhook"])

	res = d.Test(context.Background(), "missing")
	assert.ErrorIs(t, res.Error, errors.ErrWebhookNotFound)
}
