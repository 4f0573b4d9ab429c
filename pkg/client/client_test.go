package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/pkg/client"
)

func TestLike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/engagement/4/like", r.URL.Path)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(7), body["user_id"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"likes_count":3,"user_has_liked":true}`))
	}))
	defer srv.Close()

	res, err := client.New(srv.URL, 7).Like(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{LikesCount: 3, UserHasLiked: true}, res)
}

func TestUnlike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`{"likes_count":2,"user_has_liked":false}`))
	}))
	defer srv.Close()

	res, err := client.New(srv.URL, 7).Unlike(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(2), res.LikesCount)
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1,2", r.URL.Query().Get("item_ids"))
		_, _ = w.Write([]byte(`{"1":{"likes_count":5,"user_has_liked":true,"comments_count":0},"2":{"likes_count":0,"user_has_liked":false,"comments_count":1}}`))
	}))
	defer srv.Close()

	res, err := client.New(srv.URL, 7).Stats(context.Background(), []int64{1, 2})

	require.NoError(t, err)
	assert.Equal(t, domain.ItemStats{LikesCount: 5, UserHasLiked: true}, res[1])
	assert.Equal(t, int64(1), res[2].CommentsCount)
}

func TestErrorMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            domain.ErrNotFound,
		http.StatusConflict:            domain.ErrConflict,
		http.StatusBadRequest:          domain.ErrBadParamInput,
		http.StatusServiceUnavailable:  domain.ErrTransient,
		http.StatusInternalServerError: domain.ErrTransient,
	}
	for code, want := range cases {
		t.Run(http.StatusText(code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			_, err := client.New(srv.URL, 7).Like(context.Background(), 4)

			assert.ErrorIs(t, err, want)
			assert.NotErrorIs(t, err, client.ErrTimeout)
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := client.New(srv.URL, 7, client.WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := c.Like(context.Background(), 4)

	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, client.ErrTimeout)
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := client.New(addr, 7).Stats(context.Background(), []int64{1})

	assert.ErrorIs(t, err, domain.ErrTransient)
}
