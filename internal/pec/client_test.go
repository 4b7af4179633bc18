package pec

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Username = "estadual"
	cfg.Password = "secret"
	cfg.RetryCount = 0
	return New(cfg, zap.NewNop())
}

func TestLoginCapturesSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "estadual", r.FormValue("usuario"))
		require.Equal(t, "secret", r.FormValue("senha"))
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Login(context.Background()))
	require.Equal(t, "abc123", c.sessionID)
}

func TestLoginWithoutCookieIsDegraded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Login(context.Background()))
	require.Equal(t, sessionDegraded, c.sessionID)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.Login(context.Background())
	require.ErrorContains(t, err, "status 401")
}

func TestSendUploadsZippedEsus(t *testing.T) {
	payload := []byte("thrift-bytes")
	var gotCookie string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-1"})
			return
		}
		require.Equal(t, sendPath, r.URL.Path)
		gotCookie = r.Header.Get("Cookie")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("ficha")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "uuid-1.zip", header.Filename)

		raw, err := io.ReadAll(file)
		require.NoError(t, err)
		zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
		require.NoError(t, err)
		require.Len(t, zr.File, 1)
		require.Equal(t, "uuid-1.esus", zr.File[0].Name)

		entry, err := zr.File[0].Open()
		require.NoError(t, err)
		defer entry.Close()
		content, err := io.ReadAll(entry)
		require.NoError(t, err)
		require.Equal(t, payload, content)

		w.Write([]byte(`{"status":"ok"}`))
	}))

	require.NoError(t, c.Login(context.Background()))

	res, err := c.Send(context.Background(), "uuid-1", payload)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "JSESSIONID=sess-1", gotCookie)
}

// A rejection is reported through the result so the record can be marked
// ERRO_ENVIO with the receiver's message attached.
func TestSendRejectionIsAResultNotAnError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-2"})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("lote invalido"))
	}))

	res, err := c.Send(context.Background(), "uuid-2", []byte("x"))
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Equal(t, "lote invalido", res.Message)
}

// Send without an established session authenticates on its own before the
// upload, so a caller that skipped Login still sends on a real session.
func TestSendWithoutSessionLogsInFirst(t *testing.T) {
	var logins int
	var gotCookie string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			logins++
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "sess-3"})
			return
		}
		require.Equal(t, sendPath, r.URL.Path)
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))

	res, err := c.Send(context.Background(), "uuid-3", []byte("x"))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, logins)
	require.Equal(t, "JSESSIONID=sess-3", gotCookie)

	// The session is reused; no second login on the next upload.
	res, err = c.Send(context.Background(), "uuid-4", []byte("y"))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, 1, logins)
}

func TestSendFailsWhenImplicitLoginRejected(t *testing.T) {
	var uploads int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		uploads++
	}))

	_, err := c.Send(context.Background(), "uuid-5", []byte("x"))
	require.ErrorContains(t, err, "status 401")
	require.Zero(t, uploads)
}

func TestExtractSessionFromRawHeader(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Malformed variant seen in the field: cookie attributes glued
		// without a parseable expiry, still carrying the session id.
		w.Header().Add("Set-Cookie", "JSESSIONID=raw-42; Path=/; HttpOnly")
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Login(context.Background()))
	require.Equal(t, "raw-42", c.sessionID)
}
