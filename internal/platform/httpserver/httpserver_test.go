package httpserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	srv := New(":0", http.NotFoundHandler())

	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Zero(t, srv.WriteTimeout, "streams need an open-ended write deadline")
	assert.Nil(t, srv.BaseContext)
}

func TestNew_Options(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "root")

	srv := New(":0", http.NotFoundHandler(),
		WithBaseContext(ctx),
		WithReadTimeout(2*time.Second),
		WithReadTimeout(0),
	)

	require.NotNil(t, srv.BaseContext)
	assert.Equal(t, "root", srv.BaseContext(nil).Value(key{}))
	assert.Equal(t, 2*time.Second, srv.ReadTimeout)
}
