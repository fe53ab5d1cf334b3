package bot

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestOptionalServiceDoesNotStopGroup(t *testing.T) {
	g, gctx := errgroup.WithContext(context.Background())

	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return optional("Status API", func() error {
			return errors.New("listen tcp :8080: address already in use")
		})()
	})

	<-done
	assert.NoError(t, gctx.Err(), "a failing optional service must not cancel the session")
	assert.NoError(t, g.Wait())

	called := false
	assert.NoError(t, optional("Cog watcher", func() error {
		called = true
		return nil
	})())
	assert.True(t, called)
}
