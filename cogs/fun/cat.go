package fun

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/diamondburned/arikawa/v3/utils/sendpart"
	"github.com/starshine-sys/griffin/command"
	"github.com/starshine-sys/griffin/common/log"
)

// maxImageSize limits how much of a response is read.
const maxImageSize = 8 << 20

// StatusError is returned when the image service doesn't respond with 200 OK.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return "`cataas.com` is not responding: " + e.Status
}

// Client fetches cat pictures.
type Client struct {
	BaseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), http: hc}
}

// Cat returns a random cat picture.
func (c *Client) Cat(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/cat")
}

// CatSays returns a random cat picture with text on it.
// Empty text gets a blank caption.
func (c *Client) CatSays(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		text = " "
	}
	return c.get(ctx, "/cat/says/"+url.PathEscape(text))
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "executing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: fmt.Sprint(resp.StatusCode)}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	return b, nil
}

func (bot *Bot) cat(ctx *command.SlashContext) error {
	return bot.sendCat(ctx, func(c context.Context) ([]byte, error) {
		return bot.cats.Cat(c)
	})
}

func (bot *Bot) catSays(ctx *command.SlashContext) error {
	text := ctx.Option("text")
	return bot.sendCat(ctx, func(c context.Context) ([]byte, error) {
		return bot.cats.CatSays(c, text)
	})
}

func (bot *Bot) sendCat(ctx *command.SlashContext, fetch func(context.Context) ([]byte, error)) error {
	if bot.onCooldown(ctx.User().ID) {
		return ctx.ReplyEphemeral("Slow down! Try again in a few seconds.")
	}

	err := ctx.Defer()
	if err != nil {
		return errors.Wrap(err, "deferring response")
	}

	img, err := fetch(bot.sessionCtx())
	if err != nil {
		var se *StatusError
		if !errors.As(err, &se) {
			log.Errorf("Error fetching cat: %v", err)
		}

		_, err = ctx.FollowUp(api.InteractionResponseData{
			Content: option.NewNullableString(catError(err)),
		})
		return err
	}

	_, err = ctx.FollowUp(api.InteractionResponseData{
		Files: []sendpart.File{{
			Name:   "cat.png",
			Reader: bytes.NewReader(img),
		}},
	})
	return err
}

func catError(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return "`cataas.com` is not responding: " + err.Error()
}
