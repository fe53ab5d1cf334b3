package bot

import (
	"regexp"

	"github.com/diamondburned/arikawa/v3/utils/httputil/httpdriver"
	"github.com/starshine-sys/griffin/common/log"
)

var snowflakeRe = regexp.MustCompile(`\d{15,}`)

// routeName replaces IDs in an API path, so requests to the same route are counted together.
func routeName(path string) string {
	return snowflakeRe.ReplaceAllString(path, "{id}")
}

// onResponse logs a request's status code and adds it to metrics
func (bot *Bot) onResponse(req httpdriver.Request, resp httpdriver.Response) error {
	method := ""

	v, ok := req.(*httpdriver.DefaultRequest)
	if ok {
		method = v.Method
		if method == "" {
			method = "GET"
		}
	}

	if resp == nil {
		return nil
	}

	if _, ok := resp.(*httpdriver.DefaultResponse); !ok {
		return nil
	}

	route := routeName(req.GetPath())
	log.Debugf("%v %v => %v", method, route, resp.GetStatus())

	bot.Stats.RegisterEvent("Request")
	return nil
}
