package instagramimpl

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	baseURL     = "https://www.instagram.com"
	graphqlPath = "/graphql/query/"

	// Query hash for the profile timeline query. Instagram rotates these
	// occasionally; shape drift surfaces as a malformed-response failure and
	// the orchestrator falls back.
	profileQueryHash = "69cba40317214236af40e7efa697781d"

	// Instagram web app id, sent on API-ish requests.
	igAppID = "936619743392459"

	connectTimeout = 30 * time.Second
)

var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// newHTTPClient builds the resty client shared by both strategies. The
// session id is an opaque credential produced by an external login flow; it
// is forwarded as a cookie and never validated here.
func newHTTPClient(sessionID string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(connectTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Connection", "keep-alive")

	if sessionID != "" {
		client.SetCookie(&http.Cookie{
			Name:  "sessionid",
			Value: sessionID,
		})
	}

	return client
}
