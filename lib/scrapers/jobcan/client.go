package jobcan

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"jobcan-assist/lib/restyutil"
	"jobcan-assist/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/jobcan")

// keys under which the client reads and writes session state in its
// SecretStore. username/password are written by the host surface,
// the tokens are written by the client itself.
const (
	KeyUsername  = "jobcan-username"
	KeyPassword  = "jobcan-password"
	KeyCsrfToken = "jobcan-csrf-token"
	KeyAditToken = "jobcan-adit-token"
)

// SecretStore is a durable per-key string store. Get returns "" for a
// key that has never been set.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type Client struct {
	AccountUrl  *url.URL
	EmployeeUrl *url.URL
	Http        *resty.Client
	Store       SecretStore
}

type ClientOptions struct {
	// base url of the account host, defaults to https://id.jobcan.jp
	AccountBaseUrl string
	// base url of the employee host, defaults to https://ssl.jobcan.jp
	EmployeeBaseUrl string
	// per-request timeout, defaults to 30s
	Timeout time.Duration
	Store   SecretStore
	// optional sink for HTTP exchange dumps, see restyutil
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.AccountBaseUrl == "" {
		opts.AccountBaseUrl = "https://id.jobcan.jp"
	}
	if opts.EmployeeBaseUrl == "" {
		opts.EmployeeBaseUrl = "https://ssl.jobcan.jp"
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	accountUrl, err := url.Parse(opts.AccountBaseUrl)
	if err != nil {
		return nil, err
	}
	employeeUrl, err := url.Parse(opts.EmployeeBaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(
		accountUrl.Hostname(),
		employeeUrl.Hostname(),
	))
	client.SetTimeout(opts.Timeout)

	c := &Client{
		AccountUrl:  accountUrl,
		EmployeeUrl: employeeUrl,
		Http:        client,
		Store:       opts.Store,
	}

	// state-changing requests always carry the most recently stored
	// csrf token
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Method != "POST" {
			return nil
		}
		token, err := c.Store.Get(req.Context(), KeyCsrfToken)
		if err != nil {
			return err
		}
		if token != "" {
			req.SetHeader("X-CSRF-Token", token)
		}
		return nil
	})

	telemetry.InstrumentResty(client, "scrapers/jobcan/http")
	restyutil.InstrumentClient(client, opts.DebugOutput)

	return c, nil
}

func (c *Client) signInUrl() string {
	return c.AccountUrl.JoinPath("users", "sign_in").String()
}

func (c *Client) employeePageUrl() string {
	return c.EmployeeUrl.JoinPath("employee").String()
}

func (c *Client) aditUrl() string {
	return c.EmployeeUrl.JoinPath("employee", "index", "adit").String()
}
