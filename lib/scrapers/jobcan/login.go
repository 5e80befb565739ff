package jobcan

import (
	"context"
	"fmt"
	"strings"

	"jobcan-assist/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const authenticatedTitlePrefix = "JOBCAN MyPage:"

// the portal has no structured login result, the page title is the
// only reliable success signal
func isAuthenticatedPage(title string) bool {
	return strings.HasPrefix(title, authenticatedTitlePrefix)
}

func requiresSecondFactor(doc *goquery.Document) bool {
	return doc.Find("input[name='user[otp_attempt]']").Length() > 0
}

func (c *Client) fetchCsrfToken(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:fetchCsrfToken")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.signInUrl())
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch sign in page")
		return err
	}
	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse sign in page")
		return err
	}

	token := htmlutil.GetMeta(doc, "csrf-token")
	if token == "" {
		err := fmt.Errorf("could not find a csrf token on the sign in page")
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return c.Store.Set(ctx, KeyCsrfToken, token)
}

func (c *Client) refreshAditToken(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:refreshAditToken")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.employeePageUrl())
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch employee page")
		return err
	}
	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse employee page")
		return err
	}

	token := htmlutil.GetInputValue(doc, "token")
	if token == "" {
		err := fmt.Errorf("could not find the adit token on the employee page")
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return c.Store.Set(ctx, KeyAditToken, token)
}

// Login performs the full credential login flow: csrf acquisition,
// form submission, success detection and adit token refresh. Both
// credentials must already be in the store or no request is made.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	username, err := c.Store.Get(ctx, KeyUsername)
	if err != nil {
		return err
	}
	password, err := c.Store.Get(ctx, KeyPassword)
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		span.SetStatus(codes.Error, ErrMissingCredentials.Error())
		return ErrMissingCredentials
	}

	err = c.fetchCsrfToken(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire csrf token")
		return err
	}
	csrfToken, err := c.Store.Get(ctx, KeyCsrfToken)
	if err != nil {
		return err
	}

	// the exact form shape the portal expects, any field-name change
	// breaks the login
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"authenticity_token":       csrfToken,
			"user[email]":              username,
			"user[client_code]":        "",
			"user[password]":           password,
			"save_sign_in_information": "true",
			"app_key":                  "atd",
			"commit":                   "ログイン",
		}).
		Post(c.signInUrl())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response")
		return err
	}

	// the portal issues a fresh csrf token on every response
	if token := htmlutil.GetMeta(doc, "csrf-token"); token != "" {
		err = c.Store.Set(ctx, KeyCsrfToken, token)
		if err != nil {
			return err
		}
	}

	title := htmlutil.GetTitle(doc)
	if !isAuthenticatedPage(title) {
		if requiresSecondFactor(doc) {
			span.SetStatus(codes.Error, ErrSecondFactorRequired.Error())
			return ErrSecondFactorRequired
		}
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return ErrLoginFailed
	}

	err = c.refreshAditToken(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to refresh adit token")
		return err
	}
	return nil
}
