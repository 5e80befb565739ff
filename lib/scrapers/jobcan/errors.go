package jobcan

import "fmt"

var (
	// no request is made when credentials are absent
	ErrMissingCredentials = fmt.Errorf("username or password has not been set")
	// wrong credentials or an unexpected page, never retried
	ErrLoginFailed = fmt.Errorf("login failed, check your username or password")
	// the account has two-factor authentication enabled, which this
	// client does not perform
	ErrSecondFactorRequired = fmt.Errorf("this account requires two-factor authentication, which is unsupported")
	// the landing page did not contain the embedded status payload
	ErrNoStatusBlock = fmt.Errorf("could not find the status payload on the employee page")
)

// UnexpectedServerStateError reports a clock action the portal did not
// accept (result code other than 1).
type UnexpectedServerStateError struct {
	Result int
	State  int
}

func (e *UnexpectedServerStateError) Error() string {
	return fmt.Sprintf("the portal rejected the clock action (result=%d state=%d)", e.Result, e.State)
}
