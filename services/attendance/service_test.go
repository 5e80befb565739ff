package attendance

import (
	"context"
	"testing"
	"time"

	"jobcan-assist/lib/scrapers/jobcan"
	"jobcan-assist/lib/scrapers/jobcan/jobcantest"
	"jobcan-assist/lib/sqliteutil"
	"jobcan-assist/lib/telemetry"
	"jobcan-assist/services/keyring"
	"jobcan-assist/services/keyring/db"

	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T, portal *jobcantest.Portal) *Service {
	cleanup := telemetry.SetupForTesting(t, "test:services/attendance")
	t.Cleanup(cleanup)

	database, err := sqliteutil.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return NewService(keyring.NewService(database), Options{
		AccountBaseUrl:  portal.BaseUrl(),
		EmployeeBaseUrl: portal.BaseUrl(),
		Timeout:         time.Second * 5,
	})
}

func setupAuthedService(t *testing.T, portal *jobcantest.Portal) *Service {
	service := setupService(t, portal)
	ctx := context.Background()
	require.NoError(t, service.SetUsername(ctx, portal.Username))
	require.NoError(t, service.SetPassword(ctx, portal.Password))
	return service
}

func TestTouch(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupAuthedService(t, portal)

	result, err := service.Touch(context.Background(), TouchOptions{})
	require.NoError(t, err)
	require.Equal(t, jobcan.StatusWorking, result.CurrentStatus)

	forms := portal.ClockForms()
	require.Len(t, forms, 1)
	// default group id comes from the landing page payload
	require.Equal(t, "3", forms[0].Get("adit_group_id"))
	require.Equal(t, "0", forms[0].Get("is_yakin"))
}

func TestTouchExplicitGroup(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupAuthedService(t, portal)

	_, err := service.Touch(context.Background(), TouchOptions{GroupId: 9})
	require.NoError(t, err)
	require.Equal(t, "9", portal.ClockForms()[0].Get("adit_group_id"))
}

func TestTouchNightShift(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupAuthedService(t, portal)

	service.SetNightShift(true)
	require.True(t, service.NightShift())

	_, err := service.Touch(context.Background(), TouchOptions{})
	require.NoError(t, err)
	require.Equal(t, "1", portal.ClockForms()[0].Get("is_yakin"))
}

func TestTouchRejected(t *testing.T) {
	portal := jobcantest.NewPortal()
	portal.ClockResponse = `{"result":0,"state":0,"current_status":"resting"}`
	defer portal.Close()
	service := setupAuthedService(t, portal)

	_, err := service.Touch(context.Background(), TouchOptions{})
	var serverState *jobcan.UnexpectedServerStateError
	require.ErrorAs(t, err, &serverState)
}

func TestTouchMissingCredentials(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupService(t, portal)

	_, err := service.Touch(context.Background(), TouchOptions{})
	require.ErrorIs(t, err, jobcan.ErrMissingCredentials)
	require.Empty(t, portal.ClockForms())
}

func TestSequentialTouchesReuseSession(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupAuthedService(t, portal)

	ctx := context.Background()
	_, err := service.Touch(ctx, TouchOptions{})
	require.NoError(t, err)
	_, err = service.Touch(ctx, TouchOptions{})
	require.NoError(t, err)

	// one login, two clocks over the same cookie jar
	require.Equal(t, 1, portal.SignInPosts())
	cookies := portal.ClockCookies()
	require.Len(t, cookies, 2)
	require.Equal(t, cookies[0], cookies[1])
}

func TestSetCredentialsDropsSession(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupAuthedService(t, portal)

	ctx := context.Background()
	require.NoError(t, service.Login(ctx))
	require.Equal(t, 1, portal.SignInPosts())

	require.NoError(t, service.SetPassword(ctx, portal.Password))
	_, err := service.Touch(ctx, TouchOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, portal.SignInPosts())
}

func TestLoginFailureSurfaces(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()
	service := setupService(t, portal)

	ctx := context.Background()
	require.NoError(t, service.SetUsername(ctx, portal.Username))
	require.NoError(t, service.SetPassword(ctx, "wrong"))

	err := service.Login(ctx)
	require.ErrorIs(t, err, jobcan.ErrLoginFailed)
}
