package jobcan

import (
	"context"
	"testing"

	"jobcan-assist/lib/scrapers/jobcan/jobcantest"

	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	result, err := client.Clock(ctx, ClockRequest{GroupId: 3})
	require.NoError(t, err)
	require.Equal(t, StatusWorking, result.CurrentStatus)
	require.Equal(t, 1, result.Result)

	forms := portal.ClockForms()
	require.Len(t, forms, 1)
	require.Equal(t, "DEF", forms[0].Get("adit_item"))
	require.Equal(t, "0", forms[0].Get("is_yakin"))
	require.Equal(t, "", forms[0].Get("notice"))
	require.Equal(t, "3", forms[0].Get("adit_group_id"))
	require.Equal(t, portal.AditToken, forms[0].Get("token"))

	// state-changing requests carry the latest csrf token
	require.Equal(t, portal.LastCsrf(), portal.ClockCsrfs()[0])
}

func TestClockNightShift(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	_, err := client.Clock(ctx, ClockRequest{GroupId: 3, NightShift: true})
	require.NoError(t, err)
	require.Equal(t, "1", portal.ClockForms()[0].Get("is_yakin"))
}

func TestClockRejected(t *testing.T) {
	portal := jobcantest.NewPortal()
	portal.ClockResponse = `{"result":0,"state":0,"current_status":"resting"}`
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	_, err := client.Clock(ctx, ClockRequest{GroupId: 3})
	var serverState *UnexpectedServerStateError
	require.ErrorAs(t, err, &serverState)
	require.Equal(t, 0, serverState.Result)
}

func TestClockWithoutLogin(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()

	client, _ := newTestClient(t, portal)

	_, err := client.Clock(context.Background(), ClockRequest{GroupId: 3})
	require.Error(t, err)
	require.Empty(t, portal.ClockForms())
}

func TestSequentialClocksShareCookies(t *testing.T) {
	portal := jobcantest.NewPortal()
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	_, err := client.Clock(ctx, ClockRequest{GroupId: 3})
	require.NoError(t, err)
	_, err = client.Clock(ctx, ClockRequest{GroupId: 3})
	require.NoError(t, err)

	cookies := portal.ClockCookies()
	require.Len(t, cookies, 2)
	require.Equal(t, cookies[0], cookies[1])
}
