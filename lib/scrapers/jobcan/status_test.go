package jobcan

import (
	"context"
	"testing"

	"jobcan-assist/lib/htmlutil"
	"jobcan-assist/lib/scrapers/jobcan/jobcantest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	portal := jobcantest.NewPortal()
	portal.GroupId = 7
	portal.CurrentStatus = "working"
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	report, err := client.Status(ctx)
	require.NoError(t, err)
	diff := cmp.Diff(StatusReport{
		AditGroupId:   7,
		CurrentStatus: StatusWorking,
	}, report)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestStatusMissingBlock(t *testing.T) {
	portal := jobcantest.NewPortal()
	portal.OmitStatusBlock = true
	defer portal.Close()

	client, store := newTestClient(t, portal)
	setCredentials(t, store, portal.Username, portal.Password)

	ctx := context.Background()
	require.NoError(t, client.Login(ctx))

	_, err := client.Status(ctx)
	require.ErrorIs(t, err, ErrNoStatusBlock)
}

func TestGetAditParams(t *testing.T) {
	doc, err := htmlutil.ParseDocument([]byte(`<html><body>
<script>var unrelated = 1;</script>
<script>
$(function () {
	load_adit_params({"adit_group_id": 12, "current_status": "having_breakfast"});
});
</script>
</body></html>`))
	require.NoError(t, err)

	report, err := getAditParams(doc)
	require.NoError(t, err)
	require.Equal(t, 12, report.AditGroupId)
	require.Equal(t, StatusHavingBreakfast, report.CurrentStatus)
}

func TestGetAditParamsMalformed(t *testing.T) {
	doc, err := htmlutil.ParseDocument([]byte(
		`<html><body><script>load_adit_params({bad json});</script></body></html>`,
	))
	require.NoError(t, err)

	_, err = getAditParams(doc)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoStatusBlock)
}
